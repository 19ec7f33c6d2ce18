// Package metrics は生成パイプラインの Prometheus 指標を提供します。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "logostudio"

// Attempt の結果ラベル
const (
	AttemptOK        = "ok"
	AttemptClientErr = "client_error"
	AttemptRetryable = "retryable"
	AttemptNetwork   = "network_error"
)

// Recorder はパイプライン各所から指標を記録するためのインターフェースです。
type Recorder interface {
	ObserveAttempt(outcome string)
	ObserveRetry(delay time.Duration)
	ObserveGeneration(apiType, outcome string, elapsed time.Duration)
	ObserveKeyValidation(valid bool)
}

// NopRecorder は何も記録しない Recorder です。
type NopRecorder struct{}

func (NopRecorder) ObserveAttempt(string)                           {}
func (NopRecorder) ObserveRetry(time.Duration)                      {}
func (NopRecorder) ObserveGeneration(string, string, time.Duration) {}
func (NopRecorder) ObserveKeyValidation(bool)                       {}

// Collector は Prometheus に指標を登録する Recorder 実装です。
type Collector struct {
	attempts          *prometheus.CounterVec
	retries           prometheus.Counter
	backoff           prometheus.Histogram
	generations       *prometheus.CounterVec
	generationSeconds *prometheus.HistogramVec
	keyValidations    *prometheus.CounterVec
}

// NewCollector は指標を生成して reg に登録します。
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "attempts_total",
			Help:      "HTTP attempts made against the generation API, by outcome.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "retries_total",
			Help:      "Retries scheduled after a transient failure.",
		}),
		backoff: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "backoff_seconds",
			Help:      "Backoff delay before a retry.",
			Buckets:   []float64{.5, 1, 2, 4, 8},
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "results_total",
			Help:      "Logo generation results, by api type and outcome.",
		}, []string{"api_type", "outcome"}),
		generationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Logo generation duration in seconds.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"api_type"}),
		keyValidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "key",
			Name:      "validations_total",
			Help:      "API key validations, by result.",
		}, []string{"valid"}),
	}

	for _, col := range []prometheus.Collector{
		c.attempts, c.retries, c.backoff, c.generations, c.generationSeconds, c.keyValidations,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) ObserveAttempt(outcome string) {
	c.attempts.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveRetry(delay time.Duration) {
	c.retries.Inc()
	c.backoff.Observe(delay.Seconds())
}

func (c *Collector) ObserveGeneration(apiType, outcome string, elapsed time.Duration) {
	c.generations.WithLabelValues(apiType, outcome).Inc()
	c.generationSeconds.WithLabelValues(apiType).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveKeyValidation(valid bool) {
	label := "false"
	if valid {
		label = "true"
	}
	c.keyValidations.WithLabelValues(label).Inc()
}

// WriteTextfile は reg の内容を Prometheus テキスト形式でファイルに書き出します。
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
