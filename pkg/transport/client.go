// Package transport は生成 API への HTTP 送信とリトライ制御を担います。
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/shouni/gemini-logo-kit/pkg/metrics"
)

const (
	// DefaultMaxRetries は初回送信後に許可される再送回数の既定値です。
	DefaultMaxRetries = 2
	// DefaultBaseDelay は指数バックオフの基準待機時間です。
	DefaultBaseDelay = time.Second
	// MaxDelay は 1 回の待機時間の上限です。
	MaxDelay = time.Minute
)

// Doer は *http.Client が満たす最小のインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request は再送のたびに組み立て直される送信内容です。
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Client はリトライ付きの HTTP 送信を行います。
type Client struct {
	doer       Doer
	maxRetries int
	baseDelay  time.Duration
	newTimer   func() backoff.Timer
	recorder   metrics.Recorder
}

// Option は Client の設定を変更します。
type Option func(*Client)

// WithMaxRetries は再送回数を設定します。負の値は 0 とみなします。
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.maxRetries = n
	}
}

// WithBaseDelay は指数バックオフの基準待機時間を設定します。
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithTimer はバックオフ待機に使うタイマーを差し替えます。主にテスト用です。
// newTimer は Send のたびに呼ばれます。
func WithTimer(newTimer func() backoff.Timer) Option {
	return func(c *Client) { c.newTimer = newTimer }
}

// WithRecorder は指標の記録先を設定します。
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// New は Client を初期化します。
func New(doer Doer, opts ...Option) (*Client, error) {
	if doer == nil {
		return nil, fmt.Errorf("doer is required")
	}
	c := &Client{
		doer:       doer,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		recorder:   metrics.NopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MaxRetries は設定済みの再送回数を返します。
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// statusError は再送判定の対象になった HTTP ステータスです。
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Send は req を送信し、一時的な失敗であれば指数バックオフで再送します。
//
// 429 を除く 4xx は即座に返します。429 と 5xx は再送し、再送回数を使い切った場合は
// 最後のレスポンスをエラーなしで返します。通信エラーも再送し、使い切った場合は
// *TransportError を返します。ctx の終了は再送しません。
func (c *Client) Send(ctx context.Context, req Request) (*http.Response, error) {
	var (
		attempts int
		pending  *http.Response
	)

	var op backoff.OperationWithData[*http.Response] = func() (*http.Response, error) {
		discard(pending)
		pending = nil
		attempts++

		resp, err := c.do(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, backoff.Permanent(ctxErr)
			}
			c.recorder.ObserveAttempt(metrics.AttemptNetwork)
			return nil, err
		}

		switch {
		case isRetryable(resp.StatusCode):
			c.recorder.ObserveAttempt(metrics.AttemptRetryable)
			pending = resp
			return resp, &statusError{StatusCode: resp.StatusCode}
		case resp.StatusCode >= 400:
			c.recorder.ObserveAttempt(metrics.AttemptClientErr)
			return resp, backoff.Permanent(&statusError{StatusCode: resp.StatusCode})
		default:
			c.recorder.ObserveAttempt(metrics.AttemptOK)
			return resp, nil
		}
	}

	notify := func(err error, delay time.Duration) {
		c.recorder.ObserveRetry(delay)
		slog.WarnContext(ctx, "一時的な失敗のため再送します", "attempt", attempts, "delay", delay, "error", sanitize(err))
	}

	var timer backoff.Timer
	if c.newTimer != nil {
		timer = c.newTimer()
	}

	resp, err := backoff.RetryNotifyWithTimerAndData(op, c.policy(ctx), notify, timer)
	if err == nil {
		return resp, nil
	}
	var se *statusError
	if errors.As(err, &se) {
		return resp, nil
	}
	// バックオフ中に ctx が終了した場合は再送待ちのレスポンスが残っています。
	discard(resp)
	slog.WarnContext(ctx, "リクエスト送信を中断しました", "attempts", attempts, "error", sanitize(err))
	return nil, &TransportError{Attempts: attempts, Err: err}
}

// policy は baseDelay, 2*baseDelay, 4*baseDelay ... と待機する再送ポリシーを返します。
func (c *Client) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.baseDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(MaxDelay),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxRetries)), ctx)
}

func (c *Client) do(ctx context.Context, req Request) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	return c.doer.Do(httpReq)
}

func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func discard(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// sanitize はログ出力用に URL（API キーを含む）を取り除いたエラーを返します。
func sanitize(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
