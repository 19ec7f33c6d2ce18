package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceServer は呼び出し順に statuses を返すテスト用サーバーです。
func sequenceServer(t *testing.T, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		w.WriteHeader(statuses[idx])
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// recordingTimer は待機時間を記録し、即座に発火するタイマーです。
// onStart が設定されている場合は発火せずに onStart を呼びます。
type recordingTimer struct {
	delays  []time.Duration
	onStart func()
	c       chan time.Time
}

func newRecordingTimer() *recordingTimer {
	return &recordingTimer{c: make(chan time.Time, 1)}
}

func (r *recordingTimer) Start(d time.Duration) {
	r.delays = append(r.delays, d)
	if r.onStart != nil {
		r.onStart()
		return
	}
	r.c <- time.Now()
}

func (r *recordingTimer) Stop()               {}
func (r *recordingTimer) C() <-chan time.Time { return r.c }

func newTestClient(t *testing.T, doer Doer, opts ...Option) (*Client, *recordingTimer) {
	t.Helper()
	rt := newRecordingTimer()
	c, err := New(doer, append([]Option{WithTimer(func() backoff.Timer { return rt })}, opts...)...)
	require.NoError(t, err)
	return c, rt
}

func TestNew_RequiresDoer(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestSend_StatusSequences(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		wantStatus int
		wantCalls  int32
		wantDelays []time.Duration
	}{
		{
			name:       "5xx は再送して最終的に成功を返す",
			statuses:   []int{500, 500, 200},
			wantStatus: 200,
			wantCalls:  3,
			wantDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "429 以外の 4xx は再送しない",
			statuses:   []int{400},
			wantStatus: 400,
			wantCalls:  1,
		},
		{
			name:       "429 は再送回数を使い切ったら最後のレスポンスを返す",
			statuses:   []int{429, 429, 429},
			wantStatus: 429,
			wantCalls:  3,
			wantDelays: []time.Duration{time.Second, 2 * time.Second},
		},
		{
			name:       "403 は即座に返す",
			statuses:   []int{403, 200},
			wantStatus: 403,
			wantCalls:  1,
		},
		{
			name:       "503 の後に 404 ならそこで終了",
			statuses:   []int{503, 404},
			wantStatus: 404,
			wantCalls:  2,
			wantDelays: []time.Duration{time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := sequenceServer(t, tt.statuses...)
			c, rs := newTestClient(t, srv.Client())

			resp, err := c.Send(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
			assert.Equal(t, tt.wantDelays, rs.delays)
		})
	}
}

func TestSend_ZeroRetries(t *testing.T) {
	srv, calls := sequenceServer(t, 500, 200)
	c, rs := newTestClient(t, srv.Client(), WithMaxRetries(0))

	resp, err := c.Send(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Empty(t, rs.delays)
}

func TestSend_BodyIsResentOnEveryAttempt(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
		calls  int32
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(buf))
		mu.Unlock()
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.Client())
	resp, err := c.Send(context.Background(), Request{
		Method: http.MethodPost,
		URL:    srv.URL,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`{"a":1}`, `{"a":1}`}, bodies)
}

type failingDoer struct {
	calls int
	err   error
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, d.err
}

func TestSend_NetworkErrorsExhaustRetries(t *testing.T) {
	doer := &failingDoer{err: errors.New("connection refused")}
	c, rs := newTestClient(t, doer)

	resp, err := c.Send(context.Background(), Request{Method: http.MethodGet, URL: "http://example.invalid/models?key=secret"})
	assert.Nil(t, resp)
	require.Error(t, err)

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, 3, tErr.Attempts)
	assert.Equal(t, 3, doer.calls)
	assert.Len(t, rs.delays, 2)
	assert.Equal(t, "network error after 3 attempt(s)", err.Error())
	assert.NotContains(t, err.Error(), "secret")
	assert.ErrorContains(t, errors.Unwrap(err), "connection refused")
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestSend_TimeoutIsReported(t *testing.T) {
	c, _ := newTestClient(t, &failingDoer{err: timeoutErr{}}, WithMaxRetries(0))

	_, err := c.Send(context.Background(), Request{Method: http.MethodGet, URL: "http://example.invalid"})

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.True(t, tErr.Timeout())
	assert.False(t, tErr.Canceled())
	assert.Contains(t, err.Error(), "timeout")
}

func TestSend_Cancellation(t *testing.T) {
	t.Run("バックオフ中のキャンセルで中断する", func(t *testing.T) {
		srv, calls := sequenceServer(t, 500, 500, 200)
		ctx, cancel := context.WithCancel(context.Background())

		rt := newRecordingTimer()
		rt.onStart = cancel
		c, err := New(srv.Client(), WithTimer(func() backoff.Timer { return rt }))
		require.NoError(t, err)

		resp, err := c.Send(ctx, Request{Method: http.MethodGet, URL: srv.URL})
		assert.Nil(t, resp)

		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.True(t, tErr.Canceled())
		assert.Equal(t, "request canceled", err.Error())
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	})

	t.Run("送信前にキャンセル済みなら再送しない", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		doer := &failingDoer{err: context.Canceled}
		c, rs := newTestClient(t, doer)

		_, err := c.Send(ctx, Request{Method: http.MethodGet, URL: "http://example.invalid"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, doer.calls)
		assert.Empty(t, rs.delays)
	})
}

func TestPolicy_DelaysStayBounded(t *testing.T) {
	c, err := New(&failingDoer{}, WithMaxRetries(80))
	require.NoError(t, err)

	b := c.policy(context.Background())
	b.Reset()

	assert.Equal(t, time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	for i := 2; i < 80; i++ {
		d := b.NextBackOff()
		require.Greater(t, d, time.Duration(0), "retry %d", i)
		require.LessOrEqual(t, d, MaxDelay, "retry %d", i)
	}
	assert.Equal(t, backoff.Stop, b.NextBackOff(), "再送回数を超えたら停止する")
}

func TestSend_ClientErrorDoesNotWait(t *testing.T) {
	srv, _ := sequenceServer(t, 401)
	rec := &countingRecorder{}
	c, rt := newTestClient(t, srv.Client(), WithRecorder(rec))

	resp, err := c.Send(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, rt.delays)
	assert.Equal(t, []string{"client_error"}, rec.attempts)
	assert.Zero(t, rec.retries)
}

type countingRecorder struct {
	attempts []string
	retries  int
}

func (r *countingRecorder) ObserveAttempt(outcome string)                   { r.attempts = append(r.attempts, outcome) }
func (r *countingRecorder) ObserveRetry(time.Duration)                      { r.retries++ }
func (r *countingRecorder) ObserveGeneration(string, string, time.Duration) {}
func (r *countingRecorder) ObserveKeyValidation(bool)                       {}
