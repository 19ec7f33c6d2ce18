package generator

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-logo-kit/pkg/transport"
)

// capturedRequest はテストサーバーが受け取ったリクエストです。
type capturedRequest struct {
	Method string
	Path   string
	Key    string
	Body   map[string]any
}

type scriptedResponse struct {
	status int
	body   string
}

// fakeAPI は呼び出し順に応答を返し、受け取ったリクエストを記録するテストサーバーです。
type fakeAPI struct {
	mu        sync.Mutex
	responses []scriptedResponse
	requests  []capturedRequest
	server    *httptest.Server
}

func newFakeAPI(t *testing.T, responses ...scriptedResponse) *fakeAPI {
	t.Helper()
	f := &fakeAPI{responses: responses}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}

		f.mu.Lock()
		idx := len(f.requests)
		f.requests = append(f.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Key:    r.URL.Query().Get("key"),
			Body:   body,
		})
		if idx >= len(f.responses) {
			idx = len(f.responses) - 1
		}
		resp := f.responses[idx]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) Requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

// instantSender はバックオフ待機なしの transport.Client を返します。
func (f *fakeAPI) instantSender(t *testing.T) *transport.Client {
	t.Helper()
	c, err := transport.New(f.server.Client(), transport.WithBaseDelay(0))
	require.NoError(t, err)
	return c
}

func okResp(body string) scriptedResponse { return scriptedResponse{status: http.StatusOK, body: body} }

func statusResp(code int, body string) scriptedResponse {
	return scriptedResponse{status: code, body: body}
}
