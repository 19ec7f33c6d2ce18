package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/metrics"
	"github.com/shouni/gemini-logo-kit/pkg/transport"
)

// KeyValidator はモデル一覧の取得で API キーを確認します。検証リクエストは再送しません。
type KeyValidator struct {
	sender   Sender
	baseURL  string
	recorder metrics.Recorder
}

// NewKeyValidator は再送なしの送信クライアントで KeyValidator を初期化します。
func NewKeyValidator(doer transport.Doer, baseURL string, rec metrics.Recorder) (*KeyValidator, error) {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	sender, err := transport.New(doer, transport.WithMaxRetries(0), transport.WithRecorder(rec))
	if err != nil {
		return nil, fmt.Errorf("検証用クライアントの初期化に失敗しました: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &KeyValidator{sender: sender, baseURL: baseURL, recorder: rec}, nil
}

// ValidateAPIKey は apiKey がプロバイダに受け付けられるかを確認します。
func (v *KeyValidator) ValidateAPIKey(ctx context.Context, apiKey string) domain.KeyValidationResult {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return domain.KeyValidationResult{Valid: false, Error: msgKeyRequired}
	}

	res := v.listModels(ctx, key)
	v.recorder.ObserveKeyValidation(res.Valid)
	if !res.Valid {
		slog.WarnContext(ctx, "API キーの検証に失敗しました", "reason", res.Error)
	}
	return res
}

func (v *KeyValidator) listModels(ctx context.Context, key string) domain.KeyValidationResult {
	endpoint := fmt.Sprintf("%s/models?key=%s", strings.TrimRight(v.baseURL, "/"), url.QueryEscape(key))
	resp, err := v.sender.Send(ctx, transport.Request{Method: http.MethodGet, URL: endpoint})
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = msgValidationFailed
		}
		return domain.KeyValidationResult{Valid: false, Error: msg}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		pe := decodeProviderError(resp.StatusCode, raw)
		msg := pe.Message
		if msg == "" {
			msg = msgInvalidKey
		}
		return domain.KeyValidationResult{Valid: false, Error: msg}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return domain.KeyValidationResult{Valid: true}
}
