package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shouni/gemini-logo-kit/pkg/transport"
)

// maxResponseBytes は読み込むレスポンス本文の上限です。
const maxResponseBytes = 64 << 20

// modelEndpoint は /models/{model}:{method}?key={apiKey} 形式の URL を組み立てます。
func modelEndpoint(baseURL, modelID, method, apiKey string) string {
	return fmt.Sprintf("%s/models/%s:%s?key=%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(modelID), method, url.QueryEscape(apiKey))
}

// postJSON は payload を JSON で送信し、2xx の場合のみ本文を返します。
// 非 2xx の場合は *ProviderError を返します。
func postJSON(ctx context.Context, sender Sender, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
	}

	resp, err := sender.Send(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み込みに失敗しました: %w", err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, decodeProviderError(resp.StatusCode, raw)
	}
	return raw, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// decodeProviderError は {"error":{"message":...}} 形式の本文から ProviderError を作ります。
// 本文が解釈できない場合はメッセージなしとして扱います。
func decodeProviderError(status int, raw []byte) *ProviderError {
	pe := &ProviderError{StatusCode: status}
	var body providerErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		pe.Message = body.Error.Message
		pe.Status = body.Error.Status
	}
	return pe
}

// truncateRunes は s の先頭 n 文字を返します。
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
