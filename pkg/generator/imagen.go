package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/imgutil"
)

// predictMIMEType は predict 系の出力形式です。
const predictMIMEType = "image/png"

// PredictAdapter はテキストから画像を生成する predict 系モデル（Imagen）を扱います。
type PredictAdapter struct {
	sender  Sender
	baseURL string
}

// NewPredictAdapter は PredictAdapter を初期化します。
func NewPredictAdapter(sender Sender, baseURL string) (*PredictAdapter, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &PredictAdapter{sender: sender, baseURL: baseURL}, nil
}

// Generate はプロンプトから画像を 1 枚生成します。参照画像は扱いません。
func (a *PredictAdapter) Generate(ctx context.Context, apiKey, modelID, prompt string, aspect domain.AspectRatio, extras Extras) (domain.GenerationResult, error) {
	req := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{
			SampleCount: 1,
			AspectRatio: string(aspect),
		},
	}
	if strings.TrimSpace(extras.NegativePrompt) != "" {
		req.Parameters.NegativePrompt = extras.NegativePrompt
	}

	slog.DebugContext(ctx, "predict リクエストを送信します", "model", modelID, "aspect_ratio", aspect)
	raw, err := postJSON(ctx, a.sender, modelEndpoint(a.baseURL, modelID, methodPredict, apiKey), req)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	var resp predictResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.GenerationResult{}, fmt.Errorf("predict レスポンスの解析に失敗しました: %w", err)
	}
	return parsePredictResponse(&resp), nil
}

func parsePredictResponse(resp *predictResponse) domain.GenerationResult {
	if len(resp.Predictions) == 0 {
		return domain.Failed(msgNoImage)
	}
	p := resp.Predictions[0]
	if p.BytesBase64Encoded != "" {
		return domain.Succeeded(imgutil.EncodeDataURIBase64(predictMIMEType, p.BytesBase64Encoded))
	}
	if p.RAIFilteredReason != "" {
		return domain.Failed("Content filtered: " + p.RAIFilteredReason)
	}
	return domain.Failed(msgNoImage)
}
