package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/imgutil"
)

const referenceInstruction = "Using this reference image as inspiration, create a new logo design:\n\n"

// chatRequest は generateContent のリクエスト本文です。
type chatRequest struct {
	Contents         []*genai.Content        `json:"contents"`
	GenerationConfig *genai.GenerationConfig `json:"generationConfig"`
}

// ChatAdapter はマルチモーダルな generateContent 系モデルで画像を生成します。
type ChatAdapter struct {
	sender  Sender
	baseURL string
}

// NewChatAdapter は ChatAdapter を初期化します。
func NewChatAdapter(sender Sender, baseURL string) (*ChatAdapter, error) {
	if sender == nil {
		return nil, fmt.Errorf("sender is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ChatAdapter{sender: sender, baseURL: baseURL}, nil
}

// Generate は参照画像（任意）とプロンプトから画像を生成します。
// ネガティブプロンプトはこの系統にネイティブな指定が無いため送信しません。
func (a *ChatAdapter) Generate(ctx context.Context, apiKey, modelID, prompt string, aspect domain.AspectRatio, extras Extras) (domain.GenerationResult, error) {
	parts, err := buildChatParts(prompt, aspect, extras.ReferenceImage)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	req := chatRequest{
		Contents: []*genai.Content{{Parts: parts}},
		GenerationConfig: &genai.GenerationConfig{
			ResponseModalities: []genai.Modality{genai.ModalityImage, genai.ModalityText},
		},
	}

	slog.DebugContext(ctx, "generateContent リクエストを送信します", "model", modelID, "parts", len(parts))
	raw, err := postJSON(ctx, a.sender, modelEndpoint(a.baseURL, modelID, methodGenerateContent, apiKey), req)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	var resp genai.GenerateContentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.GenerationResult{}, fmt.Errorf("generateContent レスポンスの解析に失敗しました: %w", err)
	}
	return parseChatResponse(&resp), nil
}

// buildChatParts は参照画像パーツ（あれば）とテキストパーツを組み立て、
// 最後のテキストパーツに縦横比の指示を追記します。
func buildChatParts(prompt string, aspect domain.AspectRatio, referenceImage string) ([]*genai.Part, error) {
	text := prompt
	var parts []*genai.Part

	if referenceImage != "" {
		mime, data, err := imgutil.DecodeDataURI(referenceImage)
		if err != nil {
			return nil, fmt.Errorf("invalid reference image: %w", err)
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}})
		text = referenceInstruction + prompt
	}

	text += fmt.Sprintf("\n\nGenerate the image with %s aspect ratio.", aspect)
	parts = append(parts, &genai.Part{Text: text})
	return parts, nil
}

// parseChatResponse は最初のインライン画像を data URI として返します。
// 画像が無ければテキスト、セーフティブロック、画像なしの順に失敗理由を判定します。
func parseChatResponse(resp *genai.GenerateContentResponse) domain.GenerationResult {
	var first *genai.Candidate
	if len(resp.Candidates) > 0 {
		first = resp.Candidates[0]
	}

	if first != nil && first.Content != nil {
		for _, part := range first.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return domain.Succeeded(imgutil.EncodeDataURI(part.InlineData.MIMEType, part.InlineData.Data))
			}
		}
		for _, part := range first.Content.Parts {
			if part != nil && part.Text != "" {
				return domain.Failed(`Model returned text instead of image: "` + truncateRunes(part.Text, textPreviewLength) + `"...`)
			}
		}
	}

	if first != nil && first.FinishReason == genai.FinishReasonSafety {
		return domain.Failed(msgSafetyBlocked)
	}
	return domain.Failed(msgNoImage)
}
