package generator

import (
	"context"
	"net/http"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/transport"
)

// Sender は HTTP リクエストを送信します。*transport.Client が満たします。
type Sender interface {
	Send(ctx context.Context, req transport.Request) (*http.Response, error)
}

// Adapter はプロバイダ系統ごとの生成処理です。
// コンテンツ起因の失敗（セーフティブロック等）は失敗した GenerationResult で返し、
// 通信やプロバイダのエラーは error で返します。
type Adapter interface {
	Generate(ctx context.Context, apiKey, modelID, prompt string, aspect domain.AspectRatio, extras Extras) (domain.GenerationResult, error)
}

// Generator はビジネスロジック層が利用する統合窓口です。
type Generator interface {
	GenerateLogo(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
}

// KeyChecker は API キーがプロバイダに受け付けられるかを確認します。
type KeyChecker interface {
	ValidateAPIKey(ctx context.Context, apiKey string) domain.KeyValidationResult
}
