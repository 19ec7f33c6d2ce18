package generator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/shouni/gemini-logo-kit/pkg/catalog"
	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/metrics"
	"github.com/shouni/gemini-logo-kit/pkg/prompt"
)

// 指標の outcome ラベル
const (
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
	outcomeRejected = "rejected"
)

// LogoGenerator はモデル定義の APIType に応じてアダプタを選び、ロゴを生成します。
type LogoGenerator struct {
	adapters map[domain.APIType]Adapter
	recorder metrics.Recorder
	now      func() time.Time
}

// NewLogoGenerator は chat 系・predict 系のアダプタを注入して LogoGenerator を初期化します。
func NewLogoGenerator(chat, predict Adapter, rec metrics.Recorder) (*LogoGenerator, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat adapter is required")
	}
	if predict == nil {
		return nil, fmt.Errorf("predict adapter is required")
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &LogoGenerator{
		adapters: map[domain.APIType]Adapter{
			domain.APIChat:    chat,
			domain.APIPredict: predict,
		},
		recorder: rec,
		now:      time.Now,
	}, nil
}

// NewDefaultLogoGenerator は 1 つの Sender を共有する標準構成の LogoGenerator を作ります。
func NewDefaultLogoGenerator(sender Sender, baseURL string, rec metrics.Recorder) (*LogoGenerator, error) {
	chat, err := NewChatAdapter(sender, baseURL)
	if err != nil {
		return nil, err
	}
	predict, err := NewPredictAdapter(sender, baseURL)
	if err != nil {
		return nil, err
	}
	return NewLogoGenerator(chat, predict, rec)
}

// GenerateLogo は要求を検証してプロンプトを組み立て、対応するアダプタで生成します。
// 失敗は常に GenerationResult として返し、通信・プロバイダのエラーは定型文に正規化します。
func (g *LogoGenerator) GenerateLogo(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return g.reject(ctx, msgAPIKeyRequired)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return g.reject(ctx, msgPromptRequired)
	}

	model := catalog.Model(req.Model)
	if model.ID != req.Model {
		slog.WarnContext(ctx, "未知のモデルIDのため既定モデルを使用します", "requested", req.Model, "model", model.ID)
	}

	if req.HasReference() && !model.SupportsReference {
		return g.reject(ctx, referenceUnsupportedMessage(model))
	}

	aspect := req.AspectRatio
	if !catalog.IsAspectRatio(aspect) {
		aspect = catalog.DefaultConfig.AspectRatio
	}

	adapter, ok := g.adapters[model.APIType]
	if !ok {
		return g.reject(ctx, fmt.Sprintf("unsupported api type: %s", model.APIType))
	}

	extras := Extras{NegativePrompt: req.NegativePrompt}
	if req.HasReference() {
		extras.ReferenceImage = req.ReferenceImage
	}

	slog.InfoContext(ctx, "ロゴ生成を開始します", "model", model.ID, "api_type", model.APIType, "aspect_ratio", aspect, "reference", req.HasReference())
	start := g.now()

	res, err := adapter.Generate(ctx, apiKey, model.ID, prompt.Compile(req.LogoConfig), aspect, extras)
	elapsed := g.now().Sub(start)
	if err != nil {
		slog.ErrorContext(ctx, "ロゴ生成に失敗しました", "model", model.ID, "error", err)
		res = domain.Failed(NormalizeError(err))
	}

	outcome := outcomeSuccess
	if !res.Success {
		outcome = outcomeFailure
		if err == nil {
			slog.WarnContext(ctx, "画像が返されませんでした", "model", model.ID, "reason", res.Error)
		}
	}
	g.recorder.ObserveGeneration(string(model.APIType), outcome, elapsed)
	return res
}

func (g *LogoGenerator) reject(ctx context.Context, msg string) domain.GenerationResult {
	slog.InfoContext(ctx, "生成要求を受け付けませんでした", "reason", msg)
	g.recorder.ObserveGeneration("", outcomeRejected, 0)
	return domain.Failed(msg)
}

// referenceUnsupportedMessage は参照画像に対応するモデルを代替として案内します。
func referenceUnsupportedMessage(model domain.ModelDescriptor) string {
	labels := lo.Map(catalog.ReferenceModels(), func(m domain.ModelDescriptor, _ int) string {
		return m.Label
	})
	slices.Sort(labels)
	return fmt.Sprintf("%s doesn't support reference images. Use %s.", model.Label, strings.Join(labels, " or "))
}
