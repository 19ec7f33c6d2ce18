// Package catalog はプリセット・カラーパレット・スタイル・モデルなどの静的な一覧を保持します。
package catalog

import (
	"github.com/samber/lo"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
)

// QualityPrompt はすべてのプロンプト末尾に付与する品質要件です。
const QualityPrompt = `
Professional logo design requirements:
- Clean, crisp edges with no blur or artifacts
- Scalable vector-style appearance
- Balanced composition with clear focal point
- High contrast and readability
- Production-ready quality
- No watermarks or text artifacts
`

// Models は利用可能なモデルです。先頭が既定モデルになります。
var Models = []domain.ModelDescriptor{
	{ID: "gemini-3-pro-image-preview", Label: "Nano Banana Pro", Description: "Best quality, supports reference images", SupportsReference: true, APIType: domain.APIChat},
	{ID: "gemini-2.0-flash-preview-image-generation", Label: "Nano Banana", Description: "Fast, supports reference images", SupportsReference: true, APIType: domain.APIChat},
	{ID: "imagen-4.0-ultra-generate-001", Label: "Imagen 4 Ultra", Description: "Highest quality", SupportsReference: false, APIType: domain.APIPredict},
	{ID: "imagen-4.0-generate-001", Label: "Imagen 4", Description: "High quality", SupportsReference: false, APIType: domain.APIPredict},
	{ID: "imagen-3.0-generate-002", Label: "Imagen 3", Description: "Stable, reliable", SupportsReference: false, APIType: domain.APIPredict},
	{ID: "imagen-3.0-fast-generate-001", Label: "Imagen 3 Fast", Description: "Fastest generation", SupportsReference: false, APIType: domain.APIPredict},
}

// Presets はロゴのプリセット一覧です。先頭が既定プリセットになります。
var Presets = []domain.LogoPreset{
	{ID: "modern-minimal", Label: "Modern Minimal", Description: "Clean geometric shapes", PromptModifier: "Minimalist design, geometric shapes, clean lines, negative space, modern aesthetic, flat design"},
	{ID: "3d-glossy", Label: "3D Glossy", Description: "Dimensional with shine", PromptModifier: "3D rendered logo, glossy finish, soft shadows, dimensional depth, professional lighting"},
	{ID: "gradient-mesh", Label: "Gradient Mesh", Description: "Smooth color transitions", PromptModifier: "Gradient mesh design, smooth color transitions, modern gradient style, vibrant flowing colors"},
	{ID: "line-art", Label: "Line Art", Description: "Single stroke elegance", PromptModifier: "Single line art, continuous stroke, elegant simplicity, outline style, artistic linework"},
	{ID: "mascot", Label: "Character Mascot", Description: "Friendly brand character", PromptModifier: "Mascot character design, friendly expression, memorable character, cartoon style"},
	{ID: "lettermark", Label: "Lettermark", Description: "Typography focused", PromptModifier: "Lettermark logo, typographic design, creative letter arrangement, monogram style"},
	{ID: "emblem", Label: "Badge Emblem", Description: "Classic crest style", PromptModifier: "Emblem badge design, crest style, contained shape, vintage modern fusion"},
	{ID: "tech-futuristic", Label: "Tech Futuristic", Description: "Sci-fi inspired", PromptModifier: "Futuristic tech design, sci-fi aesthetic, digital elements, cyber style"},
}

// ColorPalettes はカラーパレットの選択肢です。
var ColorPalettes = []domain.SelectOption{
	{ID: "auto", Label: "AI Suggested", PromptModifier: "Use colors that best match the concept"},
	{ID: "vibrant", Label: "Vibrant", PromptModifier: "Bright, saturated, eye-catching colors"},
	{ID: "pastel", Label: "Pastel", PromptModifier: "Soft, muted pastel tones"},
	{ID: "monochrome", Label: "Monochrome", PromptModifier: "Single color with tonal variations"},
	{ID: "dark-mode", Label: "Dark Mode", PromptModifier: "Dark background with light accents"},
	{ID: "earth-tones", Label: "Earth Tones", PromptModifier: "Natural browns, greens, warm neutrals"},
	{ID: "corporate", Label: "Corporate Blue", PromptModifier: "Professional blues and grays"},
	{ID: "neon", Label: "Neon Glow", PromptModifier: "Bright neon colors with glow effects"},
}

// Styles はスタイルの選択肢です。
var Styles = []domain.SelectOption{
	{ID: "professional", Label: "Professional", PromptModifier: "Corporate, polished, business-appropriate"},
	{ID: "playful", Label: "Playful", PromptModifier: "Fun, whimsical, approachable"},
	{ID: "luxury", Label: "Luxury", PromptModifier: "Premium, elegant, sophisticated"},
	{ID: "bold", Label: "Bold", PromptModifier: "Strong, impactful, attention-grabbing"},
	{ID: "organic", Label: "Organic", PromptModifier: "Natural, flowing, hand-crafted feel"},
	{ID: "geometric", Label: "Geometric", PromptModifier: "Mathematical precision, angular shapes"},
}

// Complexities は複雑さの選択肢です。
var Complexities = []domain.SelectOption{
	{ID: "simple", Label: "Simple", PromptModifier: "Minimal elements, highly simplified, iconic"},
	{ID: "moderate", Label: "Moderate", PromptModifier: "Balanced complexity, clear hierarchy"},
	{ID: "detailed", Label: "Detailed", PromptModifier: "Rich details, intricate design"},
}

// AspectRatios は対応済みの縦横比です。
var AspectRatios = []domain.AspectRatio{
	domain.AspectSquare,
	domain.AspectStandard,
	domain.AspectLandscape,
	domain.AspectPortrait,
	domain.AspectTall,
}

// PromptSuggestions はコンセプト入力の例文です。
var PromptSuggestions = []string{
	"A phoenix rising from flames",
	"Abstract mountain peaks at sunset",
	"Interconnected nodes forming a brain",
	"Stylized coffee cup with steam",
	"Rocket launching into space",
	"Tree with roots forming a circle",
	"Lightning bolt through a shield",
	"Geometric lion head",
}

// DefaultConfig は初回起動時の設定です。
var DefaultConfig = domain.LogoConfig{
	PresetID:       "modern-minimal",
	ColorPaletteID: "auto",
	StyleID:        "professional",
	ComplexityID:   "moderate",
	AspectRatio:    domain.AspectSquare,
}

// DefaultSettings は初回起動時のアプリ設定です。
var DefaultSettings = domain.AppSettings{
	Model:           "gemini-3-pro-image-preview",
	MaxHistoryItems: 30,
}

// Preset は ID に一致するプリセットを返します。見つからない場合は先頭要素です。
func Preset(id string) domain.LogoPreset {
	return lo.FindOrElse(Presets, Presets[0], func(p domain.LogoPreset) bool { return p.ID == id })
}

// ColorPalette は ID に一致するカラーパレットを返します。見つからない場合は先頭要素です。
func ColorPalette(id string) domain.SelectOption {
	return findOption(ColorPalettes, id)
}

// Style は ID に一致するスタイルを返します。見つからない場合は先頭要素です。
func Style(id string) domain.SelectOption {
	return findOption(Styles, id)
}

// Complexity は ID に一致する複雑さを返します。見つからない場合は先頭要素です。
func Complexity(id string) domain.SelectOption {
	return findOption(Complexities, id)
}

// Model は ID に一致するモデルを返します。見つからない場合は先頭（既定）モデルです。
func Model(id string) domain.ModelDescriptor {
	return lo.FindOrElse(Models, Models[0], func(m domain.ModelDescriptor) bool { return m.ID == id })
}

// LookupModel はフォールバックせずにモデルを探します。
func LookupModel(id string) (domain.ModelDescriptor, bool) {
	return lo.Find(Models, func(m domain.ModelDescriptor) bool { return m.ID == id })
}

// ReferenceModels は参照画像を受け付けるモデルの一覧です。
func ReferenceModels() []domain.ModelDescriptor {
	return lo.Filter(Models, func(m domain.ModelDescriptor, _ int) bool { return m.SupportsReference })
}

// IsAspectRatio は値が対応済みの縦横比かを返します。
func IsAspectRatio(r domain.AspectRatio) bool {
	return lo.Contains(AspectRatios, r)
}

func findOption(options []domain.SelectOption, id string) domain.SelectOption {
	return lo.FindOrElse(options, options[0], func(o domain.SelectOption) bool { return o.ID == id })
}
