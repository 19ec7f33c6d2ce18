package domain

import "strings"

// AspectRatio は生成する画像の縦横比です。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectStandard  AspectRatio = "4:3"
	AspectPortrait  AspectRatio = "9:16"
	AspectTall      AspectRatio = "3:4"
)

// LogoConfig はユーザーが編集するロゴ生成設定です。
// ID 系フィールドはカタログに存在しない値でもエラーにはならず、各一覧の先頭要素にフォールバックします。
type LogoConfig struct {
	Prompt         string      `json:"prompt"`
	NegativePrompt string      `json:"negativePrompt"`
	BrandName      string      `json:"brandName"`
	PresetID       string      `json:"presetId"`
	ColorPaletteID string      `json:"colorPaletteId"`
	StyleID        string      `json:"styleId"`
	ComplexityID   string      `json:"complexityId"`
	AspectRatio    AspectRatio `json:"aspectRatio"`
	ReferenceImage string      `json:"referenceImage,omitempty"` // data-URI
}

// HasReference は参照画像が指定されているかを返します。
func (c LogoConfig) HasReference() bool {
	return strings.TrimSpace(c.ReferenceImage) != ""
}

// GenerationRequest は 1 回の生成呼び出しごとに組み立てられる要求です。永続化はしません。
type GenerationRequest struct {
	LogoConfig
	APIKey string `json:"-"`
	Model  string `json:"model"`
}

// GenerationResult は生成結果です。期待される失敗は error ではなくこの値で返します。
type GenerationResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"` // data:<mime>;base64,<payload>
	Error    string `json:"error,omitempty"`
}

// Succeeded は成功結果を生成します。
func Succeeded(imageURL string) GenerationResult {
	return GenerationResult{Success: true, ImageURL: imageURL}
}

// Failed は失敗結果を生成します。
func Failed(msg string) GenerationResult {
	return GenerationResult{Success: false, Error: msg}
}

// KeyValidationResult は API キー検証の結果です。
type KeyValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
