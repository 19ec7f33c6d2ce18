package domain

// APIType はモデルが属するプロバイダ系統です。アダプタの選択に使います。
type APIType string

const (
	// APIChat はマルチモーダルな generateContent 系です。
	APIChat APIType = "chat"
	// APIPredict はテキストから画像を生成する predict 系です。
	APIPredict APIType = "predict"
)

// ModelDescriptor はカタログ上のモデル定義です。
type ModelDescriptor struct {
	ID                string  `json:"id"`
	Label             string  `json:"label"`
	Description       string  `json:"description"`
	SupportsReference bool    `json:"supportsReference"`
	APIType           APIType `json:"apiType"`
}

// LogoPreset はロゴのプリセットです。
type LogoPreset struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	PromptModifier string `json:"promptModifier"`
}

// SelectOption はパレット・スタイル・複雑さの選択肢です。
type SelectOption struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	PromptModifier string `json:"promptModifier"`
}
