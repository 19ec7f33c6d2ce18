package generator

// DefaultBaseURL は生成 API のベースエンドポイントです。
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const (
	methodGenerateContent = "generateContent"
	methodPredict         = "predict"

	// textPreviewLength は画像の代わりに返ったテキストを引用する最大文字数です。
	textPreviewLength = 100
)

// ユーザー向けメッセージ
const (
	msgAPIKeyRequired   = "API Key is required."
	msgPromptRequired   = "Please describe your logo concept."
	msgNoImage          = "No image in response"
	msgSafetyBlocked    = "Content blocked by safety filters. Try adjusting your prompt."
	msgKeyRequired      = "API key is required"
	msgInvalidKey       = "Invalid API key"
	msgValidationFailed = "Validation failed"
	msgUnknownError     = "Unknown error"
)

// Extras はアダプタ固有の追加入力です。
type Extras struct {
	// ReferenceImage は data URI 形式の参照画像です。chat 系のみが使います。
	ReferenceImage string
	// NegativePrompt は predict 系がネイティブパラメータとして使います。
	NegativePrompt string
}

// predict 系のワイヤ形式
type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount    int    `json:"sampleCount"`
	AspectRatio    string `json:"aspectRatio"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
}

type predictResponse struct {
	Predictions []prediction `json:"predictions"`
}

type prediction struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	RAIFilteredReason  string `json:"raiFilteredReason,omitempty"`
}

// providerErrorBody は非 2xx 応答のエラー本文です。
type providerErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
