package domain

// HistoryItem は生成に成功した画像の履歴です。
type HistoryItem struct {
	ID        string     `json:"id"`
	Timestamp int64      `json:"timestamp"` // Unix ミリ秒
	ImageURL  string     `json:"imageUrl"`
	Config    LogoConfig `json:"config"` // 生成時点の設定のスナップショット
	Favorite  bool       `json:"favorite"`
}

// AppSettings はアプリ全体の設定です。
type AppSettings struct {
	Model           string `json:"model"`
	MaxHistoryItems int    `json:"maxHistoryItems"`
}
