package generator

import "fmt"

// ProviderError はプロバイダが非 2xx を返したことを表します。
type ProviderError struct {
	StatusCode int
	// Status はプロバイダのステータスコード名です（例: RESOURCE_EXHAUSTED）。
	Status  string
	Message string
}

// Error はプロバイダのメッセージを返し、無ければ "HTTP <status>" を返します。
func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}
