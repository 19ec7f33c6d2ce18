package studio

import (
	"context"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
)

// --- Mocks ---

type mockGenerator struct {
	GenerateLogoFunc func(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
	requests         []domain.GenerationRequest
}

func (m *mockGenerator) GenerateLogo(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	m.requests = append(m.requests, req)
	if m.GenerateLogoFunc != nil {
		return m.GenerateLogoFunc(ctx, req)
	}
	return domain.Succeeded("data:image/png;base64,QUJD")
}

type mockKeyChecker struct {
	keys []string
}

func (m *mockKeyChecker) ValidateAPIKey(ctx context.Context, apiKey string) domain.KeyValidationResult {
	m.keys = append(m.keys, apiKey)
	if apiKey == "" {
		return domain.KeyValidationResult{Valid: false, Error: "API key is required"}
	}
	return domain.KeyValidationResult{Valid: true}
}
