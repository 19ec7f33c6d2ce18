package generator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
	"github.com/shouni/gemini-logo-kit/pkg/transport"
)

// --- Mocks ---

type generateCall struct {
	APIKey  string
	ModelID string
	Prompt  string
	Aspect  domain.AspectRatio
	Extras  Extras
}

type mockAdapter struct {
	GenerateFunc func(ctx context.Context, apiKey, modelID, prompt string, aspect domain.AspectRatio, extras Extras) (domain.GenerationResult, error)
	calls        []generateCall
}

func (m *mockAdapter) Generate(ctx context.Context, apiKey, modelID, prompt string, aspect domain.AspectRatio, extras Extras) (domain.GenerationResult, error) {
	m.calls = append(m.calls, generateCall{APIKey: apiKey, ModelID: modelID, Prompt: prompt, Aspect: aspect, Extras: extras})
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, apiKey, modelID, prompt, aspect, extras)
	}
	return domain.Succeeded("data:image/png;base64,QUJD"), nil
}

type mockSender struct {
	SendFunc func(ctx context.Context, req transport.Request) (*http.Response, error)
	requests []transport.Request
}

func (m *mockSender) Send(ctx context.Context, req transport.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	return m.SendFunc(ctx, req)
}

type generationObservation struct {
	APIType string
	Outcome string
}

type mockRecorder struct {
	mu          sync.Mutex
	generations []generationObservation
	validations []bool
}

func (m *mockRecorder) ObserveAttempt(string)      {}
func (m *mockRecorder) ObserveRetry(time.Duration) {}

func (m *mockRecorder) ObserveGeneration(apiType, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations = append(m.generations, generationObservation{APIType: apiType, Outcome: outcome})
}

func (m *mockRecorder) ObserveKeyValidation(valid bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validations = append(m.validations, valid)
}
