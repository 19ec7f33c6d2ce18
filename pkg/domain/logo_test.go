package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoConfig_HasReference(t *testing.T) {
	t.Run("空白のみの参照画像は未指定として扱う", func(t *testing.T) {
		cfg := LogoConfig{Prompt: "A phoenix", ReferenceImage: "   "}
		assert.False(t, cfg.HasReference())
	})

	t.Run("data-URI があれば指定ありとなる", func(t *testing.T) {
		cfg := LogoConfig{Prompt: "A phoenix", ReferenceImage: "data:image/png;base64,QUJD"}
		assert.True(t, cfg.HasReference())
	})
}

func TestGenerationRequest_DoesNotSerializeAPIKey(t *testing.T) {
	req := GenerationRequest{
		LogoConfig: LogoConfig{Prompt: "A phoenix", AspectRatio: AspectSquare},
		APIKey:     "secret-key",
		Model:      "imagen-4.0-generate-001",
	}

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "secret-key")
	assert.Contains(t, string(raw), `"prompt":"A phoenix"`)
	assert.Contains(t, string(raw), `"aspectRatio":"1:1"`)
}

func TestGenerationResult_Constructors(t *testing.T) {
	ok := Succeeded("data:image/png;base64,QUJD")
	assert.True(t, ok.Success)
	assert.Empty(t, ok.Error)

	ng := Failed("No image in response")
	assert.False(t, ng.Success)
	assert.Empty(t, ng.ImageURL)
	assert.Equal(t, "No image in response", ng.Error)
}
