package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
)

const chatImageResponse = `{"candidates":[{"content":{"parts":[{"text":"Here you go"},{"inlineData":{"mimeType":"image/jpeg","data":"QUJD"}}]},"finishReason":"STOP"}]}`

func newChatAdapterFor(t *testing.T, api *fakeAPI) *ChatAdapter {
	t.Helper()
	a, err := NewChatAdapter(api.instantSender(t), api.server.URL)
	require.NoError(t, err)
	return a
}

func TestNewChatAdapter(t *testing.T) {
	_, err := NewChatAdapter(nil, "")
	assert.Error(t, err)

	a, err := NewChatAdapter(&mockSender{}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, a.baseURL)
}

func TestChatAdapter_RequestShape(t *testing.T) {
	t.Run("参照画像なしならテキストパーツ1つに縦横比を追記する", func(t *testing.T) {
		api := newFakeAPI(t, okResp(chatImageResponse))
		a := newChatAdapterFor(t, api)

		_, err := a.Generate(context.Background(), "k-123", "gemini-3-pro-image-preview", "draw a fox", domain.AspectLandscape, Extras{NegativePrompt: "text"})
		require.NoError(t, err)

		reqs := api.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "POST", reqs[0].Method)
		assert.Equal(t, "/models/gemini-3-pro-image-preview:generateContent", reqs[0].Path)
		assert.Equal(t, "k-123", reqs[0].Key)

		contents := reqs[0].Body["contents"].([]any)
		require.Len(t, contents, 1)
		parts := contents[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 1)
		assert.Equal(t, "draw a fox\n\nGenerate the image with 16:9 aspect ratio.", parts[0].(map[string]any)["text"])

		cfg := reqs[0].Body["generationConfig"].(map[string]any)
		assert.Equal(t, []any{"IMAGE", "TEXT"}, cfg["responseModalities"])
		assert.NotContains(t, reqs[0].Body, "parameters", "chat 系にネガティブプロンプトのフィールドは無い")
	})

	t.Run("参照画像は画像パーツを先頭に置き、テキストに指示文を付ける", func(t *testing.T) {
		api := newFakeAPI(t, okResp(chatImageResponse))
		a := newChatAdapterFor(t, api)

		_, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{ReferenceImage: "data:image/webp;base64,QUJD"})
		require.NoError(t, err)

		parts := api.Requests()[0].Body["contents"].([]any)[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)

		inline := parts[0].(map[string]any)["inlineData"].(map[string]any)
		assert.Equal(t, "image/webp", inline["mimeType"])
		assert.Equal(t, "QUJD", inline["data"])
		assert.Equal(t,
			"Using this reference image as inspiration, create a new logo design:\n\nP\n\nGenerate the image with 1:1 aspect ratio.",
			parts[1].(map[string]any)["text"])
	})

	t.Run("MIME の無い参照画像は image/png として送る", func(t *testing.T) {
		api := newFakeAPI(t, okResp(chatImageResponse))
		a := newChatAdapterFor(t, api)

		_, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{ReferenceImage: "QUJD"})
		require.NoError(t, err)

		parts := api.Requests()[0].Body["contents"].([]any)[0].(map[string]any)["parts"].([]any)
		assert.Equal(t, "image/png", parts[0].(map[string]any)["inlineData"].(map[string]any)["mimeType"])
	})

	t.Run("デコードできない参照画像は送信前にエラー", func(t *testing.T) {
		api := newFakeAPI(t, okResp(chatImageResponse))
		a := newChatAdapterFor(t, api)

		_, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{ReferenceImage: "data:image/png;base64,@@@"})
		assert.ErrorContains(t, err, "invalid reference image")
		assert.Empty(t, api.Requests())
	})
}

func TestChatAdapter_ResponseParsing(t *testing.T) {
	longText := "Sorry, I cannot create that image because " +
		"the request appears to describe a trademarked logo that belongs to somebody else entirely."

	tests := []struct {
		name    string
		body    string
		want    domain.GenerationResult
		wantErr string
	}{
		{
			name: "最初のインライン画像を data URI で返す",
			body: chatImageResponse,
			want: domain.Succeeded("data:image/jpeg;base64,QUJD"),
		},
		{
			name: "MIME が無い画像は image/png",
			body: `{"candidates":[{"content":{"parts":[{"inlineData":{"data":"QUJD"}}]}}]}`,
			want: domain.Succeeded("data:image/png;base64,QUJD"),
		},
		{
			name: "テキストのみなら先頭100文字を引用する",
			body: `{"candidates":[{"content":{"parts":[{"text":"` + longText + `"}]}}]}`,
			want: domain.Failed(`Model returned text instead of image: "` + longText[:100] + `"...`),
		},
		{
			name: "セーフティで停止した場合",
			body: `{"candidates":[{"finishReason":"SAFETY"}]}`,
			want: domain.Failed("Content blocked by safety filters. Try adjusting your prompt."),
		},
		{
			name: "候補が無い場合",
			body: `{"candidates":[]}`,
			want: domain.Failed("No image in response"),
		},
		{
			name: "空のパーツで STOP の場合",
			body: `{"candidates":[{"content":{"parts":[]},"finishReason":"STOP"}]}`,
			want: domain.Failed("No image in response"),
		},
		{
			name:    "JSON でない本文はエラー",
			body:    `<html>`,
			wantErr: "generateContent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, okResp(tt.body))
			a := newChatAdapterFor(t, api)

			got, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChatAdapter_TextPreviewContainsRefusal(t *testing.T) {
	api := newFakeAPI(t, okResp(`{"candidates":[{"content":{"parts":[{"text":"Sorry, I cannot draw that."}]}}]}`))
	a := newChatAdapterFor(t, api)

	got, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{})
	require.NoError(t, err)
	assert.False(t, got.Success)
	assert.Contains(t, got.Error, "Sorry, I cannot")
}

func TestChatAdapter_ProviderErrors(t *testing.T) {
	t.Run("エラー本文のメッセージを持つ ProviderError", func(t *testing.T) {
		api := newFakeAPI(t, statusResp(400, `{"error":{"code":400,"message":"Request contains an invalid argument.","status":"INVALID_ARGUMENT"}}`))
		a := newChatAdapterFor(t, api)

		_, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{})

		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 400, pe.StatusCode)
		assert.Equal(t, "INVALID_ARGUMENT", pe.Status)
		assert.Equal(t, "Request contains an invalid argument.", err.Error())
		assert.Len(t, api.Requests(), 1)
	})

	t.Run("本文が解釈できなければ HTTP <status>", func(t *testing.T) {
		api := newFakeAPI(t, statusResp(503, `upstream down`))
		a := newChatAdapterFor(t, api)

		_, err := a.Generate(context.Background(), "k", "m", "P", domain.AspectSquare, Extras{})
		assert.EqualError(t, err, "HTTP 503")
		assert.Len(t, api.Requests(), 3, "5xx は再送回数を使い切るまで送信される")
	})
}
