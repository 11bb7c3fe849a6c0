package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiSDK_MissingKey(t *testing.T) {
	_, err := NewGeminiSDK(context.Background(), GeminiConfig{})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestNewOpenAISDK_MissingKey(t *testing.T) {
	_, err := NewOpenAISDK(OpenAIConfig{})
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestGeminiClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "systemInstruction")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"You get 20 days."}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	sdk, err := NewGeminiSDK(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := NewGeminiClient(sdk, "", "be brief").Generate(context.Background(), "What is the vacation policy?")
	require.NoError(t, err)
	assert.Equal(t, "You get 20 days.", text)
}

func TestGeminiClient_UpstreamErrorBecomesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
	}))
	defer srv.Close()

	sdk, err := NewGeminiSDK(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := NewAdapter(NewGeminiClient(sdk, "", "")).Generate(context.Background(), "q")
	assert.Equal(t, domain.FallbackAnswer, text)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestOpenAIClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultOpenAIModel, body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "What is the vacation policy?", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "You get 20 days."}}]
		}`))
	}))
	defer srv.Close()

	sdk, err := NewOpenAISDK(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	text, err := NewOpenAIClient(sdk, "", "be brief").Generate(context.Background(), "What is the vacation policy?")
	require.NoError(t, err)
	assert.Equal(t, "You get 20 days.", text)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`))
	}))
	defer srv.Close()

	sdk, err := NewOpenAISDK(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = NewOpenAIClient(sdk, "", "").Generate(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrEmptyResponse)
}
