package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini client. BaseURL and HTTPClient are only
// overridden in tests.
type GeminiConfig struct {
	APIKey       string
	Model        string
	SystemPrompt string
	BaseURL      string
	HTTPClient   *http.Client
}

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGeminiSDK builds the shared SDK client used for generation and embeddings.
func NewGeminiSDK(ctx context.Context, cfg GeminiConfig) (*genai.Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return client, nil
}

func NewGeminiClient(client *genai.Client, model, systemPrompt string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{client: client, model: model, systemPrompt: systemPrompt}
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if g.systemPrompt != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.systemPrompt, genai.RoleUser),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return "", domain.ErrEmptyResponse
	}
	return resp.Text(), nil
}
