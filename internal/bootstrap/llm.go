package bootstrap

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/hr-copilot/config"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/llm"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Clients holds the hosted model SDK clients. A nil client comes with the
// error that prevented building it.
type Clients struct {
	Gemini    *genai.Client
	GeminiErr error

	OpenAI    *openai.Client
	OpenAIErr error
}

// NewClients builds every SDK client that has credentials. Missing keys are
// not an error here; they surface when the client is needed.
func NewClients(ctx context.Context, cfg config.GenerationConfig) Clients {
	var c Clients

	c.Gemini, c.GeminiErr = llm.NewGeminiSDK(ctx, llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
	})

	oc, err := llm.NewOpenAISDK(llm.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		c.OpenAIErr = err
	} else {
		c.OpenAI = &oc
	}

	return c
}

// BuildGenerator wraps the configured provider in the fallback adapter. When
// the provider's client is missing every call fails with the build error.
func BuildGenerator(cfg config.GenerationConfig, clients Clients, m *metrics.Metrics) (*llm.Adapter, error) {
	var provider llm.Generator

	switch cfg.Provider {
	case config.ProviderGemini:
		if clients.Gemini == nil {
			provider = llm.Unavailable{Err: clients.GeminiErr}
		} else {
			provider = llm.NewGeminiClient(clients.Gemini, cfg.GeminiModel, cfg.SystemPrompt)
		}
	case config.ProviderOpenAI:
		if clients.OpenAI == nil {
			provider = llm.Unavailable{Err: clients.OpenAIErr}
		} else {
			provider = llm.NewOpenAIClient(*clients.OpenAI, cfg.OpenAIModel, cfg.SystemPrompt)
		}
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}

	return llm.NewAdapter(provider,
		llm.WithRateLimit(cfg.RateLimit, cfg.Burst),
		llm.WithMetrics(m),
	), nil
}
