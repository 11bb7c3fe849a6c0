package bootstrap

import (
	"fmt"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding/gemini"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding/openai"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/rag"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
)

// EmbedderFactory resolves remote embedding schemes recorded in an index
// manifest. Query embeddings go through cache when one is given.
func EmbedderFactory(clients Clients, cache embedding.Cache, m *metrics.Metrics) rag.EmbedderFactory {
	return func(spec rag.EmbedderSpec) (embedding.Embedder, error) {
		var e embedding.Embedder

		switch spec.Type {
		case gemini.Name:
			if clients.Gemini == nil {
				return nil, fmt.Errorf("gemini embeddings: %w", clients.GeminiErr)
			}
			e = gemini.New(clients.Gemini, spec.Model, spec.Dimension)
		case openai.Name:
			if clients.OpenAI == nil {
				return nil, fmt.Errorf("openai embeddings: %w", clients.OpenAIErr)
			}
			e = openai.New(*clients.OpenAI, spec.Model, spec.Dimension)
		default:
			return nil, fmt.Errorf("unknown embedder type %q", spec.Type)
		}

		return embedding.WithCache(e, cache, m), nil
	}
}

func LoadIndex(dir string, factory rag.EmbedderFactory) (*rag.Index, error) {
	ix, err := rag.Load(dir, factory)
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", dir, err)
	}
	return ix, nil
}
