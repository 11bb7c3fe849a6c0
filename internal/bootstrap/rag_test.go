package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/GoSim-25-26J-441/hr-copilot/config"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache map[string][]float64

func (m mapCache) Get(_ context.Context, model, text string) ([]float64, bool, error) {
	v, ok := m[model+"|"+text]
	return v, ok, nil
}

func (m mapCache) Set(_ context.Context, model, text string, vec []float64) error {
	m[model+"|"+text] = vec
	return nil
}

func TestEmbedderFactory(t *testing.T) {
	withKeys := NewClients(context.Background(), config.GenerationConfig{
		GeminiAPIKey: "g-key",
		OpenAIAPIKey: "o-key",
	})
	require.NoError(t, withKeys.GeminiErr)
	require.NoError(t, withKeys.OpenAIErr)

	t.Run("gemini", func(t *testing.T) {
		e, err := EmbedderFactory(withKeys, nil, nil)(rag.EmbedderSpec{Type: "gemini", Model: "text-embedding-004", Dimension: 768})
		require.NoError(t, err)
		assert.Equal(t, "gemini", e.Name())
		assert.Equal(t, "text-embedding-004", e.Model())
		assert.Equal(t, 768, e.Dimension())
	})

	t.Run("openai behind a cache keeps its identity", func(t *testing.T) {
		cache := mapCache{"openai/text-embedding-3-small/2|hello": {1, 0}}
		e, err := EmbedderFactory(withKeys, cache, nil)(rag.EmbedderSpec{Type: "openai", Model: "text-embedding-3-small", Dimension: 2})
		require.NoError(t, err)
		assert.Equal(t, "openai", e.Name())

		vec, err := e.Embed(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 0}, vec)
	})

	t.Run("missing credential", func(t *testing.T) {
		_, err := EmbedderFactory(Clients{GeminiErr: domain.ErrMissingCredential}, nil, nil)(rag.EmbedderSpec{Type: "gemini"})
		assert.ErrorIs(t, err, domain.ErrMissingCredential)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := EmbedderFactory(withKeys, nil, nil)(rag.EmbedderSpec{Type: "word2vec"})
		assert.Error(t, err)
	})
}

func TestLoadIndex_Missing(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "database"), nil)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}
