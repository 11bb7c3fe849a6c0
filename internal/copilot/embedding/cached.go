package embedding

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/logging"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"go.uber.org/zap"
)

// Cache stores query embeddings keyed by model and text.
type Cache interface {
	Get(ctx context.Context, model, text string) ([]float64, bool, error)
	Set(ctx context.Context, model, text string, vec []float64) error
}

type cachedEmbedder struct {
	Embedder
	cache   Cache
	metrics *metrics.Metrics
}

// WithCache wraps e so repeated questions skip the remote embedding call.
// Cache failures are logged and never fail the embedding.
func WithCache(e Embedder, c Cache, m *metrics.Metrics) Embedder {
	if c == nil {
		return e
	}
	return &cachedEmbedder{Embedder: e, cache: c, metrics: m}
}

func (c *cachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := fmt.Sprintf("%s/%s/%d", c.Name(), c.Model(), c.Dimension())

	vec, ok, err := c.cache.Get(ctx, key, text)
	if err != nil {
		logging.FromContext(ctx).Warn("embedding cache lookup failed", zap.Error(err))
	}
	if ok && c.Dimension() > 0 && len(vec) != c.Dimension() {
		logging.FromContext(ctx).Warn("cached embedding has wrong dimension",
			zap.Int("cached", len(vec)), zap.Int("want", c.Dimension()))
		ok = false
	}
	if ok {
		c.metrics.EmbeddingCacheHit()
		return vec, nil
	}
	c.metrics.EmbeddingCacheMiss()

	vec, err = c.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, text, vec); err != nil {
		logging.FromContext(ctx).Warn("embedding cache store failed", zap.Error(err))
	}
	return vec, nil
}
