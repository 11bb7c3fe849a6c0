package gemini

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding"
	"google.golang.org/genai"
)

const (
	Name         = "gemini"
	DefaultModel = "text-embedding-004"

	taskQuery    = "RETRIEVAL_QUERY"
	taskDocument = "RETRIEVAL_DOCUMENT"
)

// Embedder calls the Gemini embedding endpoint. Single embeddings are treated
// as queries and batches as documents, matching how search and indexing use them.
type Embedder struct {
	client    *genai.Client
	model     string
	dimension int
}

func New(client *genai.Client, model string, dimension int) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model, dimension: dimension}
}

func (e *Embedder) Name() string   { return Name }
func (e *Embedder) Model() string  { return e.model }
func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.embed(ctx, []string{text}, taskQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	return e.embed(ctx, texts, taskDocument)
}

func (e *Embedder) embed(ctx context.Context, texts []string, task string) ([][]float64, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}

	cfg := &genai.EmbedContentConfig{TaskType: task}
	if e.dimension > 0 {
		dim := int32(e.dimension)
		cfg.OutputDimensionality = &dim
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: expected %d embeddings", len(texts))
	}

	out := make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("gemini embed: empty embedding at %d", i)
		}
		out[i] = embedding.ToFloat64(emb.Values)
	}
	return out, nil
}
