package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding/tfidf"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/rag"
	"go.uber.org/zap"
)

var ErrNoDocuments = errors.New("no documents with text found")

// Builder embeds chunked documents and writes them as an index.
type Builder struct {
	embedder  embedding.Embedder
	chunker   *SentenceChunker
	batchSize int
	log       *zap.Logger
	now       func() time.Time
}

func NewBuilder(e embedding.Embedder, c *SentenceChunker, batchSize int, log *zap.Logger) *Builder {
	if c == nil {
		c = NewSentenceChunker(5, 1)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{embedder: e, chunker: c, batchSize: batchSize, log: log, now: time.Now}
}

// Build indexes every document below docsDir into indexDir. A TF-IDF
// embedder is fitted on the chunk texts first and its state stored with
// the index.
func (b *Builder) Build(ctx context.Context, docsDir, indexDir string) (rag.Manifest, error) {
	docs, err := LoadDir(docsDir)
	if err != nil {
		return rag.Manifest{}, err
	}
	if len(docs) == 0 {
		return rag.Manifest{}, fmt.Errorf("%w in %s", ErrNoDocuments, docsDir)
	}

	var (
		chunks  []domain.Chunk
		sources []string
	)
	for _, d := range docs {
		cs := b.chunker.Chunk(d)
		b.log.Debug("chunked document", zap.String("source", d.Source), zap.Int("chunks", len(cs)))
		chunks = append(chunks, cs...)
		sources = append(sources, d.Source)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	var state *tfidf.State
	if te, ok := b.embedder.(*tfidf.Embedder); ok {
		if err := te.Prepare(texts); err != nil {
			return rag.Manifest{}, fmt.Errorf("fit tfidf: %w", err)
		}
		st := te.State()
		state = &st
	}

	vecs, err := embedding.EmbedAll(ctx, b.embedder, texts, b.batchSize)
	if err != nil {
		return rag.Manifest{}, fmt.Errorf("embed chunks: %w", err)
	}

	dim := b.embedder.Dimension()
	for i := range chunks {
		chunks[i].Embedding = vecs[i]
		if dim == 0 {
			dim = len(vecs[i])
		}
	}

	m := rag.Manifest{
		Embedder: rag.EmbedderSpec{
			Type:      b.embedder.Name(),
			Model:     b.embedder.Model(),
			Dimension: dim,
		},
		Sources:   sources,
		CreatedAt: b.now().UTC(),
	}
	if err := rag.Write(indexDir, m, chunks, state); err != nil {
		return rag.Manifest{}, fmt.Errorf("write index: %w", err)
	}

	m.ChunkCount = len(chunks)
	m.ChunksFile = rag.ChunksFile
	b.log.Info("index built",
		zap.String("dir", indexDir),
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.String("embedder", m.Embedder.Type),
	)
	return m, nil
}
