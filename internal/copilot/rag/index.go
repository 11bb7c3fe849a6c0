package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding/tfidf"
)

// EmbedderFactory builds the query embedder for a remote embedding scheme
// recorded in a manifest. Local schemes are restored from the index itself.
type EmbedderFactory func(spec EmbedderSpec) (embedding.Embedder, error)

// Index is an in-memory, read-only similarity index. It is safe for
// concurrent searches once loaded.
type Index struct {
	manifest Manifest
	chunks   []domain.Chunk
	norms    []float64
	embedder embedding.Embedder
}

// Load reads the index stored in dir. Any missing or inconsistent file is an
// error; callers treat it as fatal.
func Load(dir string, factory EmbedderFactory) (*Index, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, dir)
		}
		return nil, fmt.Errorf("stat index dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrIndexNotFound, dir)
	}

	m, err := readManifest(dir)
	if err != nil {
		return nil, err
	}

	chunks, err := readChunks(filepath.Join(dir, m.ChunksFile))
	if err != nil {
		return nil, err
	}
	if len(chunks) != m.ChunkCount {
		return nil, fmt.Errorf("%w: manifest lists %d chunks, found %d", domain.ErrIndexCorrupt, m.ChunkCount, len(chunks))
	}

	emb, err := resolveEmbedder(dir, m.Embedder, factory)
	if err != nil {
		return nil, err
	}

	return New(*m, chunks, emb)
}

// New builds an index from chunks already in memory.
func New(m Manifest, chunks []domain.Chunk, emb embedding.Embedder) (*Index, error) {
	if emb == nil {
		return nil, errors.New("rag: embedder is required")
	}
	if d := emb.Dimension(); d > 0 && m.Embedder.Dimension > 0 && d != m.Embedder.Dimension {
		return nil, fmt.Errorf("%w: embedder dimension %d, index dimension %d", domain.ErrEmbedderMismatch, d, m.Embedder.Dimension)
	}

	norms := make([]float64, len(chunks))
	for i, c := range chunks {
		if m.Embedder.Dimension > 0 && len(c.Embedding) != m.Embedder.Dimension {
			return nil, fmt.Errorf("%w: chunk %q has dimension %d, want %d", domain.ErrIndexCorrupt, c.ID, len(c.Embedding), m.Embedder.Dimension)
		}
		norms[i] = norm(c.Embedding)
	}

	m.ChunkCount = len(chunks)
	return &Index{manifest: m, chunks: chunks, norms: norms, embedder: emb}, nil
}

func (ix *Index) Len() int           { return len(ix.chunks) }
func (ix *Index) Manifest() Manifest { return ix.manifest }

// Search embeds query and returns at most k chunks ordered by descending
// cosine similarity. Ties keep index order.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k <= 0 || len(ix.chunks) == 0 {
		return []domain.SearchResult{}, nil
	}

	qv, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if d := ix.manifest.Embedder.Dimension; d > 0 && len(qv) != d {
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", domain.ErrEmbedderMismatch, len(qv), d)
	}
	qn := norm(qv)

	results := make([]domain.SearchResult, len(ix.chunks))
	for i, c := range ix.chunks {
		results[i] = domain.SearchResult{Chunk: c, Score: cosine(qv, qn, c.Embedding, ix.norms[i])}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func resolveEmbedder(dir string, spec EmbedderSpec, factory EmbedderFactory) (embedding.Embedder, error) {
	if spec.Type == tfidf.Name {
		b, err := os.ReadFile(filepath.Join(dir, TFIDFFile))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrIndexCorrupt, TFIDFFile, err)
		}
		var st tfidf.State
		if err := json.Unmarshal(b, &st); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrIndexCorrupt, TFIDFFile, err)
		}
		emb, err := tfidf.FromState(st)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIndexCorrupt, err)
		}
		return emb, nil
	}

	if factory == nil {
		return nil, fmt.Errorf("%w: no embedder available for %q", domain.ErrEmbedderMismatch, spec.Type)
	}
	emb, err := factory(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedderMismatch, err)
	}
	if emb.Name() != spec.Type || emb.Model() != spec.Model {
		return nil, fmt.Errorf("%w: index built with %s/%s, got %s/%s",
			domain.ErrEmbedderMismatch, spec.Type, spec.Model, emb.Name(), emb.Model())
	}
	return emb, nil
}

func readChunks(path string) ([]domain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s missing", domain.ErrIndexCorrupt, filepath.Base(path))
		}
		return nil, fmt.Errorf("open chunks: %w", err)
	}
	defer f.Close()

	var chunks []domain.Chunk
	dec := json.NewDecoder(f)
	for {
		var c domain.Chunk
		if err := dec.Decode(&c); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: chunk %d: %v", domain.ErrIndexCorrupt, len(chunks), err)
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func cosine(a []float64, na float64, b []float64, nb float64) float64 {
	if na == 0 || nb == 0 || len(a) != len(b) {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (na * nb)
}
