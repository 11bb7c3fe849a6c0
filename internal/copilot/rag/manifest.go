package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"gopkg.in/yaml.v3"
)

const (
	ManifestFile = "manifest.yaml"
	ChunksFile   = "chunks.jsonl"
	TFIDFFile    = "tfidf.json"

	manifestVersion = 1
)

// EmbedderSpec records which embedding scheme produced the stored vectors.
type EmbedderSpec struct {
	Type      string `yaml:"type"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// Manifest describes a persisted index directory.
type Manifest struct {
	Version    int          `yaml:"version"`
	Embedder   EmbedderSpec `yaml:"embedder"`
	ChunkCount int          `yaml:"chunk_count"`
	ChunksFile string       `yaml:"chunks_file"`
	Sources    []string     `yaml:"sources,omitempty"`
	CreatedAt  time.Time    `yaml:"created_at"`
}

func readManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", domain.ErrIndexCorrupt, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("%w: unsupported manifest version %d", domain.ErrIndexCorrupt, m.Version)
	}
	if m.Embedder.Type == "" {
		return nil, fmt.Errorf("%w: manifest has no embedder type", domain.ErrIndexCorrupt)
	}
	if m.ChunksFile == "" {
		m.ChunksFile = ChunksFile
	}
	return &m, nil
}

func writeManifest(dir string, m Manifest) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, ManifestFile), b)
}
