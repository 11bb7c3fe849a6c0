package rag

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding/tfidf"
)

// Write persists an index into dir. It is used by the offline indexer only;
// the server never writes. The manifest is written last so a partially
// written directory fails to load.
func Write(dir string, m Manifest, chunks []domain.Chunk, tfidfState *tfidf.State) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	_ = os.Remove(filepath.Join(dir, ManifestFile))

	m.Version = manifestVersion
	m.ChunkCount = len(chunks)
	if m.ChunksFile == "" {
		m.ChunksFile = ChunksFile
	}

	if err := writeChunks(filepath.Join(dir, m.ChunksFile), chunks); err != nil {
		return err
	}

	if tfidfState != nil {
		b, err := json.Marshal(tfidfState)
		if err != nil {
			return fmt.Errorf("marshal tfidf state: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(dir, TFIDFFile), b); err != nil {
			return err
		}
	}

	return writeManifest(dir, m)
}

func writeChunks(path string, chunks []domain.Chunk) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create chunks file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, c := range chunks {
		if err := enc.Encode(c); err != nil {
			f.Close()
			return fmt.Errorf("encode chunk %s: %w", c.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush chunks: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chunks: %w", err)
	}
	return os.Rename(tmp, path)
}

func writeFileAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}
