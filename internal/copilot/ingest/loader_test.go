package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "policies", "leave.md"), "# Leave policy\n\nEmployees get 20 vacation days.")
	writeFile(t, filepath.Join(dir, "benefits.txt"), "Health insurance starts on day one.")
	writeFile(t, filepath.Join(dir, "empty.md"), "   ")
	writeFile(t, filepath.Join(dir, "logo.png"), "binary")
	writeFile(t, filepath.Join(dir, ".git", "notes.md"), "# ignored")

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "benefits.txt", docs[0].Source)
	assert.Equal(t, "benefits", docs[0].Title)

	assert.Equal(t, "policies/leave.md", docs[1].Source)
	assert.Equal(t, "Leave policy", docs[1].Title)
	assert.Contains(t, docs[1].Content, "20 vacation days")
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadFile_BrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handbook.pdf")
	writeFile(t, path, "this is not a pdf")

	_, err := LoadFile(path)
	assert.Error(t, err)
}
