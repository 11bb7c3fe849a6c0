package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentenceChunker_Overlap(t *testing.T) {
	c := NewSentenceChunker(2, 1)
	doc := Document{Source: "leave.md", Title: "Leave", Content: "One. Two! Three? Four."}

	chunks := c.Chunk(doc)

	require.Len(t, chunks, 3)
	assert.Equal(t, "One. Two!", chunks[0].Text)
	assert.Equal(t, "Two! Three?", chunks[1].Text)
	assert.Equal(t, "Three? Four.", chunks[2].Text)

	assert.Equal(t, "leave.md#0", chunks[0].ID)
	assert.Equal(t, "leave.md#2", chunks[2].ID)
	assert.Equal(t, "Leave", chunks[1].Title)
	assert.Equal(t, "leave.md", chunks[1].Source)
}

func TestSentenceChunker_KeepsTrailingText(t *testing.T) {
	c := NewSentenceChunker(5, 0)

	chunks := c.Chunk(Document{Source: "a.txt", Content: "Payroll runs monthly.\nSee the portal for\n  details"})

	require.Len(t, chunks, 1)
	assert.Equal(t, "Payroll runs monthly. See the portal for details", chunks[0].Text)
}

func TestSentenceChunker_Empty(t *testing.T) {
	c := NewSentenceChunker(3, 1)
	assert.Empty(t, c.Chunk(Document{Source: "a.txt", Content: "  \n\t "}))
}

func TestNewSentenceChunker_ClampsOverlap(t *testing.T) {
	c := NewSentenceChunker(2, 5)
	chunks := c.Chunk(Document{Source: "a.txt", Content: "A. B. C. D."})

	require.NotEmpty(t, chunks)
	assert.Equal(t, "C. D.", chunks[len(chunks)-1].Text)
}
