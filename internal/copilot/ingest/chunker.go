package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
)

// SentenceChunker splits text into sentence-based chunks with overlap.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
	space             *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`),
		space:             regexp.MustCompile(`\s+`),
	}
}

// Chunk returns the document's chunks with IDs "<source>#<n>". Text after the
// last sentence terminator is kept as a final sentence.
func (c *SentenceChunker) Chunk(doc Document) []domain.Chunk {
	var sentences []string
	for _, s := range c.splitter.FindAllString(doc.Content, -1) {
		s = strings.TrimSpace(c.space.ReplaceAllString(s, " "))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	var chunks []domain.Chunk
	for i := 0; i < len(sentences); {
		end := min(i+c.sentencesPerChunk, len(sentences))
		chunks = append(chunks, domain.Chunk{
			ID:     doc.Source + "#" + strconv.Itoa(len(chunks)),
			Source: doc.Source,
			Title:  doc.Title,
			Text:   strings.Join(sentences[i:end], " "),
		})
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return chunks
}
