// Package prompt injects retrieved passages into the question sent to the model.
package prompt

import (
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
)

const (
	preamble = "Answer the question using the context passages below. " +
		"If the context does not contain the answer, say that you could not find it in the company documents."
	contextHeader  = "Context:"
	questionHeader = "Question:"
)

// Compose builds the model prompt from the question and the retrieved chunks,
// keeping the chunks in the order given. Without chunks the question is
// returned unchanged.
func Compose(question string, chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	b.WriteString(contextHeader)
	b.WriteString("\n")
	for i, c := range chunks {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("] ")
		b.WriteString(strings.TrimSpace(c.Text))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(questionHeader)
	b.WriteString(" ")
	b.WriteString(question)
	return b.String()
}

// ChunksOf extracts the chunks from ranked search results.
func ChunksOf(results []domain.SearchResult) []domain.Chunk {
	out := make([]domain.Chunk, len(results))
	for i, r := range results {
		out[i] = r.Chunk
	}
	return out
}
