package domain

import "time"

// Chunk is a unit of indexed text together with its embedding.
type Chunk struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
}

// SearchResult is a chunk ranked against a query.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is the outcome of one question. Text always holds something
// renderable: the generated answer or the fallback string when Err is set.
type Answer struct {
	Question string
	Text     string
	Sources  []SearchResult
	Err      error
}

// ErrorMessage returns nil when the answer carries no error.
func (a *Answer) ErrorMessage() *string {
	if a == nil || a.Err == nil {
		return nil
	}
	msg := a.Err.Error()
	return &msg
}

// QuestionRecord is one row of question history.
type QuestionRecord struct {
	ID        string
	RequestID string
	Question  string
	Answer    string
	Error     *string
	SourceIDs []string
	LatencyMs int64
	CreatedAt time.Time
}
