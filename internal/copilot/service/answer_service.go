package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/prompt"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/logging"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"go.uber.org/zap"
)

// DefaultTopK is how many chunks are retrieved per question.
const DefaultTopK = 10

// Retriever finds the chunks most similar to a query.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}

// Generator turns a prompt into answer text. Implementations return
// domain.FallbackAnswer alongside any error.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HistoryRecorder persists answered questions.
type HistoryRecorder interface {
	Save(ctx context.Context, rec *domain.QuestionRecord) error
}

// AnswerService answers one question per call. A nil retriever gives the
// passthrough behaviour: the question is sent to the model as is.
type AnswerService struct {
	retriever Retriever
	generator Generator
	history   HistoryRecorder
	metrics   *metrics.Metrics
	topK      int
}

type Option func(*AnswerService)

func WithRetriever(r Retriever, topK int) Option {
	return func(s *AnswerService) {
		s.retriever = r
		if topK > 0 {
			s.topK = topK
		}
	}
}

func WithHistory(h HistoryRecorder) Option {
	return func(s *AnswerService) { s.history = h }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *AnswerService) { s.metrics = m }
}

func NewAnswerService(gen Generator, opts ...Option) *AnswerService {
	s := &AnswerService{generator: gen, topK: DefaultTopK}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RAGEnabled reports whether questions are augmented with retrieved chunks.
func (s *AnswerService) RAGEnabled() bool {
	return s.retriever != nil
}

// Answer never returns nil. On failure Text holds domain.FallbackAnswer and
// Err says what went wrong; the model is only called once retrieval and
// validation have succeeded.
func (s *AnswerService) Answer(ctx context.Context, question string) *domain.Answer {
	start := time.Now()
	ans := s.answer(ctx, question)

	if ans.Err != nil {
		logging.FromContext(ctx).Warn("question not answered", zap.Error(ans.Err))
	}
	s.record(ctx, ans, time.Since(start))
	return ans
}

func (s *AnswerService) answer(ctx context.Context, question string) (ans *domain.Answer) {
	ans = &domain.Answer{Question: question, Text: domain.FallbackAnswer}

	defer func() {
		if r := recover(); r != nil {
			ans = &domain.Answer{
				Question: question,
				Text:     domain.FallbackAnswer,
				Err:      fmt.Errorf("answer panic: %v", r),
			}
		}
	}()

	q := strings.TrimSpace(question)
	if q == "" {
		ans.Err = domain.ErrNoQuestion
		return ans
	}

	text := q
	if s.retriever != nil {
		searchStart := time.Now()
		results, err := s.retriever.Search(ctx, q, s.topK)
		if err != nil {
			ans.Err = fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
			return ans
		}
		results = relevant(results)
		s.metrics.ObserveRetrieval(time.Since(searchStart), len(results))

		ans.Sources = results
		text = prompt.Compose(q, prompt.ChunksOf(results))
	}

	out, err := s.generator.Generate(ctx, text)
	if err != nil {
		ans.Err = err
		if out != "" {
			ans.Text = out
		}
		return ans
	}

	ans.Text = out
	return ans
}

// relevant drops chunks that share nothing with the question.
func relevant(results []domain.SearchResult) []domain.SearchResult {
	out := results[:0:0]
	for _, r := range results {
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}

func (s *AnswerService) record(ctx context.Context, ans *domain.Answer, latency time.Duration) {
	if s.history == nil {
		return
	}

	ids := make([]string, 0, len(ans.Sources))
	for _, r := range ans.Sources {
		ids = append(ids, r.Chunk.ID)
	}

	rec := &domain.QuestionRecord{
		RequestID: logging.RequestID(ctx),
		Question:  ans.Question,
		Answer:    ans.Text,
		Error:     ans.ErrorMessage(),
		SourceIDs: ids,
		LatencyMs: latency.Milliseconds(),
	}
	if err := s.history.Save(ctx, rec); err != nil {
		logging.FromContext(ctx).Error("failed to record question history", zap.Error(err))
	}
}
