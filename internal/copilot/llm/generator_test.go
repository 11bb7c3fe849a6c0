package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	text    string
	err     error
	panics  bool
	prompts []string
}

func (s *stubProvider) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.panics {
		panic("sdk exploded")
	}
	return s.text, s.err
}

func TestAdapter_Success(t *testing.T) {
	p := &stubProvider{text: "You get 20 days."}
	text, err := NewAdapter(p).Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "You get 20 days.", text)
	assert.Equal(t, []string{"prompt"}, p.prompts)
}

func TestAdapter_FailuresReturnFallback(t *testing.T) {
	tests := []struct {
		name     string
		provider Generator
		cause    error
	}{
		{"provider error", &stubProvider{err: errors.New("connection refused")}, nil},
		{"empty response", &stubProvider{text: "   "}, domain.ErrEmptyResponse},
		{"missing credential", Unavailable{Err: domain.ErrMissingCredential}, domain.ErrMissingCredential},
		{"nil provider", nil, domain.ErrMissingCredential},
		{"provider panic", &stubProvider{panics: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := NewAdapter(tt.provider).Generate(context.Background(), "prompt")

			assert.Equal(t, domain.FallbackAnswer, text)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrGenerationFailed)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestAdapter_RateLimitHonoursContext(t *testing.T) {
	p := &stubProvider{text: "ok"}
	a := NewAdapter(p, WithRateLimit(0.001, 1))

	_, err := a.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text, err := a.Generate(ctx, "second")

	assert.Equal(t, domain.FallbackAnswer, text)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Len(t, p.prompts, 1)
}

func TestAdapter_ZeroRateLimitIsUnthrottled(t *testing.T) {
	a := NewAdapter(&stubProvider{text: "ok"}, WithRateLimit(0, 0))
	assert.Nil(t, a.limiter)
}

func TestAdapter_RecordsMetrics(t *testing.T) {
	m := metrics.New("test")
	ok := NewAdapter(&stubProvider{text: "ok"}, WithMetrics(m))
	bad := NewAdapter(&stubProvider{err: errors.New("x")}, WithMetrics(m))

	_, _ = ok.Generate(context.Background(), "p")
	_, _ = bad.Generate(context.Background(), "p")

	series, err := testutil.GatherAndCount(m.Registry(), "test_generation_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}
