package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/domain"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/logging"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Generator sends a prompt to a text generation service and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Adapter is the boundary between request handling and a provider client.
// It never fails without an answer: on any error it returns
// domain.FallbackAnswer together with an error wrapping
// domain.ErrGenerationFailed.
type Adapter struct {
	provider Generator
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
}

type Option func(*Adapter)

// WithRateLimit throttles outbound calls to rps with the given burst.
// rps <= 0 leaves calls unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *Adapter) {
		if rps <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

func NewAdapter(provider Generator, opts ...Option) *Adapter {
	a := &Adapter{provider: provider}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Adapter) Generate(ctx context.Context, prompt string) (text string, err error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
		if err != nil {
			log.Error("generation failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
			text, err = domain.FallbackAnswer, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
		a.metrics.ObserveGeneration(time.Since(start), err)
	}()

	if a.provider == nil {
		return "", domain.ErrMissingCredential
	}

	if a.limiter != nil {
		if werr := a.limiter.Wait(ctx); werr != nil {
			return "", fmt.Errorf("rate limit: %w", werr)
		}
	}

	text, err = a.provider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyResponse
	}

	log.Debug("generation succeeded", zap.Int("prompt_chars", len(prompt)), zap.Duration("latency", time.Since(start)))
	return text, nil
}

// Unavailable is a Generator that always fails with err. It stands in for a
// provider whose client could not be built, e.g. a missing API key, so the
// server still starts and reports the problem per request.
type Unavailable struct {
	Err error
}

func (u Unavailable) Generate(context.Context, string) (string, error) {
	return "", u.Err
}
