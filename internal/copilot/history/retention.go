package history

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner removes history older than a cutoff.
type Pruner interface {
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionScheduler prunes question history on a cron schedule
// (six fields, seconds first).
type RetentionScheduler struct {
	pruner    Pruner
	retention time.Duration
	schedule  string
	log       *zap.Logger
	now       func() time.Time

	cron *cron.Cron
}

func NewRetentionScheduler(p Pruner, retention time.Duration, schedule string, log *zap.Logger) *RetentionScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetentionScheduler{
		pruner:    p,
		retention: retention,
		schedule:  schedule,
		log:       log,
		now:       time.Now,
	}
}

func (s *RetentionScheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.log.Error("history pruning failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.schedule, err)
	}

	s.cron = c
	c.Start()
	s.log.Info("history retention scheduled",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention),
	)
	return nil
}

// Stop waits for a running prune to finish or ctx to end.
func (s *RetentionScheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *RetentionScheduler) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.pruner.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Info("history pruned", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
	return n, nil
}
