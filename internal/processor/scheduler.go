package processor

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs the batch processor on a fixed interval. Deployments that
// trigger runs through the cron endpoint do not need it.
type Scheduler struct {
	processor *BatchProcessor
	interval  time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a scheduler around the given processor.
func NewScheduler(processor *BatchProcessor, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{processor: processor, interval: interval, logger: logger}
}

// Start runs batch runs until the context is cancelled. The first run fires
// after one full interval. Run errors are logged and do not stop the loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting batch scheduler", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping batch scheduler")
			return
		case <-ticker.C:
			if _, err := s.processor.Run(ctx); err != nil {
				s.logger.Error("scheduled batch run failed", "error", err)
			}
		}
	}
}
