// File: internal/infra/sched/dispatch_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/usecase"
)

// DispatchWorker drains the application queue on a short interval.
type DispatchWorker struct {
	interval time.Duration
	dispatch usecase.DispatchUseCase
	log      *zerolog.Logger
}

func NewDispatchWorker(interval time.Duration, dispatch usecase.DispatchUseCase, logger *zerolog.Logger) *DispatchWorker {
	compLog := logger.With().Str("component", "DispatchWorker").Logger()
	return &DispatchWorker{
		interval: interval,
		dispatch: dispatch,
		log:      &compLog,
	}
}

func (w *DispatchWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting dispatch worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping dispatch worker")
			return ctx.Err()
		case <-ticker.C:
			stats, err := w.dispatch.DispatchOnce(ctx, false, 0)
			if err != nil {
				w.log.Error().Err(err).Msg("dispatch pass failed")
				continue
			}
			if stats.Taken > 0 {
				w.log.Info().
					Int("taken", stats.Taken).
					Int("sent", stats.Sent).
					Int("retried", stats.Retried).
					Int("failed", stats.Failed).
					Int("skipped", stats.Skipped).
					Msg("dispatch pass")
			}
		}
	}
}
