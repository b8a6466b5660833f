// File: internal/infra/sched/notification_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/usecase"
)

type NotificationWorker struct {
	interval time.Duration
	notifUC  usecase.NotificationUseCase
	log      *zerolog.Logger
}

func NewNotificationWorker(interval time.Duration, notifUC usecase.NotificationUseCase, logger *zerolog.Logger) *NotificationWorker {
	compLog := logger.With().Str("component", "NotificationWorker").Logger()
	return &NotificationWorker{
		interval: interval,
		notifUC:  notifUC,
		log:      &compLog,
	}
}

func (w *NotificationWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting notification worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping notification worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *NotificationWorker) runCheck(ctx context.Context) {
	created, err := w.notifUC.ScheduleSubscriptionReminders(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("scheduling reminders failed")
	}
	if created > 0 {
		w.log.Info().Int("count", created).Msg("subscription reminders scheduled")
	}

	sent, err := w.notifUC.DeliverPending(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("notification delivery failed")
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("notifications delivered")
	}
}
