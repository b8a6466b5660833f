// File: internal/infra/sched/campaign_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/usecase"
)

// CampaignWorker polls HH for every active campaign on the configured
// interval. Per-campaign failures are logged and do not stop the sweep.
type CampaignWorker struct {
	interval  time.Duration
	campaigns usecase.CampaignUseCase
	log       *zerolog.Logger
}

func NewCampaignWorker(interval time.Duration, campaigns usecase.CampaignUseCase, logger *zerolog.Logger) *CampaignWorker {
	compLog := logger.With().Str("component", "CampaignWorker").Logger()
	return &CampaignWorker{
		interval:  interval,
		campaigns: campaigns,
		log:       &compLog,
	}
}

func (w *CampaignWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting campaign worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping campaign worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CampaignWorker) sweep(ctx context.Context) {
	jobs, err := w.campaigns.ActiveJobs(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("listing active campaigns failed")
		return
	}
	total := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		n, err := w.campaigns.AutoTick(ctx, job)
		if err != nil {
			w.log.Error().Err(err).
				Int64("campaign_id", job.CampaignID).
				Int64("user_id", job.UserID).
				Msg("campaign tick failed")
			continue
		}
		total += n
	}
	if total > 0 {
		w.log.Info().Int("campaigns", len(jobs)).Int("enqueued", total).Msg("campaign sweep")
	}
}
