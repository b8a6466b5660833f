// File: internal/usecase/quota_uc.go
package usecase

import (
	"context"

	"hh-offerbot/internal/config"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
)

var _ QuotaUseCase = (*quotaUC)(nil)

type QuotaUseCase interface {
	// View derives the user's daily quota from the applications created in
	// the current MSK day. Nothing is stored, so it cannot drift.
	View(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error)
}

type quotaUC struct {
	apps  repository.ApplicationRepository
	subs  repository.SubscriptionRepository
	cfg   config.QuotaConfig
	clock clock.Clock
}

func NewQuotaUseCase(apps repository.ApplicationRepository, subs repository.SubscriptionRepository, cfg config.QuotaConfig, clk clock.Clock) *quotaUC {
	return &quotaUC{apps: apps, subs: subs, cfg: cfg, clock: clk}
}

func (u *quotaUC) View(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error) {
	now := u.clock.Now()

	paid, err := u.subs.HasActivePaid(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	tariff := model.TariffFree
	cap := u.cfg.FreeDaily
	if paid {
		tariff = model.TariffPaid
		cap = u.cfg.PaidDaily
	}
	if cap > u.cfg.HardCap {
		cap = u.cfg.HardCap
	}

	start, end := clock.DayBounds(now)
	used, err := u.apps.CountCreatedBetween(ctx, tx, userID, start, end)
	if err != nil {
		return nil, err
	}
	remaining := cap - used
	if remaining < 0 {
		remaining = 0
	}
	return &model.QuotaView{
		Tariff:     tariff,
		DailyCap:   cap,
		HardCap:    u.cfg.HardCap,
		UsedToday:  used,
		Remaining:  remaining,
		ResetLabel: clock.ResetLabel(now),
	}, nil
}
