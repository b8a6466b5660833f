// File: internal/usecase/dispatch_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
	"hh-offerbot/internal/infra/metrics"
)

var _ DispatchUseCase = (*dispatchUC)(nil)

const (
	dispatchBatchSize = 50
	maxAttempts       = 5
)

// backoffSeconds is indexed by zero-based attempt: 1m, 5m, 15m, 1h, 24h.
var backoffSeconds = []int{60, 300, 900, 3600, 86400}

func backoff(attempt int) time.Duration {
	i := attempt
	if i < 0 {
		i = 0
	}
	if i > len(backoffSeconds)-1 {
		i = len(backoffSeconds) - 1
	}
	return time.Duration(backoffSeconds[i]) * time.Second
}

// DispatchStats is one pass's outcome tally.
type DispatchStats struct {
	Taken   int `json:"taken"`
	Sent    int `json:"sent"`
	Retried int `json:"retried"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type DispatchUseCase interface {
	// DispatchOnce claims one batch of due applications and drives each
	// through the send state machine. dryRun only counts what would be taken.
	DispatchOnce(ctx context.Context, dryRun bool, limit int) (*DispatchStats, error)
}

type dispatchUC struct {
	apps   repository.ApplicationRepository
	tokens TokenUseCase
	quota  QuotaUseCase
	notify NotificationUseCase
	hh     adapter.HHClient
	txm    repository.TransactionManager
	clock  clock.Clock
	log    zerolog.Logger
}

func NewDispatchUseCase(
	apps repository.ApplicationRepository,
	tokens TokenUseCase,
	quota QuotaUseCase,
	notify NotificationUseCase,
	hhClient adapter.HHClient,
	txm repository.TransactionManager,
	clk clock.Clock,
	logger *zerolog.Logger,
) *dispatchUC {
	return &dispatchUC{
		apps: apps, tokens: tokens, quota: quota, notify: notify,
		hh: hhClient, txm: txm, clock: clk,
		log: logger.With().Str("component", "dispatch_uc").Logger(),
	}
}

func (u *dispatchUC) DispatchOnce(ctx context.Context, dryRun bool, limit int) (*DispatchStats, error) {
	if limit <= 0 {
		limit = dispatchBatchSize
	}
	stats := &DispatchStats{}
	now := u.clock.Now()

	if dryRun {
		// Peek inside a rolled-back transaction so the claim lease is undone
		// and nothing is deferred.
		err := u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			rows, err := u.apps.ClaimDue(ctx, tx, now, limit)
			if err != nil {
				return err
			}
			stats.Taken = len(rows)
			stats.Skipped = len(rows)
			return errDryRunPeek
		})
		if err != nil && err != errDryRunPeek {
			return nil, err
		}
		return stats, nil
	}

	// The claim is one atomic statement: it takes due rows and leases them,
	// so no transaction stays open while the HH calls run below.
	rows, err := u.apps.ClaimDue(ctx, nil, now, limit)
	if err != nil {
		return nil, err
	}
	stats.Taken = len(rows)
	metrics.ObserveDispatchBatch(len(rows))

	for _, app := range rows {
		if ctx.Err() != nil {
			// Shutdown: stop starting new attempts; leased rows become due
			// again on their own.
			break
		}
		if err := u.dispatchOne(ctx, app, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

var errDryRunPeek = fmt.Errorf("dry-run peek")

// dispatchOne runs the full transition table for one claimed row. Returned
// errors are infrastructure failures that abort the batch; HH-side outcomes
// are absorbed into the row's status.
func (u *dispatchUC) dispatchOne(ctx context.Context, app *model.Application, stats *DispatchStats) error {
	access, err := u.tokens.EnsureFreshAccess(ctx, app.UserID)
	if err != nil {
		if err == domain.ErrHHNotLinked {
			stats.Failed++
			metrics.IncDispatchOutcome("error")
			return u.apps.MarkError(ctx, nil, app.ID, "no hh access_token for user", nil)
		}
		// Token repair failed; spend a retry slot like any transient error.
		return u.retryOrFail(ctx, app, fmt.Sprintf("token: %s", err), stats)
	}

	qv, err := u.quota.View(ctx, nil, app.UserID)
	if err != nil {
		return err
	}
	if qv.Remaining <= 0 {
		until := clock.EndOfDay(u.clock.Now())
		if err := u.apps.ParkUntil(ctx, nil, app.ID, until); err != nil {
			return err
		}
		if err := u.notify.NotifyQuotaExhaustedOnce(ctx, nil, app.UserID, qv.ResetLabel, qv.Tariff); err != nil {
			u.log.Warn().Err(err).Int64("user_id", app.UserID).Msg("quota notification failed")
		}
		stats.Skipped++
		metrics.IncDispatchOutcome("parked")
		return nil
	}

	letter := ""
	if app.CoverLetter != nil {
		letter = *app.CoverLetter
	}
	started := u.clock.Now()
	applyErr := u.hh.Apply(ctx, access, app.VacancyID, app.ResumeID, letter)
	metrics.ObserveApplyLatency(time.Since(started).Milliseconds())

	if applyErr == nil {
		stats.Sent++
		metrics.IncDispatchOutcome("sent")
		return u.apps.MarkSent(ctx, nil, app.ID, nil)
	}

	ae := adapter.AsApplyError(applyErr)
	switch ae.Kind {
	case adapter.ApplyAlreadyApplied:
		note := "already_applied: " + truncate(ae.Body, 400)
		stats.Sent++
		metrics.IncDispatchOutcome("already_applied")
		return u.apps.MarkSent(ctx, nil, app.ID, &note)

	case adapter.ApplyNonRetryable:
		switch ae.Code {
		case "test_required", "letter_required", "vacancy_not_found", "resume_not_found":
			stats.Skipped++
			metrics.IncDispatchOutcome("skipped")
			u.log.Info().
				Int64("user_id", app.UserID).
				Int64("vacancy_id", app.VacancyID).
				Str("reason", ae.Code).
				Msg("apply skipped")
			return u.apps.MarkError(ctx, nil, app.ID, ae.Code, nil)
		}
		stats.Failed++
		metrics.IncDispatchOutcome("error")
		return u.apps.MarkError(ctx, nil, app.ID, "non-retryable: "+truncate(ae.Body, 500), nil)

	case adapter.ApplyUnauthorized:
		attempt := app.AttemptCount + 1
		next := u.clock.Now().Add(backoff(attempt - 1))
		stats.Retried++
		metrics.IncDispatchOutcome("retry")
		return u.apps.MarkRetry(ctx, nil, app.ID,
			"401 unauthorized: "+truncate(ae.Body, 450), attempt, next)
	}

	return u.retryOrFail(ctx, app, truncate(ae.Body, 500), stats)
}

func (u *dispatchUC) retryOrFail(ctx context.Context, app *model.Application, errText string, stats *DispatchStats) error {
	attempt := app.AttemptCount + 1
	if attempt >= maxAttempts {
		stats.Failed++
		metrics.IncDispatchOutcome("error")
		return u.apps.MarkError(ctx, nil, app.ID, "max attempts; last: "+truncate(errText, 500), &attempt)
	}
	next := u.clock.Now().Add(backoff(attempt - 1))
	stats.Retried++
	metrics.IncDispatchOutcome("retry")
	return u.apps.MarkRetry(ctx, nil, app.ID, truncate(errText, 500), attempt, next)
}
