// File: internal/usecase/campaign_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
	"hh-offerbot/internal/infra/metrics"
)

var _ CampaignUseCase = (*campaignUC)(nil)

// firstBatchDefault caps a manually triggered first batch.
const firstBatchDefault = 150

type CampaignUseCase interface {
	Upsert(ctx context.Context, c *model.Campaign) (int64, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]*model.Campaign, int, error)
	Get(ctx context.Context, userID, id int64) (*model.Campaign, error)
	Start(ctx context.Context, userID, id int64) error
	Stop(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error

	// SendNow runs one polling pass for the campaign immediately, capped at
	// firstBatchDefault regardless of the requested limit.
	SendNow(ctx context.Context, userID, campaignID int64, limit int) (int, error)

	// AutoTick runs one polling pass for an active campaign: searches new
	// vacancies since the last pass and enqueues them within the remaining
	// campaign and user budget for the MSK day.
	AutoTick(ctx context.Context, job *model.CampaignJob) (int, error)

	ActiveJobs(ctx context.Context) ([]*model.CampaignJob, error)
}

type campaignUC struct {
	campaigns repository.CampaignRepository
	apps      repository.ApplicationRepository
	resumes   repository.ResumeRepository
	tokens    TokenUseCase
	quota     QuotaUseCase
	notify    NotificationUseCase
	hh        adapter.HHClient
	txm       repository.TransactionManager
	clock     clock.Clock
	pollEvery time.Duration
	log       zerolog.Logger
}

func NewCampaignUseCase(
	campaigns repository.CampaignRepository,
	apps repository.ApplicationRepository,
	resumes repository.ResumeRepository,
	tokens TokenUseCase,
	quota QuotaUseCase,
	notify NotificationUseCase,
	hhClient adapter.HHClient,
	txm repository.TransactionManager,
	clk clock.Clock,
	pollEvery time.Duration,
	logger *zerolog.Logger,
) *campaignUC {
	return &campaignUC{
		campaigns: campaigns, apps: apps, resumes: resumes,
		tokens: tokens, quota: quota, notify: notify, hh: hhClient,
		txm: txm, clock: clk, pollEvery: pollEvery,
		log: logger.With().Str("component", "campaign_uc").Logger(),
	}
}

func (u *campaignUC) Upsert(ctx context.Context, c *model.Campaign) (int64, error) {
	if c.UserID == 0 || c.ResumeID == "" {
		return 0, domain.ErrInvalidArgument
	}
	owns, err := u.resumes.Owns(ctx, nil, c.UserID, c.ResumeID)
	if err != nil {
		return 0, err
	}
	if !owns {
		return 0, domain.ErrInvalidArgument
	}
	if c.DailyLimit <= 0 || c.DailyLimit > model.HardDailyCap {
		c.DailyLimit = model.HardDailyCap
	}
	return u.campaigns.Upsert(ctx, nil, c)
}

func (u *campaignUC) List(ctx context.Context, userID int64, limit, offset int) ([]*model.Campaign, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return u.campaigns.ListByUser(ctx, nil, userID, limit, offset)
}

func (u *campaignUC) Get(ctx context.Context, userID, id int64) (*model.Campaign, error) {
	return u.campaigns.FindByIDForUser(ctx, nil, userID, id)
}

func (u *campaignUC) Start(ctx context.Context, userID, id int64) error {
	st, err := u.tokens.Status(ctx, userID)
	if err != nil {
		return err
	}
	// An active campaign without a linked HH account would only burn ticks.
	if !st.Linked {
		return domain.ErrHHNotLinked
	}
	return u.campaigns.Start(ctx, nil, userID, id)
}

func (u *campaignUC) Stop(ctx context.Context, userID, id int64) error {
	return u.campaigns.Stop(ctx, nil, userID, id)
}

func (u *campaignUC) Delete(ctx context.Context, userID, id int64) error {
	return u.campaigns.Delete(ctx, nil, userID, id)
}

func (u *campaignUC) ActiveJobs(ctx context.Context) ([]*model.CampaignJob, error) {
	return u.campaigns.ActiveJobs(ctx, nil)
}

func (u *campaignUC) SendNow(ctx context.Context, userID, campaignID int64, limit int) (int, error) {
	job, err := u.campaigns.JobByID(ctx, nil, userID, campaignID)
	if err != nil {
		return 0, err
	}
	if limit <= 0 || limit > firstBatchDefault {
		limit = firstBatchDefault
	}
	return u.tick(ctx, job, limit)
}

func (u *campaignUC) AutoTick(ctx context.Context, job *model.CampaignJob) (int, error) {
	return u.tick(ctx, job, 0)
}

// tick is one polling pass. extraCap > 0 additionally bounds the batch (the
// manual send-now path); the campaign and user day budgets always apply.
func (u *campaignUC) tick(ctx context.Context, job *model.CampaignJob, extraCap int) (int, error) {
	if job.QueryParams == "" {
		u.log.Debug().Int64("campaign_id", job.CampaignID).Msg("campaign has no saved request")
		return 0, nil
	}

	// The résumé can disappear or change hands between passes; a stale one
	// takes the campaign out of rotation instead of erroring every tick.
	owns, err := u.resumes.Owns(ctx, nil, job.UserID, job.ResumeID)
	if err != nil {
		return 0, err
	}
	if !owns {
		if err := u.campaigns.MarkErrored(ctx, nil, job.CampaignID); err != nil {
			return 0, err
		}
		metrics.IncCampaignTickError("resume")
		u.log.Warn().
			Int64("campaign_id", job.CampaignID).
			Str("resume_id", job.ResumeID).
			Msg("campaign resume no longer owned")
		return 0, nil
	}

	access, err := u.tokens.EnsureFreshAccess(ctx, job.UserID)
	if err != nil {
		if err == domain.ErrHHNotLinked {
			u.log.Warn().Int64("user_id", job.UserID).Msg("campaign active but hh not linked")
			return 0, nil
		}
		metrics.IncCampaignTickError("token")
		return 0, err
	}

	// First pass under the row lock: figure out today's budget and the
	// search lower bound, then release before the slow HTTP part.
	var allowed int
	var dateFrom string
	var quotaView *model.QuotaView
	err = u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		allowed, quotaView, err = u.allowedNow(ctx, tx, job)
		if err != nil {
			return err
		}
		if allowed <= 0 {
			return nil
		}
		last, err := u.apps.LastAutoCreatedAt(ctx, tx, job.CampaignID)
		if err != nil {
			return err
		}
		dateFrom = u.searchLowerBound(last)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if allowed <= 0 {
		if quotaView != nil && quotaView.Remaining <= 0 {
			u.notifyQuota(ctx, job.UserID, quotaView)
		}
		return 0, nil
	}
	if extraCap > 0 && allowed > extraCap {
		allowed = extraCap
	}

	res, err := u.hh.SearchVacancies(ctx, access, job.QueryParams, allowed, dateFrom)
	if err != nil {
		metrics.IncCampaignTickError("search")
		return 0, err
	}
	if len(res.IDs) == 0 {
		return 0, nil
	}

	// Second pass: re-check the budget under the lock and enqueue.
	inserted := 0
	err = u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		allowed, quotaView, err = u.allowedNow(ctx, tx, job)
		if err != nil {
			return err
		}
		if allowed <= 0 {
			return nil
		}
		ids := res.IDs
		if len(ids) > allowed {
			ids = ids[:allowed]
		}
		var letter *string
		if job.CoverLetter != "" {
			letter = &job.CoverLetter
		}
		inserted, err = u.apps.InsertBatch(ctx, tx, repository.EnqueueBatch{
			UserID:      job.UserID,
			VacancyIDs:  ids,
			ResumeID:    job.ResumeID,
			CoverLetter: letter,
			Kind:        model.ApplicationKindAuto,
			CampaignID:  &job.CampaignID,
		})
		if err != nil {
			metrics.IncCampaignTickError("insert")
			return err
		}
		if inserted > 0 {
			return u.campaigns.BumpSent(ctx, tx, job.CampaignID, inserted)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		metrics.AddCampaignEnqueued("auto", inserted)
		u.log.Info().
			Int64("campaign_id", job.CampaignID).
			Int("found", res.Found).
			Int("enqueued", inserted).
			Msg("campaign pass")
	}
	return inserted, nil
}

// allowedNow locks the campaign counters and combines the campaign's and the
// user's remaining day budget.
func (u *campaignUC) allowedNow(ctx context.Context, tx repository.Tx, job *model.CampaignJob) (int, *model.QuotaView, error) {
	counters, err := u.campaigns.LockCounters(ctx, tx, job.CampaignID, clock.TodayMSK(u.clock.Now()))
	if err != nil {
		return 0, nil, err
	}
	qv, err := u.quota.View(ctx, tx, job.UserID)
	if err != nil {
		return 0, nil, err
	}
	remain := counters.DailyLimit - counters.SentToday
	if remain > qv.Remaining {
		remain = qv.Remaining
	}
	if remain < 0 {
		remain = 0
	}
	return remain, qv, nil
}

// searchLowerBound backdates the window by two poll intervals so publications
// landing between passes are never missed; duplicates are cheap.
func (u *campaignUC) searchLowerBound(lastAuto *time.Time) string {
	start, _ := clock.DayBounds(u.clock.Now())
	from := start
	if lastAuto != nil && lastAuto.After(start) {
		from = *lastAuto
	}
	return from.Add(-2 * u.pollEvery).UTC().Format("2006-01-02T15:04:05")
}

func (u *campaignUC) notifyQuota(ctx context.Context, userID int64, qv *model.QuotaView) {
	err := u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return u.notify.NotifyQuotaExhaustedOnce(ctx, tx, userID, qv.ResetLabel, qv.Tariff)
	})
	if err != nil {
		u.log.Warn().Err(err).Int64("user_id", userID).Msg("quota notification failed")
	}
}
