// File: internal/usecase/application_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/metrics"
)

var _ ApplicationUseCase = (*applicationUC)(nil)

// EnqueueResult reports what a manual enqueue did with the requested ids.
type EnqueueResult struct {
	Requested  int `json:"requested"`
	Enqueued   int `json:"enqueued"`
	Duplicates int `json:"duplicates"`
}

type ApplicationUseCase interface {
	// Enqueue queues manual applications for the given vacancies, skipping
	// ones the user already has and capping the batch to the remaining day
	// quota. The dispatcher re-checks the quota at send time.
	Enqueue(ctx context.Context, userID int64, resumeID string, vacancyIDs []int64, coverLetter *string) (*EnqueueResult, error)

	List(ctx context.Context, userID int64, limit, offset int) ([]*model.Application, error)
	Get(ctx context.Context, userID, id int64) (*model.Application, error)
}

type applicationUC struct {
	apps    repository.ApplicationRepository
	resumes repository.ResumeRepository
	quota   QuotaUseCase
	notify  NotificationUseCase
	txm     repository.TransactionManager
	log     zerolog.Logger
}

func NewApplicationUseCase(
	apps repository.ApplicationRepository,
	resumes repository.ResumeRepository,
	quota QuotaUseCase,
	notify NotificationUseCase,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *applicationUC {
	return &applicationUC{
		apps: apps, resumes: resumes, quota: quota, notify: notify, txm: txm,
		log: logger.With().Str("component", "application_uc").Logger(),
	}
}

func (u *applicationUC) Enqueue(ctx context.Context, userID int64, resumeID string, vacancyIDs []int64, coverLetter *string) (*EnqueueResult, error) {
	if userID == 0 || resumeID == "" || len(vacancyIDs) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	owns, err := u.resumes.Owns(ctx, nil, userID, resumeID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, domain.ErrInvalidArgument
	}

	res := &EnqueueResult{Requested: len(vacancyIDs)}
	err = u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		qv, err := u.quota.View(ctx, tx, userID)
		if err != nil {
			return err
		}
		if qv.Remaining <= 0 {
			if nerr := u.notify.NotifyQuotaExhaustedOnce(ctx, tx, userID, qv.ResetLabel, qv.Tariff); nerr != nil {
				u.log.Warn().Err(nerr).Int64("user_id", userID).Msg("quota notification failed")
			}
			return nil
		}
		existing, err := u.apps.ExistingVacancyIDs(ctx, tx, userID, vacancyIDs)
		if err != nil {
			return err
		}
		fresh := make([]int64, 0, len(vacancyIDs))
		for _, v := range vacancyIDs {
			if _, ok := existing[v]; ok {
				res.Duplicates++
				continue
			}
			fresh = append(fresh, v)
		}
		// The overflow beyond the day quota is dropped, not queued for later.
		if len(fresh) > qv.Remaining {
			fresh = fresh[:qv.Remaining]
		}
		if len(fresh) == 0 {
			return nil
		}
		inserted, err := u.apps.InsertBatch(ctx, tx, repository.EnqueueBatch{
			UserID:      userID,
			VacancyIDs:  fresh,
			ResumeID:    resumeID,
			CoverLetter: coverLetter,
			Kind:        model.ApplicationKindManual,
		})
		if err != nil {
			return err
		}
		res.Enqueued = inserted
		// Racing enqueues land here: the batch insert skips them too.
		res.Duplicates += len(fresh) - inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Enqueued > 0 {
		metrics.AddCampaignEnqueued("manual", res.Enqueued)
		u.log.Info().Int64("user_id", userID).Int("enqueued", res.Enqueued).Msg("manual applications queued")
	}
	return res, nil
}

func (u *applicationUC) List(ctx context.Context, userID int64, limit, offset int) ([]*model.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return u.apps.ListByUser(ctx, nil, userID, limit, offset)
}

func (u *applicationUC) Get(ctx context.Context, userID, id int64) (*model.Application, error) {
	app, err := u.apps.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return app, nil
}
