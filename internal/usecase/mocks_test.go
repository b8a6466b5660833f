//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/domain/ports/repository"
)

// Function-field mocks: a test sets only the funcs it cares about; unset
// funcs return zero values.

func testLogger() *zerolog.Logger {
	l := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	return &l
}

// mockTxManager invokes fn directly with a nil tx.
type mockTxManager struct {
	WithTxFunc func(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, fn)
	}
	return fn(ctx, nil)
}

type mockApplicationRepo struct {
	InsertBatchFunc         func(ctx context.Context, tx repository.Tx, b repository.EnqueueBatch) (int, error)
	ClaimDueFunc            func(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Application, error)
	MarkSentFunc            func(ctx context.Context, tx repository.Tx, id int64, note *string) error
	MarkErrorFunc           func(ctx context.Context, tx repository.Tx, id int64, errText string, attemptCount *int) error
	MarkRetryFunc           func(ctx context.Context, tx repository.Tx, id int64, errText string, attemptCount int, nextTryAt time.Time) error
	ParkUntilFunc           func(ctx context.Context, tx repository.Tx, id int64, until time.Time) error
	ExistingVacancyIDsFunc  func(ctx context.Context, tx repository.Tx, userID int64, candidates []int64) (map[int64]struct{}, error)
	CountCreatedBetweenFunc func(ctx context.Context, tx repository.Tx, userID int64, from, to time.Time) (int, error)
	CountByUserFunc         func(ctx context.Context, tx repository.Tx, userID int64) (int, error)
	LastAutoCreatedAtFunc   func(ctx context.Context, tx repository.Tx, campaignID int64) (*time.Time, error)
	FindByIDFunc            func(ctx context.Context, tx repository.Tx, id int64) (*model.Application, error)
	ListByUserFunc          func(ctx context.Context, tx repository.Tx, userID int64, limit, offset int) ([]*model.Application, error)
}

func (m *mockApplicationRepo) InsertBatch(ctx context.Context, tx repository.Tx, b repository.EnqueueBatch) (int, error) {
	if m.InsertBatchFunc != nil {
		return m.InsertBatchFunc(ctx, tx, b)
	}
	return 0, nil
}

func (m *mockApplicationRepo) ClaimDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Application, error) {
	if m.ClaimDueFunc != nil {
		return m.ClaimDueFunc(ctx, tx, now, limit)
	}
	return nil, nil
}

func (m *mockApplicationRepo) MarkSent(ctx context.Context, tx repository.Tx, id int64, note *string) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, tx, id, note)
	}
	return nil
}

func (m *mockApplicationRepo) MarkError(ctx context.Context, tx repository.Tx, id int64, errText string, attemptCount *int) error {
	if m.MarkErrorFunc != nil {
		return m.MarkErrorFunc(ctx, tx, id, errText, attemptCount)
	}
	return nil
}

func (m *mockApplicationRepo) MarkRetry(ctx context.Context, tx repository.Tx, id int64, errText string, attemptCount int, nextTryAt time.Time) error {
	if m.MarkRetryFunc != nil {
		return m.MarkRetryFunc(ctx, tx, id, errText, attemptCount, nextTryAt)
	}
	return nil
}

func (m *mockApplicationRepo) ParkUntil(ctx context.Context, tx repository.Tx, id int64, until time.Time) error {
	if m.ParkUntilFunc != nil {
		return m.ParkUntilFunc(ctx, tx, id, until)
	}
	return nil
}

func (m *mockApplicationRepo) ExistingVacancyIDs(ctx context.Context, tx repository.Tx, userID int64, candidates []int64) (map[int64]struct{}, error) {
	if m.ExistingVacancyIDsFunc != nil {
		return m.ExistingVacancyIDsFunc(ctx, tx, userID, candidates)
	}
	return map[int64]struct{}{}, nil
}

func (m *mockApplicationRepo) CountCreatedBetween(ctx context.Context, tx repository.Tx, userID int64, from, to time.Time) (int, error) {
	if m.CountCreatedBetweenFunc != nil {
		return m.CountCreatedBetweenFunc(ctx, tx, userID, from, to)
	}
	return 0, nil
}

func (m *mockApplicationRepo) CountByUser(ctx context.Context, tx repository.Tx, userID int64) (int, error) {
	if m.CountByUserFunc != nil {
		return m.CountByUserFunc(ctx, tx, userID)
	}
	return 0, nil
}

func (m *mockApplicationRepo) LastAutoCreatedAt(ctx context.Context, tx repository.Tx, campaignID int64) (*time.Time, error) {
	if m.LastAutoCreatedAtFunc != nil {
		return m.LastAutoCreatedAtFunc(ctx, tx, campaignID)
	}
	return nil, nil
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Application, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, nil
}

func (m *mockApplicationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64, limit, offset int) ([]*model.Application, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID, limit, offset)
	}
	return nil, nil
}

type mockCampaignRepo struct {
	UpsertFunc          func(ctx context.Context, tx repository.Tx, c *model.Campaign) (int64, error)
	FindByIDForUserFunc func(ctx context.Context, tx repository.Tx, userID, id int64) (*model.Campaign, error)
	ListByUserFunc      func(ctx context.Context, tx repository.Tx, userID int64, limit, offset int) ([]*model.Campaign, int, error)
	StartFunc           func(ctx context.Context, tx repository.Tx, userID, id int64) error
	StopFunc            func(ctx context.Context, tx repository.Tx, userID, id int64) error
	DeleteFunc          func(ctx context.Context, tx repository.Tx, userID, id int64) error
	MarkErroredFunc     func(ctx context.Context, tx repository.Tx, id int64) error
	ActiveJobsFunc      func(ctx context.Context, tx repository.Tx) ([]*model.CampaignJob, error)
	JobByIDFunc         func(ctx context.Context, tx repository.Tx, userID, id int64) (*model.CampaignJob, error)
	LockCountersFunc    func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error)
	BumpSentFunc        func(ctx context.Context, tx repository.Tx, id int64, n int) error
}

func (m *mockCampaignRepo) Upsert(ctx context.Context, tx repository.Tx, c *model.Campaign) (int64, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, c)
	}
	return 0, nil
}

func (m *mockCampaignRepo) FindByIDForUser(ctx context.Context, tx repository.Tx, userID, id int64) (*model.Campaign, error) {
	if m.FindByIDForUserFunc != nil {
		return m.FindByIDForUserFunc(ctx, tx, userID, id)
	}
	return nil, nil
}

func (m *mockCampaignRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64, limit, offset int) ([]*model.Campaign, int, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockCampaignRepo) Start(ctx context.Context, tx repository.Tx, userID, id int64) error {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, tx, userID, id)
	}
	return nil
}

func (m *mockCampaignRepo) Stop(ctx context.Context, tx repository.Tx, userID, id int64) error {
	if m.StopFunc != nil {
		return m.StopFunc(ctx, tx, userID, id)
	}
	return nil
}

func (m *mockCampaignRepo) Delete(ctx context.Context, tx repository.Tx, userID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, userID, id)
	}
	return nil
}

func (m *mockCampaignRepo) MarkErrored(ctx context.Context, tx repository.Tx, id int64) error {
	if m.MarkErroredFunc != nil {
		return m.MarkErroredFunc(ctx, tx, id)
	}
	return nil
}

func (m *mockCampaignRepo) ActiveJobs(ctx context.Context, tx repository.Tx) ([]*model.CampaignJob, error) {
	if m.ActiveJobsFunc != nil {
		return m.ActiveJobsFunc(ctx, tx)
	}
	return nil, nil
}

func (m *mockCampaignRepo) JobByID(ctx context.Context, tx repository.Tx, userID, id int64) (*model.CampaignJob, error) {
	if m.JobByIDFunc != nil {
		return m.JobByIDFunc(ctx, tx, userID, id)
	}
	return nil, nil
}

func (m *mockCampaignRepo) LockCounters(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
	if m.LockCountersFunc != nil {
		return m.LockCountersFunc(ctx, tx, id, todayMSK)
	}
	return &repository.CampaignCounters{}, nil
}

func (m *mockCampaignRepo) BumpSent(ctx context.Context, tx repository.Tx, id int64, n int) error {
	if m.BumpSentFunc != nil {
		return m.BumpSentFunc(ctx, tx, id, n)
	}
	return nil
}

type mockNotificationRepo struct {
	EnqueueFunc                  func(ctx context.Context, tx repository.Tx, userID *int64, scope, text string, scheduledAt time.Time) (int64, error)
	ClaimPendingDueFunc          func(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Notification, error)
	MarkSentFunc                 func(ctx context.Context, tx repository.Tx, id int64) error
	MarkFailedFunc               func(ctx context.Context, tx repository.Tx, id int64, errText string) error
	ExistsSinceFunc              func(ctx context.Context, tx repository.Tx, userID int64, marker string, since time.Time) (bool, error)
	InsertSubscriptionMarkerFunc func(ctx context.Context, tx repository.Tx, subscriptionID int64, kind model.SubscriptionNotificationKind) (bool, error)
	SegmentTgIDsFunc             func(ctx context.Context, tx repository.Tx, key string) ([]int64, error)
}

func (m *mockNotificationRepo) Enqueue(ctx context.Context, tx repository.Tx, userID *int64, scope, text string, scheduledAt time.Time) (int64, error) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, tx, userID, scope, text, scheduledAt)
	}
	return 1, nil
}

func (m *mockNotificationRepo) ClaimPendingDue(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Notification, error) {
	if m.ClaimPendingDueFunc != nil {
		return m.ClaimPendingDueFunc(ctx, tx, now, limit)
	}
	return nil, nil
}

func (m *mockNotificationRepo) MarkSent(ctx context.Context, tx repository.Tx, id int64) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, tx, id)
	}
	return nil
}

func (m *mockNotificationRepo) MarkFailed(ctx context.Context, tx repository.Tx, id int64, errText string) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, tx, id, errText)
	}
	return nil
}

func (m *mockNotificationRepo) ExistsSince(ctx context.Context, tx repository.Tx, userID int64, marker string, since time.Time) (bool, error) {
	if m.ExistsSinceFunc != nil {
		return m.ExistsSinceFunc(ctx, tx, userID, marker, since)
	}
	return false, nil
}

func (m *mockNotificationRepo) InsertSubscriptionMarker(ctx context.Context, tx repository.Tx, subscriptionID int64, kind model.SubscriptionNotificationKind) (bool, error) {
	if m.InsertSubscriptionMarkerFunc != nil {
		return m.InsertSubscriptionMarkerFunc(ctx, tx, subscriptionID, kind)
	}
	return true, nil
}

func (m *mockNotificationRepo) SegmentTgIDs(ctx context.Context, tx repository.Tx, key string) ([]int64, error) {
	if m.SegmentTgIDsFunc != nil {
		return m.SegmentTgIDsFunc(ctx, tx, key)
	}
	return nil, nil
}

type mockSubscriptionRepo struct {
	HasActivePaidFunc      func(ctx context.Context, tx repository.Tx, userID int64, now time.Time) (bool, error)
	CurrentForUserFunc     func(ctx context.Context, tx repository.Tx, userID int64) (*model.Subscription, error)
	FindExpiringWithinFunc func(ctx context.Context, tx repository.Tx, now time.Time, within time.Duration) ([]*model.Subscription, error)
	MarkExpiredFunc        func(ctx context.Context, tx repository.Tx, id int64) error
	ExtendOrCreateFunc     func(ctx context.Context, tx repository.Tx, userID, tariffID int64, periodDays int, now time.Time, source string) error
}

func (m *mockSubscriptionRepo) HasActivePaid(ctx context.Context, tx repository.Tx, userID int64, now time.Time) (bool, error) {
	if m.HasActivePaidFunc != nil {
		return m.HasActivePaidFunc(ctx, tx, userID, now)
	}
	return false, nil
}

func (m *mockSubscriptionRepo) CurrentForUser(ctx context.Context, tx repository.Tx, userID int64) (*model.Subscription, error) {
	if m.CurrentForUserFunc != nil {
		return m.CurrentForUserFunc(ctx, tx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) FindExpiringWithin(ctx context.Context, tx repository.Tx, now time.Time, within time.Duration) ([]*model.Subscription, error) {
	if m.FindExpiringWithinFunc != nil {
		return m.FindExpiringWithinFunc(ctx, tx, now, within)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) MarkExpired(ctx context.Context, tx repository.Tx, id int64) error {
	if m.MarkExpiredFunc != nil {
		return m.MarkExpiredFunc(ctx, tx, id)
	}
	return nil
}

func (m *mockSubscriptionRepo) ExtendOrCreate(ctx context.Context, tx repository.Tx, userID, tariffID int64, periodDays int, now time.Time, source string) error {
	if m.ExtendOrCreateFunc != nil {
		return m.ExtendOrCreateFunc(ctx, tx, userID, tariffID, periodDays, now, source)
	}
	return nil
}

type mockTariffRepo struct {
	FindByCodeFunc func(ctx context.Context, tx repository.Tx, code string) (*model.Tariff, error)
	FindByIDFunc   func(ctx context.Context, tx repository.Tx, id int64) (*model.Tariff, error)
}

func (m *mockTariffRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Tariff, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, tx, code)
	}
	return nil, nil
}

func (m *mockTariffRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Tariff, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, nil
}

type mockUserRepo struct {
	UpsertSeenFunc        func(ctx context.Context, tx repository.Tx, upd repository.SeenUpdate) (int64, error)
	FindByIDFunc          func(ctx context.Context, tx repository.Tx, id int64) (*model.User, error)
	FindByTgIDFunc        func(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error)
	FindByRefCodeFunc     func(ctx context.Context, tx repository.Tx, code string) (*model.User, error)
	FindByIDForUpdateFunc func(ctx context.Context, tx repository.Tx, id int64) (*model.User, error)
	SetHHIdentityFunc     func(ctx context.Context, tx repository.Tx, userID int64, accountID, fullName string) error
	ClearHHIdentityFunc   func(ctx context.Context, tx repository.Tx, userID int64) error
	SetRefCodeFunc        func(ctx context.Context, tx repository.Tx, userID int64, code string) error
	SetPendingRefFunc     func(ctx context.Context, tx repository.Tx, userID int64, code string) error
	SetReferredByFunc     func(ctx context.Context, tx repository.Tx, userID, parentID int64) (bool, error)
	TgIDByUserIDFunc      func(ctx context.Context, tx repository.Tx, userID int64) (int64, error)
	AllTgIDsFunc          func(ctx context.Context, tx repository.Tx) ([]int64, error)
}

func (m *mockUserRepo) UpsertSeen(ctx context.Context, tx repository.Tx, upd repository.SeenUpdate) (int64, error) {
	if m.UpsertSeenFunc != nil {
		return m.UpsertSeenFunc(ctx, tx, upd)
	}
	return 0, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserRepo) FindByTgID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	if m.FindByTgIDFunc != nil {
		return m.FindByTgIDFunc(ctx, tx, tgID)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByRefCode(ctx context.Context, tx repository.Tx, code string) (*model.User, error) {
	if m.FindByRefCodeFunc != nil {
		return m.FindByRefCodeFunc(ctx, tx, code)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByIDForUpdate(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	if m.FindByIDForUpdateFunc != nil {
		return m.FindByIDForUpdateFunc(ctx, tx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserRepo) SetHHIdentity(ctx context.Context, tx repository.Tx, userID int64, accountID, fullName string) error {
	if m.SetHHIdentityFunc != nil {
		return m.SetHHIdentityFunc(ctx, tx, userID, accountID, fullName)
	}
	return nil
}

func (m *mockUserRepo) ClearHHIdentity(ctx context.Context, tx repository.Tx, userID int64) error {
	if m.ClearHHIdentityFunc != nil {
		return m.ClearHHIdentityFunc(ctx, tx, userID)
	}
	return nil
}

func (m *mockUserRepo) SetRefCode(ctx context.Context, tx repository.Tx, userID int64, code string) error {
	if m.SetRefCodeFunc != nil {
		return m.SetRefCodeFunc(ctx, tx, userID, code)
	}
	return nil
}

func (m *mockUserRepo) SetPendingRef(ctx context.Context, tx repository.Tx, userID int64, code string) error {
	if m.SetPendingRefFunc != nil {
		return m.SetPendingRefFunc(ctx, tx, userID, code)
	}
	return nil
}

func (m *mockUserRepo) SetReferredBy(ctx context.Context, tx repository.Tx, userID, parentID int64) (bool, error) {
	if m.SetReferredByFunc != nil {
		return m.SetReferredByFunc(ctx, tx, userID, parentID)
	}
	return true, nil
}

func (m *mockUserRepo) TgIDByUserID(ctx context.Context, tx repository.Tx, userID int64) (int64, error) {
	if m.TgIDByUserIDFunc != nil {
		return m.TgIDByUserIDFunc(ctx, tx, userID)
	}
	return 0, nil
}

func (m *mockUserRepo) AllTgIDs(ctx context.Context, tx repository.Tx) ([]int64, error) {
	if m.AllTgIDsFunc != nil {
		return m.AllTgIDsFunc(ctx, tx)
	}
	return nil, nil
}

type mockTokenRepo struct {
	UpsertFunc       func(ctx context.Context, tx repository.Tx, t *model.HHToken) error
	FindByUserIDFunc func(ctx context.Context, tx repository.Tx, userID int64) (*model.HHToken, error)
	DeleteFunc       func(ctx context.Context, tx repository.Tx, userID int64) error
}

func (m *mockTokenRepo) Upsert(ctx context.Context, tx repository.Tx, t *model.HHToken) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, t)
	}
	return nil
}

func (m *mockTokenRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID int64) (*model.HHToken, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, tx, userID)
	}
	return nil, nil
}

func (m *mockTokenRepo) Delete(ctx context.Context, tx repository.Tx, userID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, userID)
	}
	return nil
}

type mockResumeRepo struct {
	UpsertBatchFunc func(ctx context.Context, tx repository.Tx, userID int64, items []model.Resume) error
	ListByUserFunc  func(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Resume, error)
	OwnsFunc        func(ctx context.Context, tx repository.Tx, userID int64, resumeID string) (bool, error)
}

func (m *mockResumeRepo) UpsertBatch(ctx context.Context, tx repository.Tx, userID int64, items []model.Resume) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, tx, userID, items)
	}
	return nil
}

func (m *mockResumeRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Resume, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID)
	}
	return nil, nil
}

func (m *mockResumeRepo) Owns(ctx context.Context, tx repository.Tx, userID int64, resumeID string) (bool, error) {
	if m.OwnsFunc != nil {
		return m.OwnsFunc(ctx, tx, userID, resumeID)
	}
	return true, nil
}

type mockSavedRequestRepo struct {
	CreateFunc     func(ctx context.Context, tx repository.Tx, r *model.SavedRequest) (int64, error)
	FindByIDFunc   func(ctx context.Context, tx repository.Tx, id int64) (*model.SavedRequest, error)
	ListByUserFunc func(ctx context.Context, tx repository.Tx, userID int64) ([]*model.SavedRequest, error)
	DeleteFunc     func(ctx context.Context, tx repository.Tx, userID, id int64) error
}

func (m *mockSavedRequestRepo) Create(ctx context.Context, tx repository.Tx, r *model.SavedRequest) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, r)
	}
	return 1, nil
}

func (m *mockSavedRequestRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.SavedRequest, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, nil
}

func (m *mockSavedRequestRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.SavedRequest, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID)
	}
	return nil, nil
}

func (m *mockSavedRequestRepo) Delete(ctx context.Context, tx repository.Tx, userID, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, userID, id)
	}
	return nil
}

type mockPaymentRepo struct {
	UpsertPaidFunc   func(ctx context.Context, tx repository.Tx, provider, providerID string, userID, tariffID int64, amountCents int64, description string, raw []byte) (bool, error)
	UpsertFailedFunc func(ctx context.Context, tx repository.Tx, provider, providerID string, amountCents int64, raw []byte) error
}

func (m *mockPaymentRepo) UpsertPaid(ctx context.Context, tx repository.Tx, provider, providerID string, userID, tariffID int64, amountCents int64, description string, raw []byte) (bool, error) {
	if m.UpsertPaidFunc != nil {
		return m.UpsertPaidFunc(ctx, tx, provider, providerID, userID, tariffID, amountCents, description, raw)
	}
	return true, nil
}

func (m *mockPaymentRepo) UpsertFailed(ctx context.Context, tx repository.Tx, provider, providerID string, amountCents int64, raw []byte) error {
	if m.UpsertFailedFunc != nil {
		return m.UpsertFailedFunc(ctx, tx, provider, providerID, amountCents, raw)
	}
	return nil
}

type mockReferralRepo struct {
	InsertEdgeFunc   func(ctx context.Context, tx repository.Tx, userID, parentID int64, level int) error
	CountByLevelFunc func(ctx context.Context, tx repository.Tx, parentID int64) (int, int, int, error)
	UplinesFunc      func(ctx context.Context, tx repository.Tx, userID int64) (map[int]int64, error)
	StatsFunc        func(ctx context.Context, tx repository.Tx, userID int64) (*model.ReferralStats, error)
	AddBonusFunc     func(ctx context.Context, tx repository.Tx, userID int64, amountCents int64, description string) error
}

func (m *mockReferralRepo) InsertEdge(ctx context.Context, tx repository.Tx, userID, parentID int64, level int) error {
	if m.InsertEdgeFunc != nil {
		return m.InsertEdgeFunc(ctx, tx, userID, parentID, level)
	}
	return nil
}

func (m *mockReferralRepo) CountByLevel(ctx context.Context, tx repository.Tx, parentID int64) (int, int, int, error) {
	if m.CountByLevelFunc != nil {
		return m.CountByLevelFunc(ctx, tx, parentID)
	}
	return 0, 0, 0, nil
}

func (m *mockReferralRepo) Uplines(ctx context.Context, tx repository.Tx, userID int64) (map[int]int64, error) {
	if m.UplinesFunc != nil {
		return m.UplinesFunc(ctx, tx, userID)
	}
	return map[int]int64{}, nil
}

func (m *mockReferralRepo) Stats(ctx context.Context, tx repository.Tx, userID int64) (*model.ReferralStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, tx, userID)
	}
	return &model.ReferralStats{}, nil
}

func (m *mockReferralRepo) AddBonus(ctx context.Context, tx repository.Tx, userID int64, amountCents int64, description string) error {
	if m.AddBonusFunc != nil {
		return m.AddBonusFunc(ctx, tx, userID, amountCents, description)
	}
	return nil
}

// mockHHClient also carries AuthorizeURL so it satisfies OAuthFlow.
type mockHHClient struct {
	SearchVacanciesFunc func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error)
	ApplyFunc           func(ctx context.Context, accessToken string, vacancyID int64, resumeID, coverLetter string) error
	GetResumesFunc      func(ctx context.Context, accessToken string) ([]adapter.ResumeInfo, error)
	GetMeFunc           func(ctx context.Context, accessToken string) (*adapter.Profile, error)
	ExchangeCodeFunc    func(ctx context.Context, code string) (*adapter.TokenPair, error)
	RefreshTokenFunc    func(ctx context.Context, refreshToken string) (*adapter.TokenPair, error)
	AuthorizeURLFunc    func(state string) string
}

func (m *mockHHClient) SearchVacancies(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
	if m.SearchVacanciesFunc != nil {
		return m.SearchVacanciesFunc(ctx, accessToken, canonicalQS, limit, dateFrom)
	}
	return &adapter.SearchResult{}, nil
}

func (m *mockHHClient) Apply(ctx context.Context, accessToken string, vacancyID int64, resumeID, coverLetter string) error {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, accessToken, vacancyID, resumeID, coverLetter)
	}
	return nil
}

func (m *mockHHClient) GetResumes(ctx context.Context, accessToken string) ([]adapter.ResumeInfo, error) {
	if m.GetResumesFunc != nil {
		return m.GetResumesFunc(ctx, accessToken)
	}
	return nil, nil
}

func (m *mockHHClient) GetMe(ctx context.Context, accessToken string) (*adapter.Profile, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, accessToken)
	}
	return &adapter.Profile{}, nil
}

func (m *mockHHClient) ExchangeCode(ctx context.Context, code string) (*adapter.TokenPair, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return &adapter.TokenPair{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600}, nil
}

func (m *mockHHClient) RefreshToken(ctx context.Context, refreshToken string) (*adapter.TokenPair, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return &adapter.TokenPair{AccessToken: "at2", RefreshToken: "rt2", ExpiresIn: 3600}, nil
}

func (m *mockHHClient) AuthorizeURL(state string) string {
	if m.AuthorizeURLFunc != nil {
		return m.AuthorizeURLFunc(state)
	}
	return "https://hh.example/authorize?state=" + state
}

type sentMessage struct {
	TgID     int64
	Text     string
	Keyboard bool
}

type mockMessenger struct {
	SendMessageFunc func(ctx context.Context, tgID int64, text string, withPayKeyboard bool) error
	Sent            []sentMessage
}

func (m *mockMessenger) SendMessage(ctx context.Context, tgID int64, text string, withPayKeyboard bool) error {
	m.Sent = append(m.Sent, sentMessage{TgID: tgID, Text: text, Keyboard: withPayKeyboard})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, tgID, text, withPayKeyboard)
	}
	return nil
}

type mockStateStore struct {
	PutFunc     func(ctx context.Context, state string, userID int64) error
	ConsumeFunc func(ctx context.Context, state string) (int64, error)
}

func (m *mockStateStore) Put(ctx context.Context, state string, userID int64) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, state, userID)
	}
	return nil
}

func (m *mockStateStore) Consume(ctx context.Context, state string) (int64, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, state)
	}
	return 0, nil
}

type mockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	UnlockFunc  func(ctx context.Context, key, token string) error
}

func (m *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return "token", nil
}

func (m *mockLocker) Unlock(ctx context.Context, key, token string) error {
	if m.UnlockFunc != nil {
		return m.UnlockFunc(ctx, key, token)
	}
	return nil
}

// Use-case mocks for the layers above.

type mockTokenUC struct {
	LoginURLFunc          func(ctx context.Context, userID int64) (string, error)
	HandleCallbackFunc    func(ctx context.Context, state, code string) (int64, error)
	EnsureFreshAccessFunc func(ctx context.Context, userID int64) (string, error)
	ForceRefreshFunc      func(ctx context.Context, userID int64) (string, error)
	StatusFunc            func(ctx context.Context, userID int64) (*LinkStatus, error)
	UnlinkFunc            func(ctx context.Context, userID int64) error
	SyncResumesFunc       func(ctx context.Context, userID int64) ([]*model.Resume, error)
	ResumesFunc           func(ctx context.Context, userID int64) ([]*model.Resume, error)
}

func (m *mockTokenUC) LoginURL(ctx context.Context, userID int64) (string, error) {
	if m.LoginURLFunc != nil {
		return m.LoginURLFunc(ctx, userID)
	}
	return "", nil
}

func (m *mockTokenUC) HandleCallback(ctx context.Context, state, code string) (int64, error) {
	if m.HandleCallbackFunc != nil {
		return m.HandleCallbackFunc(ctx, state, code)
	}
	return 0, nil
}

func (m *mockTokenUC) EnsureFreshAccess(ctx context.Context, userID int64) (string, error) {
	if m.EnsureFreshAccessFunc != nil {
		return m.EnsureFreshAccessFunc(ctx, userID)
	}
	return "access", nil
}

func (m *mockTokenUC) ForceRefresh(ctx context.Context, userID int64) (string, error) {
	if m.ForceRefreshFunc != nil {
		return m.ForceRefreshFunc(ctx, userID)
	}
	return "access", nil
}

func (m *mockTokenUC) Status(ctx context.Context, userID int64) (*LinkStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID)
	}
	return &LinkStatus{}, nil
}

func (m *mockTokenUC) Unlink(ctx context.Context, userID int64) error {
	if m.UnlinkFunc != nil {
		return m.UnlinkFunc(ctx, userID)
	}
	return nil
}

func (m *mockTokenUC) SyncResumes(ctx context.Context, userID int64) ([]*model.Resume, error) {
	if m.SyncResumesFunc != nil {
		return m.SyncResumesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTokenUC) Resumes(ctx context.Context, userID int64) ([]*model.Resume, error) {
	if m.ResumesFunc != nil {
		return m.ResumesFunc(ctx, userID)
	}
	return nil, nil
}

type mockQuotaUC struct {
	ViewFunc func(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error)
}

func (m *mockQuotaUC) View(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error) {
	if m.ViewFunc != nil {
		return m.ViewFunc(ctx, tx, userID)
	}
	return &model.QuotaView{Tariff: model.TariffFree, DailyCap: 10, HardCap: 200, Remaining: 10}, nil
}

type mockNotifyUC struct {
	ScheduleSubscriptionRemindersFunc func(ctx context.Context) (int, error)
	DeliverPendingFunc                func(ctx context.Context) (int, error)
	NotifyQuotaExhaustedOnceFunc      func(ctx context.Context, tx repository.Tx, userID int64, resetLabel, tariff string) error
	BroadcastFunc                     func(ctx context.Context, userID *int64, scope, text string, scheduledAt time.Time) (int64, error)
}

func (m *mockNotifyUC) ScheduleSubscriptionReminders(ctx context.Context) (int, error) {
	if m.ScheduleSubscriptionRemindersFunc != nil {
		return m.ScheduleSubscriptionRemindersFunc(ctx)
	}
	return 0, nil
}

func (m *mockNotifyUC) DeliverPending(ctx context.Context) (int, error) {
	if m.DeliverPendingFunc != nil {
		return m.DeliverPendingFunc(ctx)
	}
	return 0, nil
}

func (m *mockNotifyUC) NotifyQuotaExhaustedOnce(ctx context.Context, tx repository.Tx, userID int64, resetLabel, tariff string) error {
	if m.NotifyQuotaExhaustedOnceFunc != nil {
		return m.NotifyQuotaExhaustedOnceFunc(ctx, tx, userID, resetLabel, tariff)
	}
	return nil
}

func (m *mockNotifyUC) Broadcast(ctx context.Context, userID *int64, scope, text string, scheduledAt time.Time) (int64, error) {
	if m.BroadcastFunc != nil {
		return m.BroadcastFunc(ctx, userID, scope, text, scheduledAt)
	}
	return 0, nil
}

type mockReferralUC struct {
	EnsureRefCodeFunc func(ctx context.Context, userID int64) (string, error)
	TrackFunc         func(ctx context.Context, userID int64, code string) error
	AttachOnLinkFunc  func(ctx context.Context, tx repository.Tx, userID int64) error
	StatsFunc         func(ctx context.Context, userID int64) (*model.ReferralStats, error)
	PayoutFunc        func(ctx context.Context, tx repository.Tx, payerID int64, tariff *model.Tariff, amountCents int64) error
}

func (m *mockReferralUC) EnsureRefCode(ctx context.Context, userID int64) (string, error) {
	if m.EnsureRefCodeFunc != nil {
		return m.EnsureRefCodeFunc(ctx, userID)
	}
	return "", nil
}

func (m *mockReferralUC) Track(ctx context.Context, userID int64, code string) error {
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, userID, code)
	}
	return nil
}

func (m *mockReferralUC) AttachOnLink(ctx context.Context, tx repository.Tx, userID int64) error {
	if m.AttachOnLinkFunc != nil {
		return m.AttachOnLinkFunc(ctx, tx, userID)
	}
	return nil
}

func (m *mockReferralUC) Stats(ctx context.Context, userID int64) (*model.ReferralStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return &model.ReferralStats{}, nil
}

func (m *mockReferralUC) Payout(ctx context.Context, tx repository.Tx, payerID int64, tariff *model.Tariff, amountCents int64) error {
	if m.PayoutFunc != nil {
		return m.PayoutFunc(ctx, tx, payerID, tariff, amountCents)
	}
	return nil
}
