//go:build !integration

// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/usecase"
)

// Use-case mocks embed the interface for forward compatibility; only the
// methods a test exercises are overridden.

type mockUserUC struct {
	usecase.UserUseCase
	SeenFunc    func(ctx context.Context, upd repository.SeenUpdate) (int64, error)
	ProfileFunc func(ctx context.Context, userID int64) (*usecase.UserProfile, error)
	StatsFunc   func(ctx context.Context, userID int64) (*usecase.UserStats, error)
}

func (m *mockUserUC) Seen(ctx context.Context, upd repository.SeenUpdate) (int64, error) {
	return m.SeenFunc(ctx, upd)
}

func (m *mockUserUC) Profile(ctx context.Context, userID int64) (*usecase.UserProfile, error) {
	return m.ProfileFunc(ctx, userID)
}

func (m *mockUserUC) Stats(ctx context.Context, userID int64) (*usecase.UserStats, error) {
	return m.StatsFunc(ctx, userID)
}

type mockTokenUC struct {
	usecase.TokenUseCase
	LoginURLFunc       func(ctx context.Context, userID int64) (string, error)
	HandleCallbackFunc func(ctx context.Context, state, code string) (int64, error)
	StatusFunc         func(ctx context.Context, userID int64) (*usecase.LinkStatus, error)
	UnlinkFunc         func(ctx context.Context, userID int64) error
	SyncResumesFunc    func(ctx context.Context, userID int64) ([]*model.Resume, error)
}

func (m *mockTokenUC) LoginURL(ctx context.Context, userID int64) (string, error) {
	return m.LoginURLFunc(ctx, userID)
}

func (m *mockTokenUC) HandleCallback(ctx context.Context, state, code string) (int64, error) {
	return m.HandleCallbackFunc(ctx, state, code)
}

func (m *mockTokenUC) Status(ctx context.Context, userID int64) (*usecase.LinkStatus, error) {
	return m.StatusFunc(ctx, userID)
}

func (m *mockTokenUC) Unlink(ctx context.Context, userID int64) error {
	return m.UnlinkFunc(ctx, userID)
}

func (m *mockTokenUC) SyncResumes(ctx context.Context, userID int64) ([]*model.Resume, error) {
	return m.SyncResumesFunc(ctx, userID)
}

type mockSavedUC struct {
	usecase.SavedRequestUseCase
	CreateFunc func(ctx context.Context, r *model.SavedRequest) (int64, error)
	ListFunc   func(ctx context.Context, userID int64) ([]*model.SavedRequest, error)
	GetFunc    func(ctx context.Context, userID, id int64) (*model.SavedRequest, error)
	DeleteFunc func(ctx context.Context, userID, id int64) error
}

func (m *mockSavedUC) Create(ctx context.Context, r *model.SavedRequest) (int64, error) {
	return m.CreateFunc(ctx, r)
}

func (m *mockSavedUC) List(ctx context.Context, userID int64) ([]*model.SavedRequest, error) {
	return m.ListFunc(ctx, userID)
}

func (m *mockSavedUC) Get(ctx context.Context, userID, id int64) (*model.SavedRequest, error) {
	return m.GetFunc(ctx, userID, id)
}

func (m *mockSavedUC) Delete(ctx context.Context, userID, id int64) error {
	return m.DeleteFunc(ctx, userID, id)
}

type mockCampaignUC struct {
	usecase.CampaignUseCase
	UpsertFunc  func(ctx context.Context, c *model.Campaign) (int64, error)
	ListFunc    func(ctx context.Context, userID int64, limit, offset int) ([]*model.Campaign, int, error)
	GetFunc     func(ctx context.Context, userID, id int64) (*model.Campaign, error)
	StartFunc   func(ctx context.Context, userID, id int64) error
	StopFunc    func(ctx context.Context, userID, id int64) error
	DeleteFunc  func(ctx context.Context, userID, id int64) error
	SendNowFunc func(ctx context.Context, userID, campaignID int64, limit int) (int, error)
}

func (m *mockCampaignUC) Upsert(ctx context.Context, c *model.Campaign) (int64, error) {
	return m.UpsertFunc(ctx, c)
}

func (m *mockCampaignUC) List(ctx context.Context, userID int64, limit, offset int) ([]*model.Campaign, int, error) {
	return m.ListFunc(ctx, userID, limit, offset)
}

func (m *mockCampaignUC) Get(ctx context.Context, userID, id int64) (*model.Campaign, error) {
	return m.GetFunc(ctx, userID, id)
}

func (m *mockCampaignUC) Start(ctx context.Context, userID, id int64) error {
	return m.StartFunc(ctx, userID, id)
}

func (m *mockCampaignUC) Stop(ctx context.Context, userID, id int64) error {
	return m.StopFunc(ctx, userID, id)
}

func (m *mockCampaignUC) Delete(ctx context.Context, userID, id int64) error {
	return m.DeleteFunc(ctx, userID, id)
}

func (m *mockCampaignUC) SendNow(ctx context.Context, userID, campaignID int64, limit int) (int, error) {
	return m.SendNowFunc(ctx, userID, campaignID, limit)
}

type mockDispatchUC struct {
	DispatchOnceFunc func(ctx context.Context, dryRun bool, limit int) (*usecase.DispatchStats, error)
}

func (m *mockDispatchUC) DispatchOnce(ctx context.Context, dryRun bool, limit int) (*usecase.DispatchStats, error) {
	return m.DispatchOnceFunc(ctx, dryRun, limit)
}

type mockQuotaUC struct {
	ViewFunc func(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error)
}

func (m *mockQuotaUC) View(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error) {
	return m.ViewFunc(ctx, tx, userID)
}

type mockReferralUC struct {
	usecase.ReferralUseCase
	EnsureRefCodeFunc func(ctx context.Context, userID int64) (string, error)
	TrackFunc         func(ctx context.Context, userID int64, code string) error
	StatsFunc         func(ctx context.Context, userID int64) (*model.ReferralStats, error)
}

func (m *mockReferralUC) EnsureRefCode(ctx context.Context, userID int64) (string, error) {
	return m.EnsureRefCodeFunc(ctx, userID)
}

func (m *mockReferralUC) Track(ctx context.Context, userID int64, code string) error {
	return m.TrackFunc(ctx, userID, code)
}

func (m *mockReferralUC) Stats(ctx context.Context, userID int64) (*model.ReferralStats, error) {
	return m.StatsFunc(ctx, userID)
}

type mockNotifyUC struct {
	usecase.NotificationUseCase
	BroadcastFunc func(ctx context.Context, userID *int64, scope, text string, scheduledAt time.Time) (int64, error)
}

func (m *mockNotifyUC) Broadcast(ctx context.Context, userID *int64, scope, text string, scheduledAt time.Time) (int64, error) {
	return m.BroadcastFunc(ctx, userID, scope, text, scheduledAt)
}

type mockPaymentUC struct {
	verifyOK bool
	paid     []usecase.PaidEvent
	failed   []usecase.FailedEvent
}

func (m *mockPaymentUC) VerifySignature(raw []byte, headerB64 string) bool {
	return m.verifyOK
}

func (m *mockPaymentUC) HandlePaid(ctx context.Context, ev usecase.PaidEvent) error {
	m.paid = append(m.paid, ev)
	return nil
}

func (m *mockPaymentUC) HandleFailed(ctx context.Context, ev usecase.FailedEvent) error {
	m.failed = append(m.failed, ev)
	return nil
}

type mockAppUC struct {
	usecase.ApplicationUseCase
	EnqueueFunc func(ctx context.Context, userID int64, resumeID string, vacancyIDs []int64, coverLetter *string) (*usecase.EnqueueResult, error)
	ListFunc    func(ctx context.Context, userID int64, limit, offset int) ([]*model.Application, error)
}

func (m *mockAppUC) Enqueue(ctx context.Context, userID int64, resumeID string, vacancyIDs []int64, coverLetter *string) (*usecase.EnqueueResult, error) {
	return m.EnqueueFunc(ctx, userID, resumeID, vacancyIDs, coverLetter)
}

func (m *mockAppUC) List(ctx context.Context, userID int64, limit, offset int) ([]*model.Application, error) {
	return m.ListFunc(ctx, userID, limit, offset)
}

type serverMocks struct {
	users     *mockUserUC
	tokens    *mockTokenUC
	saved     *mockSavedUC
	campaigns *mockCampaignUC
	dispatch  *mockDispatchUC
	quota     *mockQuotaUC
	refs      *mockReferralUC
	notify    *mockNotifyUC
	payments  *mockPaymentUC
	apps      *mockAppUC
}

const testAdminKey = "test-admin-key"

func newTestServer() (*Server, *serverMocks) {
	m := &serverMocks{
		users:     &mockUserUC{},
		tokens:    &mockTokenUC{},
		saved:     &mockSavedUC{},
		campaigns: &mockCampaignUC{},
		dispatch:  &mockDispatchUC{},
		quota:     &mockQuotaUC{},
		refs:      &mockReferralUC{},
		notify:    &mockNotifyUC{},
		payments:  &mockPaymentUC{verifyOK: true},
		apps:      &mockAppUC{},
	}
	logger := zerolog.Nop()
	srv := NewServer(m.users, m.tokens, m.saved, m.campaigns, m.dispatch,
		m.quota, m.refs, m.notify, m.payments, m.apps, testAdminKey, "", &logger)
	return srv, m
}
