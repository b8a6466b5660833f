//go:build !integration

// File: internal/usecase/campaign_uc_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
)

const testPollEvery = 5 * time.Minute

func testJob() *model.CampaignJob {
	return &model.CampaignJob{
		CampaignID:  7,
		UserID:      1,
		ResumeID:    "r1",
		DailyLimit:  20,
		QueryParams: "area=1&text=go",
	}
}

type campaignFixture struct {
	campaigns *mockCampaignRepo
	apps      *mockApplicationRepo
	resumes   *mockResumeRepo
	tokens    *mockTokenUC
	quota     *mockQuotaUC
	notify    *mockNotifyUC
	hh        *mockHHClient
	uc        CampaignUseCase
}

func newCampaignFixture() *campaignFixture {
	f := &campaignFixture{
		campaigns: &mockCampaignRepo{},
		apps:      &mockApplicationRepo{},
		resumes:   &mockResumeRepo{},
		tokens:    &mockTokenUC{},
		quota:     &mockQuotaUC{},
		notify:    &mockNotifyUC{},
		hh:        &mockHHClient{},
	}
	f.uc = NewCampaignUseCase(f.campaigns, f.apps, f.resumes, f.tokens, f.quota,
		f.notify, f.hh, &mockTxManager{}, clock.Fixed(testNow), testPollEvery, testLogger())
	return f
}

func TestCampaignTickEnqueuesWithinBudget(t *testing.T) {
	f := newCampaignFixture()
	f.campaigns.LockCountersFunc = func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
		return &repository.CampaignCounters{DailyLimit: 20, SentToday: 15}, nil
	}
	// The user budget is tighter than the campaign's: 3 < 5.
	f.quota.ViewFunc = func(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error) {
		return &model.QuotaView{Tariff: model.TariffFree, DailyCap: 10, UsedToday: 7, Remaining: 3}, nil
	}
	var searchLimit int
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		searchLimit = limit
		return &adapter.SearchResult{IDs: []int64{11, 12, 13, 14, 15}, Found: 5}, nil
	}
	var batch repository.EnqueueBatch
	f.apps.InsertBatchFunc = func(ctx context.Context, tx repository.Tx, b repository.EnqueueBatch) (int, error) {
		batch = b
		return len(b.VacancyIDs), nil
	}
	var bumped int
	f.campaigns.BumpSentFunc = func(ctx context.Context, tx repository.Tx, id int64, n int) error {
		bumped = n
		return nil
	}

	n, err := f.uc.AutoTick(context.Background(), testJob())
	if err != nil {
		t.Fatalf("AutoTick: %v", err)
	}
	if searchLimit != 3 {
		t.Errorf("search limit %d, want 3", searchLimit)
	}
	if n != 3 || bumped != 3 {
		t.Errorf("enqueued %d bumped %d, want 3", n, bumped)
	}
	if len(batch.VacancyIDs) != 3 || batch.Kind != model.ApplicationKindAuto {
		t.Errorf("batch %+v", batch)
	}
	if batch.CampaignID == nil || *batch.CampaignID != 7 {
		t.Errorf("campaign id %v", batch.CampaignID)
	}
}

func TestCampaignTickBackdatesSearchWindow(t *testing.T) {
	f := newCampaignFixture()
	last := testNow.Add(-30 * time.Minute)
	f.apps.LastAutoCreatedAtFunc = func(ctx context.Context, tx repository.Tx, campaignID int64) (*time.Time, error) {
		return &last, nil
	}
	f.campaigns.LockCountersFunc = func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
		return &repository.CampaignCounters{DailyLimit: 20}, nil
	}
	var gotFrom string
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		gotFrom = dateFrom
		return &adapter.SearchResult{}, nil
	}

	if _, err := f.uc.AutoTick(context.Background(), testJob()); err != nil {
		t.Fatalf("AutoTick: %v", err)
	}
	// last pass minus two poll intervals.
	want := last.Add(-2 * testPollEvery).UTC().Format("2006-01-02T15:04:05")
	if gotFrom != want {
		t.Errorf("date_from %q, want %q", gotFrom, want)
	}
}

func TestCampaignTickFirstPassStartsFromDayStart(t *testing.T) {
	f := newCampaignFixture()
	f.campaigns.LockCountersFunc = func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
		return &repository.CampaignCounters{DailyLimit: 20}, nil
	}
	var gotFrom string
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		gotFrom = dateFrom
		return &adapter.SearchResult{}, nil
	}

	if _, err := f.uc.AutoTick(context.Background(), testJob()); err != nil {
		t.Fatalf("AutoTick: %v", err)
	}
	dayStart, _ := clock.DayBounds(testNow)
	want := dayStart.Add(-2 * testPollEvery).UTC().Format("2006-01-02T15:04:05")
	if gotFrom != want {
		t.Errorf("date_from %q, want %q", gotFrom, want)
	}
}

func TestCampaignTickQuotaExhaustedNotifies(t *testing.T) {
	f := newCampaignFixture()
	f.campaigns.LockCountersFunc = func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
		return &repository.CampaignCounters{DailyLimit: 20, SentToday: 0}, nil
	}
	f.quota.ViewFunc = func(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error) {
		return &model.QuotaView{Tariff: model.TariffFree, Remaining: 0, ResetLabel: "00:00 11.03.2025"}, nil
	}
	notified := false
	f.notify.NotifyQuotaExhaustedOnceFunc = func(ctx context.Context, tx repository.Tx, userID int64, resetLabel, tariff string) error {
		notified = true
		return nil
	}
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		t.Error("search called with exhausted quota")
		return &adapter.SearchResult{}, nil
	}

	n, err := f.uc.AutoTick(context.Background(), testJob())
	if err != nil {
		t.Fatalf("AutoTick: %v", err)
	}
	if n != 0 || !notified {
		t.Errorf("n=%d notified=%v", n, notified)
	}
}

func TestCampaignTickAllDuplicatesNoBump(t *testing.T) {
	f := newCampaignFixture()
	f.campaigns.LockCountersFunc = func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
		return &repository.CampaignCounters{DailyLimit: 20}, nil
	}
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		return &adapter.SearchResult{IDs: []int64{11, 12}, Found: 2}, nil
	}
	f.apps.InsertBatchFunc = func(ctx context.Context, tx repository.Tx, b repository.EnqueueBatch) (int, error) {
		return 0, nil // every id conflicts
	}
	f.campaigns.BumpSentFunc = func(ctx context.Context, tx repository.Tx, id int64, n int) error {
		t.Error("BumpSent called for zero inserts")
		return nil
	}

	n, err := f.uc.AutoTick(context.Background(), testJob())
	if err != nil {
		t.Fatalf("AutoTick: %v", err)
	}
	if n != 0 {
		t.Errorf("n=%d, want 0", n)
	}
}

func TestCampaignTickErrorsOnLostResume(t *testing.T) {
	f := newCampaignFixture()
	f.resumes.OwnsFunc = func(ctx context.Context, tx repository.Tx, userID int64, resumeID string) (bool, error) {
		return false, nil
	}
	var errored int64
	f.campaigns.MarkErroredFunc = func(ctx context.Context, tx repository.Tx, id int64) error {
		errored = id
		return nil
	}
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		t.Error("search called for a campaign with a lost resume")
		return &adapter.SearchResult{}, nil
	}

	n, err := f.uc.AutoTick(context.Background(), testJob())
	if err != nil {
		t.Fatalf("AutoTick: %v", err)
	}
	if n != 0 || errored != 7 {
		t.Errorf("n=%d errored=%d, want campaign 7 marked errored", n, errored)
	}
}

func TestCampaignStartRequiresLinkedAccount(t *testing.T) {
	f := newCampaignFixture()
	f.tokens.StatusFunc = func(ctx context.Context, userID int64) (*LinkStatus, error) {
		return &LinkStatus{Linked: false}, nil
	}
	f.campaigns.StartFunc = func(ctx context.Context, tx repository.Tx, userID, id int64) error {
		t.Error("Start reached the repo without a linked account")
		return nil
	}

	if err := f.uc.Start(context.Background(), 1, 7); err != domain.ErrHHNotLinked {
		t.Errorf("err = %v, want ErrHHNotLinked", err)
	}

	f.tokens.StatusFunc = func(ctx context.Context, userID int64) (*LinkStatus, error) {
		return &LinkStatus{Linked: true}, nil
	}
	started := false
	f.campaigns.StartFunc = func(ctx context.Context, tx repository.Tx, userID, id int64) error {
		started = true
		return nil
	}
	if err := f.uc.Start(context.Background(), 1, 7); err != nil || !started {
		t.Errorf("linked start: err=%v started=%v", err, started)
	}
}

func TestCampaignTickSkipsUnlinkedUser(t *testing.T) {
	f := newCampaignFixture()
	f.tokens.EnsureFreshAccessFunc = func(ctx context.Context, userID int64) (string, error) {
		return "", domain.ErrHHNotLinked
	}

	n, err := f.uc.AutoTick(context.Background(), testJob())
	if err != nil || n != 0 {
		t.Errorf("n=%d err=%v, want silent skip", n, err)
	}
}

func TestSendNowCapsBatch(t *testing.T) {
	f := newCampaignFixture()
	f.campaigns.JobByIDFunc = func(ctx context.Context, tx repository.Tx, userID, id int64) (*model.CampaignJob, error) {
		return testJob(), nil
	}
	f.campaigns.LockCountersFunc = func(ctx context.Context, tx repository.Tx, id int64, todayMSK time.Time) (*repository.CampaignCounters, error) {
		return &repository.CampaignCounters{DailyLimit: 200}, nil
	}
	f.quota.ViewFunc = func(ctx context.Context, tx repository.Tx, userID int64) (*model.QuotaView, error) {
		return &model.QuotaView{Tariff: model.TariffPaid, Remaining: 200}, nil
	}
	var searchLimit int
	f.hh.SearchVacanciesFunc = func(ctx context.Context, accessToken, canonicalQS string, limit int, dateFrom string) (*adapter.SearchResult, error) {
		searchLimit = limit
		return &adapter.SearchResult{}, nil
	}

	if _, err := f.uc.SendNow(context.Background(), 1, 7, 9999); err != nil {
		t.Fatalf("SendNow: %v", err)
	}
	if searchLimit != 150 {
		t.Errorf("search limit %d, want the 150 cap", searchLimit)
	}
}

func TestCampaignUpsertValidation(t *testing.T) {
	f := newCampaignFixture()
	f.resumes.OwnsFunc = func(ctx context.Context, tx repository.Tx, userID int64, resumeID string) (bool, error) {
		return resumeID == "mine", nil
	}
	var saved *model.Campaign
	f.campaigns.UpsertFunc = func(ctx context.Context, tx repository.Tx, c *model.Campaign) (int64, error) {
		saved = c
		return 1, nil
	}

	_, err := f.uc.Upsert(context.Background(), &model.Campaign{UserID: 1, ResumeID: "foreign", DailyLimit: 50})
	if err != domain.ErrInvalidArgument {
		t.Errorf("foreign resume err = %v, want ErrInvalidArgument", err)
	}

	_, err = f.uc.Upsert(context.Background(), &model.Campaign{UserID: 1, ResumeID: "mine", DailyLimit: 100500})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if saved.DailyLimit != model.HardDailyCap {
		t.Errorf("daily limit %d, want clamp to %d", saved.DailyLimit, model.HardDailyCap)
	}
}
