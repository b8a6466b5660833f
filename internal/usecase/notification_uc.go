// File: internal/usecase/notification_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
	"hh-offerbot/internal/infra/metrics"
)

var _ NotificationUseCase = (*notificationUC)(nil)

// quotaMarker identifies the daily quota message; the once-per-day guard
// searches notification texts for it.
const quotaMarker = "Дневной лимит откликов и автооткликов исчерпан"

const deliverBatchSize = 25

type NotificationUseCase interface {
	// ScheduleSubscriptionReminders produces the D3/D1/EXPIRED reminders.
	// The (subscription_id, kind) marker row is written first, so each
	// reminder is created at most once no matter how often this runs.
	ScheduleSubscriptionReminders(ctx context.Context) (int, error)

	// DeliverPending claims due pending notifications and pushes them to the
	// messenger, fanning out broadcast scopes.
	DeliverPending(ctx context.Context) (int, error)

	// NotifyQuotaExhaustedOnce enqueues the quota message unless one was
	// already produced this MSK day.
	NotifyQuotaExhaustedOnce(ctx context.Context, tx repository.Tx, userID int64, resetLabel, tariff string) error

	// Broadcast enqueues a manual notification for a scope
	// ("user" needs userID, "all", or "segment:<key>").
	Broadcast(ctx context.Context, userID *int64, scope, text string, scheduledAt time.Time) (int64, error)
}

type notificationUC struct {
	notifs    repository.NotificationRepository
	subs      repository.SubscriptionRepository
	users     repository.UserRepository
	txm       repository.TransactionManager
	messenger adapter.Messenger
	clock     clock.Clock
	log       zerolog.Logger
}

func NewNotificationUseCase(
	notifs repository.NotificationRepository,
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	txm repository.TransactionManager,
	messenger adapter.Messenger,
	clk clock.Clock,
	logger *zerolog.Logger,
) *notificationUC {
	return &notificationUC{
		notifs: notifs, subs: subs, users: users, txm: txm,
		messenger: messenger, clock: clk,
		log: logger.With().Str("component", "notification_uc").Logger(),
	}
}

// pluralDaysRu renders "1 день", "2 дня", "5 дней".
func pluralDaysRu(n int) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%10 == 1 && n%100 != 11:
		return fmt.Sprintf("%d день", n)
	case n%10 >= 2 && n%10 <= 4 && !(n%100 >= 12 && n%100 <= 14):
		return fmt.Sprintf("%d дня", n)
	default:
		return fmt.Sprintf("%d дней", n)
	}
}

func ceilDaysLeft(expiresAt, now time.Time) int {
	seconds := expiresAt.Sub(now).Seconds()
	d := int((seconds + 86399) / 86400)
	if d < 0 {
		return 0
	}
	return d
}

func (u *notificationUC) ScheduleSubscriptionReminders(ctx context.Context) (int, error) {
	now := u.clock.Now()
	created := 0

	err := u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		subs, err := u.subs.FindExpiringWithin(ctx, tx, now, 4*24*time.Hour)
		if err != nil {
			return err
		}
		for _, s := range subs {
			if !s.ExpiresAt.After(now) {
				if s.Status == model.SubscriptionStatusActive {
					if err := u.subs.MarkExpired(ctx, tx, s.ID); err != nil {
						return err
					}
				}
				fresh, err := u.notifs.InsertSubscriptionMarker(ctx, tx, s.ID, model.SubNotifyExpired)
				if err != nil {
					return err
				}
				if fresh {
					body := "⚠️ Подписка закончилась.\n" +
						"Ваш лимит откликов: 10 в сутки\n" +
						"Верните 200 откликов в сутки → /payment"
					if _, err := u.notifs.Enqueue(ctx, tx, &s.UserID, model.NotificationScopeUser, body, now); err != nil {
						return err
					}
					metrics.IncReminderScheduled("expired")
					created++
				}
				continue
			}

			daysLeft := ceilDaysLeft(s.ExpiresAt, now)
			var kind model.SubscriptionNotificationKind
			switch daysLeft {
			case 3:
				kind = model.SubNotifyD3
			case 1:
				kind = model.SubNotifyD1
			default:
				continue
			}
			fresh, err := u.notifs.InsertSubscriptionMarker(ctx, tx, s.ID, kind)
			if err != nil {
				return err
			}
			if !fresh {
				continue
			}
			body := fmt.Sprintf("⚠️ Подписка заканчивается через %s.\n", pluralDaysRu(daysLeft)) +
				"Чтобы не потерять лимит 200 откликов в сутки — продлите сейчас → /payment"
			if _, err := u.notifs.Enqueue(ctx, tx, &s.UserID, model.NotificationScopeUser, body, now); err != nil {
				return err
			}
			metrics.IncReminderScheduled(strings.ToLower(string(kind)))
			created++
		}
		return nil
	})
	return created, err
}

// needsPaymentKeyboard guesses from the text whether to attach the payment
// buttons; mirrors the composing side which always mentions /payment.
func needsPaymentKeyboard(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "/payment") || strings.Contains(t, "оплат")
}

func (u *notificationUC) DeliverPending(ctx context.Context) (int, error) {
	now := u.clock.Now()

	// The claim statement leases the rows, so no transaction is held open
	// across the messenger sends below.
	rows, err := u.notifs.ClaimPendingDue(ctx, nil, now, deliverBatchSize)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, n := range rows {
		if ctx.Err() != nil {
			break
		}
		if err := u.deliverOne(ctx, n); err != nil {
			u.log.Warn().Err(err).Int64("notification_id", n.ID).Msg("delivery failed")
			if merr := u.notifs.MarkFailed(ctx, nil, n.ID, truncate(err.Error(), 1000)); merr != nil {
				return sent, merr
			}
			metrics.IncNotificationResult("failed")
			continue
		}
		if err := u.notifs.MarkSent(ctx, nil, n.ID); err != nil {
			return sent, err
		}
		metrics.IncNotificationResult("sent")
		sent++
	}
	return sent, nil
}

func (u *notificationUC) deliverOne(ctx context.Context, n *model.Notification) error {
	switch {
	case n.Scope == model.NotificationScopeUser:
		if n.UserID == nil {
			return fmt.Errorf("user-scoped notification %d has no user", n.ID)
		}
		tgID, err := u.users.TgIDByUserID(ctx, nil, *n.UserID)
		if err != nil {
			return fmt.Errorf("resolve tg id: %w", err)
		}
		return u.messenger.SendMessage(ctx, tgID, n.Text, needsPaymentKeyboard(n.Text))

	case n.Scope == model.NotificationScopeAll:
		ids, err := u.users.AllTgIDs(ctx, nil)
		if err != nil {
			return err
		}
		return u.fanOut(ctx, ids, n.Text)

	case strings.HasPrefix(n.Scope, model.NotificationScopeSegmentPrefix):
		key := strings.TrimPrefix(n.Scope, model.NotificationScopeSegmentPrefix)
		ids, err := u.notifs.SegmentTgIDs(ctx, nil, key)
		if err != nil {
			return err
		}
		return u.fanOut(ctx, ids, n.Text)
	}
	return fmt.Errorf("unknown scope %q", n.Scope)
}

func (u *notificationUC) fanOut(ctx context.Context, tgIDs []int64, text string) error {
	for _, id := range tgIDs {
		if err := u.messenger.SendMessage(ctx, id, text, false); err != nil {
			// Keep going: one blocked bot must not fail the broadcast.
			u.log.Warn().Err(err).Int64("tg_id", id).Msg("broadcast send failed")
		}
	}
	return nil
}

func (u *notificationUC) NotifyQuotaExhaustedOnce(ctx context.Context, tx repository.Tx, userID int64, resetLabel, tariff string) error {
	now := u.clock.Now()
	dayStart, _ := clock.DayBounds(now)
	exists, err := u.notifs.ExistsSince(ctx, tx, userID, quotaMarker, dayStart)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	var body string
	if tariff == model.TariffFree {
		body = fmt.Sprintf("⏳ %s.\nЛимит обновится в %s (МСК).\n\n", quotaMarker, resetLabel) +
			"Увеличьте лимит до 200 откликов в день. Подписка → /payment"
	} else {
		body = fmt.Sprintf("⏳ %s.\nЛимит обновится в %s (МСК).", quotaMarker, resetLabel)
	}
	_, err = u.notifs.Enqueue(ctx, tx, &userID, model.NotificationScopeUser, body, now)
	if err == nil {
		metrics.IncQuotaBlock(tariff)
	}
	return err
}

func (u *notificationUC) Broadcast(ctx context.Context, userID *int64, scope, text string, scheduledAt time.Time) (int64, error) {
	if scheduledAt.IsZero() {
		scheduledAt = u.clock.Now()
	}
	return u.notifs.Enqueue(ctx, nil, userID, scope, text, scheduledAt)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence;
// Postgres rejects text columns holding invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
