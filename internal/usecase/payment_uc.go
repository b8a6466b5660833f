// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
	"hh-offerbot/internal/infra/metrics"
)

var _ PaymentUseCase = (*paymentUC)(nil)

const providerCloudPayments = "cloudpayments"

// PaidEvent is the parsed, signature-checked payload of a provider "pay"
// callback.
type PaidEvent struct {
	TransactionID string
	TgID          int64
	PlanCode      string
	AmountCents   int64
	Raw           []byte
}

type FailedEvent struct {
	TransactionID string
	AmountCents   int64
	Raw           []byte
}

type PaymentUseCase interface {
	// VerifySignature checks the provider HMAC over the raw body.
	VerifySignature(raw []byte, headerB64 string) bool

	// HandlePaid records the payment, extends the subscription and accrues
	// referral bonuses. Idempotent on the provider transaction id: repeats
	// and out-of-order retries do nothing.
	HandlePaid(ctx context.Context, ev PaidEvent) error

	HandleFailed(ctx context.Context, ev FailedEvent) error
}

type paymentUC struct {
	payments  repository.PaymentRepository
	subs      repository.SubscriptionRepository
	tariffs   repository.TariffRepository
	users     repository.UserRepository
	refs      ReferralUseCase
	txm       repository.TransactionManager
	clock     clock.Clock
	apiSecret string
	log       zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	tariffs repository.TariffRepository,
	users repository.UserRepository,
	refs ReferralUseCase,
	txm repository.TransactionManager,
	clk clock.Clock,
	apiSecret string,
	logger *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		payments: payments, subs: subs, tariffs: tariffs, users: users,
		refs: refs, txm: txm, clock: clk, apiSecret: apiSecret,
		log: logger.With().Str("component", "payment_uc").Logger(),
	}
}

func (u *paymentUC) VerifySignature(raw []byte, headerB64 string) bool {
	if headerB64 == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(u.apiSecret))
	mac.Write(raw)
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(want), []byte(headerB64)) == 1
}

func (u *paymentUC) HandlePaid(ctx context.Context, ev PaidEvent) error {
	if ev.TgID == 0 || ev.TransactionID == "" {
		u.log.Warn().Int64("tg_id", ev.TgID).Str("txn", ev.TransactionID).Msg("pay callback missing ids")
		return nil // provider expects acceptance; nothing to act on
	}
	planCode := ev.PlanCode
	if planCode == "" {
		planCode = "premium_month"
	}

	return u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByTgID(ctx, tx, ev.TgID)
		if err != nil {
			if err == domain.ErrNotFound {
				u.log.Warn().Int64("tg_id", ev.TgID).Msg("pay callback for unknown user")
				return nil
			}
			return err
		}
		tariff, err := u.tariffs.FindByCode(ctx, tx, planCode)
		if err != nil {
			if err == domain.ErrNotFound {
				u.log.Warn().Str("plan", planCode).Msg("pay callback for unknown tariff")
				return nil
			}
			return err
		}

		amount := ev.AmountCents
		if amount == 0 {
			amount = tariff.PriceCents
		}
		firstPaid, err := u.payments.UpsertPaid(ctx, tx,
			providerCloudPayments, ev.TransactionID,
			usr.ID, tariff.ID, amount, fmt.Sprintf("CP %s", planCode), ev.Raw)
		if err != nil {
			return err
		}
		if !firstPaid {
			metrics.IncPayment("duplicate")
			return nil
		}

		now := u.clock.Now()
		if err := u.subs.ExtendOrCreate(ctx, tx, usr.ID, tariff.ID, tariff.PeriodDays, now, providerCloudPayments); err != nil {
			return err
		}
		if err := u.refs.Payout(ctx, tx, usr.ID, tariff, tariff.PriceCents); err != nil {
			// Bonus accrual must not undo a recorded payment.
			u.log.Error().Err(err).Int64("user_id", usr.ID).Msg("referral payout failed")
		}
		metrics.IncPayment("paid")
		u.log.Info().
			Int64("user_id", usr.ID).
			Str("plan", planCode).
			Int64("amount_cents", amount).
			Msg("payment applied")
		return nil
	})
}

func (u *paymentUC) HandleFailed(ctx context.Context, ev FailedEvent) error {
	if ev.TransactionID == "" {
		return nil
	}
	metrics.IncPayment("failed")
	return u.payments.UpsertFailed(ctx, nil, providerCloudPayments, ev.TransactionID, ev.AmountCents, ev.Raw)
}
