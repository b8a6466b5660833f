// File: internal/usecase/referral_uc.go
package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/metrics"
)

var _ ReferralUseCase = (*referralUC)(nil)

const refCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const refCodeLen = 8

type ReferralUseCase interface {
	// EnsureRefCode returns the user's referral code, generating one on
	// first call.
	EnsureRefCode(ctx context.Context, userID int64) (string, error)

	// Track stores the code a new visitor arrived with; attachment happens
	// later, when the HH account gets linked.
	Track(ctx context.Context, userID int64, code string) error

	// AttachOnLink consumes the pending code: sets referred_by and
	// materializes the three upline edges. Self-referrals are rejected,
	// repeat calls are no-ops.
	AttachOnLink(ctx context.Context, tx repository.Tx, userID int64) error

	Stats(ctx context.Context, userID int64) (*model.ReferralStats, error)

	// Payout accrues percentage bonuses for up to three uplines of the payer.
	Payout(ctx context.Context, tx repository.Tx, payerID int64, tariff *model.Tariff, amountCents int64) error
}

type referralUC struct {
	users repository.UserRepository
	refs  repository.ReferralRepository
	log   zerolog.Logger
}

func NewReferralUseCase(users repository.UserRepository, refs repository.ReferralRepository, logger *zerolog.Logger) *referralUC {
	return &referralUC{
		users: users,
		refs:  refs,
		log:   logger.With().Str("component", "referral_uc").Logger(),
	}
}

func generateRefCode() (string, error) {
	b := make([]byte, refCodeLen)
	max := big.NewInt(int64(len(refCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = refCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (u *referralUC) EnsureRefCode(ctx context.Context, userID int64) (string, error) {
	usr, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if usr.RefCode != nil {
		return *usr.RefCode, nil
	}
	// Collisions on 36^8 are rare; retry a few times anyway.
	for i := 0; i < 5; i++ {
		code, err := generateRefCode()
		if err != nil {
			return "", err
		}
		err = u.users.SetRefCode(ctx, nil, userID, code)
		if err == nil {
			return code, nil
		}
		if err != domain.ErrConflict {
			return "", err
		}
	}
	return "", domain.ErrOperationFailed
}

func (u *referralUC) Track(ctx context.Context, userID int64, code string) error {
	if code == "" {
		return domain.ErrInvalidArgument
	}
	return u.users.SetPendingRef(ctx, nil, userID, code)
}

func (u *referralUC) AttachOnLink(ctx context.Context, tx repository.Tx, userID int64) error {
	usr, err := u.users.FindByID(ctx, tx, userID)
	if err != nil {
		return err
	}
	if usr.Ref == nil || *usr.Ref == "" || usr.ReferredBy != nil {
		return nil
	}
	parent, err := u.users.FindByRefCode(ctx, tx, *usr.Ref)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil // dangling code, nothing to attach
		}
		return err
	}
	if parent.ID == userID {
		return nil
	}

	changed, err := u.users.SetReferredBy(ctx, tx, userID, parent.ID)
	if err != nil || !changed {
		return err
	}
	if err := u.refs.InsertEdge(ctx, tx, userID, parent.ID, 1); err != nil {
		return err
	}
	// Materialize levels 2 and 3 from the parent's own uplines.
	uplines, err := u.refs.Uplines(ctx, tx, parent.ID)
	if err != nil {
		return err
	}
	for lvl := 1; lvl <= 2; lvl++ {
		ancestor, ok := uplines[lvl]
		if !ok || ancestor == userID {
			continue
		}
		if err := u.refs.InsertEdge(ctx, tx, userID, ancestor, lvl+1); err != nil {
			return err
		}
	}
	u.log.Info().Int64("user_id", userID).Int64("parent_id", parent.ID).Msg("referral attached")
	return nil
}

func (u *referralUC) Stats(ctx context.Context, userID int64) (*model.ReferralStats, error) {
	return u.refs.Stats(ctx, nil, userID)
}

func (u *referralUC) Payout(ctx context.Context, tx repository.Tx, payerID int64, tariff *model.Tariff, amountCents int64) error {
	uplines, err := u.refs.Uplines(ctx, tx, payerID)
	if err != nil {
		return err
	}
	percents := map[int]float64{
		1: tariff.RefPercentL1,
		2: tariff.RefPercentL2,
		3: tariff.RefPercentL3,
	}
	for lvl := 1; lvl <= 3; lvl++ {
		ancestor, ok := uplines[lvl]
		if !ok {
			continue
		}
		bonus := int64(float64(amountCents) * percents[lvl] / 100)
		if bonus <= 0 {
			continue
		}
		desc := fmt.Sprintf("referral L%d bonus for payment by user %d", lvl, payerID)
		if err := u.refs.AddBonus(ctx, tx, ancestor, bonus, desc); err != nil {
			return err
		}
		metrics.IncReferralBonus(fmt.Sprintf("l%d", lvl))
	}
	return nil
}
