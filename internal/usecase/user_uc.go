// File: internal/usecase/user_uc.go
package usecase

import (
	"context"

	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/repository"
)

var _ UserUseCase = (*userUC)(nil)

// UserProfile is the aggregate the profile endpoint returns.
type UserProfile struct {
	User      *model.User
	HHLinked  bool
	Quota     *model.QuotaView
	PaidUntil *model.Subscription
}

// UserStats is the compact numbers block for the bot's cabinet screen.
type UserStats struct {
	ApplicationsTotal int
	ApplicationsToday int
	Referrals         *model.ReferralStats
}

type UserUseCase interface {
	// Seen registers first contact or refreshes last_seen, and remembers the
	// referral code and UTM tags the user arrived with (first write wins).
	Seen(ctx context.Context, upd repository.SeenUpdate) (int64, error)

	Profile(ctx context.Context, userID int64) (*UserProfile, error)
	Stats(ctx context.Context, userID int64) (*UserStats, error)

	ResolveByTgID(ctx context.Context, tgID int64) (*model.User, error)
}

type userUC struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	apps   repository.ApplicationRepository
	subs   repository.SubscriptionRepository
	refs   ReferralUseCase
	quota  QuotaUseCase
}

func NewUserUseCase(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	apps repository.ApplicationRepository,
	subs repository.SubscriptionRepository,
	refs ReferralUseCase,
	quota QuotaUseCase,
) *userUC {
	return &userUC{users: users, tokens: tokens, apps: apps, subs: subs, refs: refs, quota: quota}
}

func (u *userUC) Seen(ctx context.Context, upd repository.SeenUpdate) (int64, error) {
	id, err := u.users.UpsertSeen(ctx, nil, upd)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (u *userUC) ResolveByTgID(ctx context.Context, tgID int64) (*model.User, error) {
	return u.users.FindByTgID(ctx, nil, tgID)
}

func (u *userUC) Profile(ctx context.Context, userID int64) (*UserProfile, error) {
	usr, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	qv, err := u.quota.View(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	p := &UserProfile{User: usr, Quota: qv}

	if _, err := u.tokens.FindByUserID(ctx, nil, userID); err == nil {
		p.HHLinked = true
	}
	if sub, err := u.subs.CurrentForUser(ctx, nil, userID); err == nil {
		p.PaidUntil = sub
	}
	return p, nil
}

func (u *userUC) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	qv, err := u.quota.View(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	refStats, err := u.refs.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := u.apps.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		ApplicationsTotal: total,
		ApplicationsToday: qv.UsedToday,
		Referrals:         refStats,
	}, nil
}
