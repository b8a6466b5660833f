// File: internal/usecase/token_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hh-offerbot/internal/domain"
	"hh-offerbot/internal/domain/model"
	"hh-offerbot/internal/domain/ports/adapter"
	"hh-offerbot/internal/domain/ports/repository"
	"hh-offerbot/internal/infra/clock"
	"hh-offerbot/internal/infra/metrics"
	"hh-offerbot/internal/infra/redis"
)

var _ TokenUseCase = (*tokenUC)(nil)

// freshSkew is how long before expiry an access token is treated as stale.
const freshSkew = 60 * time.Second

const refreshLockTTL = 30 * time.Second

const welcomeLinkedText = "✅ Аккаунт hh.ru привязан!\n\nСинхронизируйте резюме и запускайте автоотклики в боте."

// OAuthFlow is the subset of the HH client the OAuth handshake needs, plus
// the user-facing entry link.
type OAuthFlow interface {
	adapter.HHClient
	AuthorizeURL(state string) string
}

// OAuthStateStore keeps single-use OAuth states between redirect and
// callback.
type OAuthStateStore interface {
	Put(ctx context.Context, state string, userID int64) error
	Consume(ctx context.Context, state string) (int64, error)
}

type LinkStatus struct {
	Linked      bool
	AccountID   string
	AccountName string
	ExpiresAt   *time.Time
}

type TokenUseCase interface {
	// LoginURL issues a single-use state and returns the provider authorize
	// link for the user.
	LoginURL(ctx context.Context, userID int64) (string, error)

	// HandleCallback exchanges the code, stores the token pair and runs the
	// best-effort link side effects: HH identity, résumé sync, referral
	// attachment. Side-effect failures do not fail the link.
	HandleCallback(ctx context.Context, state, code string) (int64, error)

	// EnsureFreshAccess returns a usable access token, refreshing it under a
	// per-user lock when it is within the expiry skew.
	EnsureFreshAccess(ctx context.Context, userID int64) (string, error)

	// ForceRefresh refreshes regardless of freshness; used after a 401.
	ForceRefresh(ctx context.Context, userID int64) (string, error)

	Status(ctx context.Context, userID int64) (*LinkStatus, error)
	Unlink(ctx context.Context, userID int64) error

	SyncResumes(ctx context.Context, userID int64) ([]*model.Resume, error)

	// Resumes returns the stored résumé list without calling HH.
	Resumes(ctx context.Context, userID int64) ([]*model.Resume, error)
}

type tokenUC struct {
	hh        OAuthFlow
	tokens    repository.TokenRepository
	users     repository.UserRepository
	resumes   repository.ResumeRepository
	refs      ReferralUseCase
	messenger adapter.Messenger
	states    OAuthStateStore
	locker    redis.Locker
	txm       repository.TransactionManager
	clock     clock.Clock
	log       zerolog.Logger
}

func NewTokenUseCase(
	hh OAuthFlow,
	tokens repository.TokenRepository,
	users repository.UserRepository,
	resumes repository.ResumeRepository,
	refs ReferralUseCase,
	messenger adapter.Messenger,
	states OAuthStateStore,
	locker redis.Locker,
	txm repository.TransactionManager,
	clk clock.Clock,
	logger *zerolog.Logger,
) *tokenUC {
	return &tokenUC{
		hh: hh, tokens: tokens, users: users, resumes: resumes, refs: refs,
		messenger: messenger, states: states, locker: locker, txm: txm, clock: clk,
		log: logger.With().Str("component", "token_uc").Logger(),
	}
}

func (u *tokenUC) LoginURL(ctx context.Context, userID int64) (string, error) {
	usr, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	state := fmt.Sprintf("tg:%d:%s", usr.TgID, uuid.NewString())
	if err := u.states.Put(ctx, state, userID); err != nil {
		return "", err
	}
	return u.hh.AuthorizeURL(state), nil
}

func (u *tokenUC) HandleCallback(ctx context.Context, state, code string) (int64, error) {
	userID, err := u.states.Consume(ctx, state)
	if err != nil {
		if err == domain.ErrNotFound {
			return 0, domain.ErrInvalidArgument
		}
		return 0, err
	}
	pair, err := u.hh.ExchangeCode(ctx, code)
	if err != nil {
		return 0, err
	}
	if err := u.storePair(ctx, userID, pair); err != nil {
		return 0, err
	}

	// Side effects are best-effort: the link itself already succeeded.
	if me, err := u.hh.GetMe(ctx, pair.AccessToken); err == nil {
		name := fmt.Sprintf("%s %s", me.FirstName, me.LastName)
		if err := u.users.SetHHIdentity(ctx, nil, userID, me.ID, name); err != nil {
			u.log.Warn().Err(err).Int64("user_id", userID).Msg("set hh identity failed")
		}
	} else {
		u.log.Warn().Err(err).Int64("user_id", userID).Msg("hh /me failed after link")
	}

	if _, err := u.SyncResumes(ctx, userID); err != nil {
		u.log.Warn().Err(err).Int64("user_id", userID).Msg("resume sync failed after link")
	}

	err = u.txm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return u.refs.AttachOnLink(ctx, tx, userID)
	})
	if err != nil {
		u.log.Warn().Err(err).Int64("user_id", userID).Msg("referral attach failed after link")
	}

	if usr, err := u.users.FindByID(ctx, nil, userID); err == nil {
		if err := u.messenger.SendMessage(ctx, usr.TgID, welcomeLinkedText, false); err != nil {
			u.log.Warn().Err(err).Int64("user_id", userID).Msg("welcome message failed")
		}
	}
	return userID, nil
}

func (u *tokenUC) storePair(ctx context.Context, userID int64, pair *adapter.TokenPair) error {
	now := u.clock.Now()
	return u.tokens.Upsert(ctx, nil, &model.HHToken{
		UserID:       userID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresAt:    now.Add(time.Duration(pair.ExpiresIn) * time.Second),
		UpdatedAt:    now,
	})
}

func (u *tokenUC) EnsureFreshAccess(ctx context.Context, userID int64) (string, error) {
	tok, err := u.tokens.FindByUserID(ctx, nil, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return "", domain.ErrHHNotLinked
		}
		return "", err
	}
	if tok == nil {
		return "", domain.ErrHHNotLinked
	}
	if tok.FreshWithin(u.clock.Now(), freshSkew) {
		return tok.AccessToken, nil
	}
	return u.refreshLocked(ctx, userID)
}

func (u *tokenUC) ForceRefresh(ctx context.Context, userID int64) (string, error) {
	return u.refreshLocked(ctx, userID)
}

// refreshLocked serializes refresh per user: the loser of the lock race
// re-reads and usually finds a fresh token already stored by the winner.
func (u *tokenUC) refreshLocked(ctx context.Context, userID int64) (string, error) {
	key := fmt.Sprintf("hh:refresh:%d", userID)
	lockToken, err := u.locker.TryLock(ctx, key, refreshLockTTL)
	if err != nil {
		metrics.IncTokenRefresh("locked")
		return "", err
	}
	defer func() { _ = u.locker.Unlock(ctx, key, lockToken) }()

	tok, err := u.tokens.FindByUserID(ctx, nil, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return "", domain.ErrHHNotLinked
		}
		return "", err
	}
	if tok == nil {
		return "", domain.ErrHHNotLinked
	}
	if tok.FreshWithin(u.clock.Now(), freshSkew) {
		return tok.AccessToken, nil
	}

	pair, err := u.hh.RefreshToken(ctx, tok.RefreshToken)
	if err != nil {
		metrics.IncTokenRefresh("failed")
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = tok.RefreshToken
	}
	if err := u.storePair(ctx, userID, pair); err != nil {
		return "", err
	}
	metrics.IncTokenRefresh("ok")
	return pair.AccessToken, nil
}

func (u *tokenUC) Status(ctx context.Context, userID int64) (*LinkStatus, error) {
	st := &LinkStatus{}
	tok, err := u.tokens.FindByUserID(ctx, nil, userID)
	if err != nil {
		if err == domain.ErrNotFound {
			return st, nil
		}
		return nil, err
	}
	if tok == nil {
		return st, nil
	}
	st.Linked = true
	st.ExpiresAt = &tok.ExpiresAt

	usr, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if usr.HHAccountID != nil {
		st.AccountID = *usr.HHAccountID
	}
	if usr.HHAccountName != nil {
		st.AccountName = *usr.HHAccountName
	}
	return st, nil
}

func (u *tokenUC) Unlink(ctx context.Context, userID int64) error {
	if err := u.tokens.Delete(ctx, nil, userID); err != nil {
		return err
	}
	return u.users.ClearHHIdentity(ctx, nil, userID)
}

func (u *tokenUC) SyncResumes(ctx context.Context, userID int64) ([]*model.Resume, error) {
	access, err := u.EnsureFreshAccess(ctx, userID)
	if err != nil {
		return nil, err
	}
	infos, err := u.hh.GetResumes(ctx, access)
	if err != nil {
		return nil, err
	}
	items := make([]model.Resume, 0, len(infos))
	for _, ri := range infos {
		items = append(items, model.Resume{
			UserID:    userID,
			ResumeID:  ri.ID,
			Title:     ri.Title,
			Area:      ri.Area,
			Visible:   ri.Visible,
			UpdatedAt: ri.UpdatedAt,
		})
	}
	if len(items) > 0 {
		if err := u.resumes.UpsertBatch(ctx, nil, userID, items); err != nil {
			return nil, err
		}
	}
	return u.resumes.ListByUser(ctx, nil, userID)
}

func (u *tokenUC) Resumes(ctx context.Context, userID int64) ([]*model.Resume, error) {
	return u.resumes.ListByUser(ctx, nil, userID)
}
