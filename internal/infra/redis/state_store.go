// File: internal/infra/redis/state_store.go
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"hh-offerbot/internal/domain"
)

// StateStore keeps OAuth state nonces between the login redirect and the
// provider callback. A state is single-use and expires on its own.
type StateStore struct {
	cli *Client
	ttl time.Duration
}

func NewStateStore(cli *Client) *StateStore {
	return &StateStore{cli: cli, ttl: 10 * time.Minute}
}

func stateKey(state string) string { return "oauth:state:" + state }

func (s *StateStore) Put(ctx context.Context, state string, userID int64) error {
	return s.cli.Set(ctx, stateKey(state), strconv.FormatInt(userID, 10), s.ttl)
}

// Consume resolves the state to its user and deletes it in the same call.
func (s *StateStore) Consume(ctx context.Context, state string) (int64, error) {
	key := stateKey(state)
	v, err := s.cli.Get(ctx, key)
	if err == redis.Nil {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if err := s.cli.Del(ctx, key); err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt oauth state value %q: %w", v, err)
	}
	return userID, nil
}
