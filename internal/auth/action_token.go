package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"notedo/internal/cache"
)

// Action token purposes.
const (
	PurposeActivate      = "activate"
	PurposePasswordReset = "password_reset"
)

// ErrInvalidActionToken is returned when a one-shot token is unknown, expired,
// already consumed, or bound to a different user.
var ErrInvalidActionToken = errors.New("invalid or expired token")

// ActionTokenStoreInterface issues and consumes one-shot tokens for account
// actions delivered by email (activation, password reset).
type ActionTokenStoreInterface interface {
	Issue(ctx context.Context, purpose string, userID uint, ttl time.Duration) (string, error)
	Consume(ctx context.Context, purpose, token string, userID uint) error
}

// ActionTokenStore keeps one-shot tokens in Redis, keyed by purpose and token
// value. Consuming a token deletes it, so a link works exactly once.
type ActionTokenStore struct {
	cache *cache.Client
}

var _ ActionTokenStoreInterface = (*ActionTokenStore)(nil)

// NewActionTokenStore creates a new action token store.
func NewActionTokenStore(cache *cache.Client) *ActionTokenStore {
	return &ActionTokenStore{cache: cache}
}

func actionKey(purpose, token string) string {
	return "action:" + purpose + ":" + token
}

// Issue creates a token bound to the user, valid for ttl.
func (s *ActionTokenStore) Issue(ctx context.Context, purpose string, userID uint, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	if err := s.cache.Set(ctx, actionKey(purpose, token), []byte(strconv.FormatUint(uint64(userID), 10)), ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Consume validates the token against the claimed user and removes it.
func (s *ActionTokenStore) Consume(ctx context.Context, purpose, token string, userID uint) error {
	data, err := s.cache.GetDel(ctx, actionKey(purpose, token))
	if err != nil || data == nil {
		return ErrInvalidActionToken
	}
	stored, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil || uint(stored) != userID {
		return ErrInvalidActionToken
	}
	return nil
}
