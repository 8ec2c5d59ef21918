package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront-crm/internal/errx"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found or expired")

// RefreshStore maps opaque refresh tokens to usernames.
type RefreshStore interface {
	Save(ctx context.Context, token, username string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

func NewRefreshToken() string {
	return uuid.NewString()
}

// Rotate replaces oldToken with a fresh one for the same user.
func Rotate(ctx context.Context, store RefreshStore, oldToken string, ttl time.Duration) (string, string, error) {
	username, err := store.Lookup(ctx, oldToken)
	if err != nil {
		return "", "", err
	}
	if err := store.Delete(ctx, oldToken); err != nil {
		return "", "", err
	}
	next := NewRefreshToken()
	if err := store.Save(ctx, next, username, ttl); err != nil {
		return "", "", err
	}
	return username, next, nil
}

type refreshEntry struct {
	username  string
	expiresAt time.Time
}

type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
	now    func() time.Time
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: map[string]refreshEntry{}, now: time.Now}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = refreshEntry{username: username, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok || !s.now().Before(e.expiresAt) {
		return "", ErrRefreshTokenNotFound
	}
	return e.username, nil
}

func (s *MemoryRefreshStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// Purge drops expired tokens and returns how many were removed.
func (s *MemoryRefreshStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	now := s.now()
	for token, e := range s.tokens {
		if !now.Before(e.expiresAt) {
			delete(s.tokens, token)
			n++
		}
	}
	return n
}

// StartRefreshTokenCleaner purges expired tokens every interval until ctx is done.
func StartRefreshTokenCleaner(ctx context.Context, s *MemoryRefreshStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Purge(); n > 0 {
				logx.Debug().Int("removed", n).Msg("purged expired refresh tokens")
			}
		}
	}
}

const refreshKeyPrefix = "storefront:refresh:"

// RedisRefreshStore relies on key expiry, so it needs no cleaner.
type RedisRefreshStore struct {
	rdb *redis.Client
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb}
}

func (s *RedisRefreshStore) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	return errx.WrapRedis(s.rdb.Set(ctx, refreshKeyPrefix+token, username, ttl).Err())
}

func (s *RedisRefreshStore) Lookup(ctx context.Context, token string) (string, error) {
	username, err := s.rdb.Get(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	return username, errx.WrapRedis(err)
}

func (s *RedisRefreshStore) Delete(ctx context.Context, token string) error {
	return errx.WrapRedis(s.rdb.Del(ctx, refreshKeyPrefix+token).Err())
}
