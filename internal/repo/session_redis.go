package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront-crm/internal/cart"
	"github.com/rogerio-castellano/storefront-crm/internal/errx"
)

const (
	cartKeyPrefix     = "storefront:cart:"
	wishlistKeyPrefix = "storefront:wishlist:"

	sessionTxRetries = 10
)

var ErrSessionBusy = errors.New("session is being updated concurrently")

// RedisSessionStore serialises carts and wishlists as JSON strings that
// expire after ttl of inactivity.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisSessionStore) load(ctx context.Context, key string, v any) error {
	return readJSON(ctx, s.rdb, key, v)
}

func readJSON(ctx context.Context, g stringGetter, key string, v any) error {
	data, err := g.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return errx.WrapRedis(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return errx.WrapRedis(s.rdb.Set(ctx, key, data, s.ttl).Err())
}

func (s *RedisSessionStore) GetCart(ctx context.Context, sessionID string) (cart.Cart, error) {
	var c cart.Cart
	err := s.load(ctx, cartKeyPrefix+sessionID, &c)
	return c, err
}

func (s *RedisSessionStore) SaveCart(ctx context.Context, sessionID string, c cart.Cart) error {
	return s.save(ctx, cartKeyPrefix+sessionID, c)
}

func (s *RedisSessionStore) GetWishlist(ctx context.Context, sessionID string) (cart.Wishlist, error) {
	var w cart.Wishlist
	err := s.load(ctx, wishlistKeyPrefix+sessionID, &w)
	return w, err
}

func (s *RedisSessionStore) SaveWishlist(ctx context.Context, sessionID string, w cart.Wishlist) error {
	return s.save(ctx, wishlistKeyPrefix+sessionID, w)
}

// watch runs apply inside a WATCH on keys and writes the values it returns in
// one MULTI/EXEC. A concurrent write to any watched key restarts apply.
func (s *RedisSessionStore) watch(ctx context.Context, apply func(tx *redis.Tx) (map[string]any, error), keys ...string) error {
	txf := func(tx *redis.Tx) error {
		writes, err := apply(tx)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for key, v := range writes {
				data, err := json.Marshal(v)
				if err != nil {
					return err
				}
				pipe.Set(ctx, key, data, s.ttl)
			}
			return nil
		})
		return err
	}

	for range sessionTxRetries {
		err := s.rdb.Watch(ctx, txf, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return errx.New(ErrSessionBusy, http.StatusConflict, "session busy, retry")
}

func (s *RedisSessionStore) UpdateCart(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (cart.Cart, error) {
	key := cartKeyPrefix + sessionID
	var c cart.Cart
	var fnErr error
	err := s.watch(ctx, func(tx *redis.Tx) (map[string]any, error) {
		c = cart.Cart{}
		if err := readJSON(ctx, tx, key, &c); err != nil {
			return nil, err
		}
		if fnErr = fn(&c); fnErr != nil {
			return nil, fnErr
		}
		return map[string]any{key: c}, nil
	}, key)
	if fnErr != nil {
		return cart.Cart{}, fnErr
	}
	if err != nil {
		return cart.Cart{}, errx.WrapRedis(err)
	}
	return c, nil
}

func (s *RedisSessionStore) UpdateWishlist(ctx context.Context, sessionID string, fn func(w *cart.Wishlist) error) (cart.Wishlist, error) {
	key := wishlistKeyPrefix + sessionID
	var w cart.Wishlist
	var fnErr error
	err := s.watch(ctx, func(tx *redis.Tx) (map[string]any, error) {
		w = cart.Wishlist{}
		if err := readJSON(ctx, tx, key, &w); err != nil {
			return nil, err
		}
		if fnErr = fn(&w); fnErr != nil {
			return nil, fnErr
		}
		return map[string]any{key: w}, nil
	}, key)
	if fnErr != nil {
		return cart.Wishlist{}, fnErr
	}
	if err != nil {
		return cart.Wishlist{}, errx.WrapRedis(err)
	}
	return w, nil
}

func (s *RedisSessionStore) UpdateSession(ctx context.Context, sessionID string, fn func(c *cart.Cart, w *cart.Wishlist) error) (cart.Cart, cart.Wishlist, error) {
	cartKey, wishlistKey := cartKeyPrefix+sessionID, wishlistKeyPrefix+sessionID
	var c cart.Cart
	var w cart.Wishlist
	var fnErr error
	err := s.watch(ctx, func(tx *redis.Tx) (map[string]any, error) {
		c, w = cart.Cart{}, cart.Wishlist{}
		if err := readJSON(ctx, tx, cartKey, &c); err != nil {
			return nil, err
		}
		if err := readJSON(ctx, tx, wishlistKey, &w); err != nil {
			return nil, err
		}
		if fnErr = fn(&c, &w); fnErr != nil {
			return nil, fnErr
		}
		return map[string]any{cartKey: c, wishlistKey: w}, nil
	}, cartKey, wishlistKey)
	if fnErr != nil {
		return cart.Cart{}, cart.Wishlist{}, fnErr
	}
	if err != nil {
		return cart.Cart{}, cart.Wishlist{}, errx.WrapRedis(err)
	}
	return c, w, nil
}
