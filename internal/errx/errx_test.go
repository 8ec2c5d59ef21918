package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestWrapRedis(t *testing.T) {
	assert.NoError(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	status, msg := StatusOf(err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, RedisNotFoundMessage, msg)
	assert.ErrorIs(t, err, redis.Nil)

	err = WrapRedis(errors.New("connection refused"))
	status, _ = StatusOf(err)
	assert.Equal(t, http.StatusBadGateway, status)

	busy := New(errors.New("busy"), http.StatusConflict, "session busy, retry")
	status, _ = StatusOf(WrapRedis(busy))
	assert.Equal(t, http.StatusConflict, status)
}

func TestStatusOf_Wrapped(t *testing.T) {
	inner := New(nil, http.StatusConflict, "conflict")
	status, msg := StatusOf(fmt.Errorf("save cart: %w", inner))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", msg)

	status, msg = StatusOf(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, SystemErrorMessage, msg)
}
