package redissvc

import (
	"context"
	"testing"

	"github.com/rogerio-castellano/storefront-crm/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	assert.ErrorContains(t, err, "invalid redis url")
}
