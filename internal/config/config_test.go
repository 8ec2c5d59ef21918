package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 30, cfg.Catalog.SeedLimit)
	assert.Equal(t, Development, cfg.Env())
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "http:\n  addr: \":9000\"\ncatalog:\n  url: https://catalog.example\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	t.Setenv("STOREFRONT_HTTP_ADDR", ":9100")
	t.Setenv("STOREFRONT_AUTH_ACCESS_TTL", "5m")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTP.Addr)
	assert.Equal(t, "https://catalog.example", cfg.Catalog.URL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STOREFRONT_ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("PRODUCTION"))
	assert.Equal(t, Testing, ParseEnvironment("testing"))
	assert.Equal(t, Development, ParseEnvironment("staging"))
}
