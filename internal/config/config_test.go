package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout())
	assert.Equal(t, 10, cfg.ItemsPageSize)
	assert.Equal(t, 5, cfg.SuppliersPageSize)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL())
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9100")
	t.Setenv("INVENTORY_API_URL", "http://inventory:8000")
	t.Setenv("INVENTORY_API_USERNAME", "Cynthia")
	t.Setenv("ITEMS_PAGE_SIZE", "25")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "0")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "http://inventory:8000", cfg.InventoryAPIURL)
	assert.Equal(t, "Cynthia", cfg.InventoryAPIUsername)
	assert.Equal(t, 25, cfg.ItemsPageSize)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval())
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
