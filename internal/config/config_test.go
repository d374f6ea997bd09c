package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 60, cfg.HistoryDays)
	assert.Equal(t, "100000.00", cfg.Seed.StringFixed(2))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEED_BALANCE", "500.25")
	t.Setenv("STORAGE_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "500.25", cfg.Seed.StringFixed(2))
	assert.Equal(t, 2*time.Second, cfg.StorageTimeout)
}

func TestLoadRejectsBadSeed(t *testing.T) {
	t.Setenv("SEED_BALANCE", "not-money")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNegativeSeed(t *testing.T) {
	t.Setenv("SEED_BALANCE", "-5.00")
	_, err := Load()
	require.Error(t, err)
}
