package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/store"
)

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := loadConfig(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, store.Default(), cfg)
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("news:\n  provider: TELEX\n"), 0o644))

	_, err := loadConfig(context.Background(), path)
	assert.Error(t, err)
}

func TestInitializeAdvisorWithDefaults(t *testing.T) {
	adv, err := initializeAdvisor(context.Background(), store.Default(), nil)
	require.NoError(t, err)
	assert.NotNil(t, adv)
}

func TestInitializeAdvisorKiteNeedsCredentials(t *testing.T) {
	t.Setenv("KITE_API_KEY", "")
	t.Setenv("KITE_ACCESS_TOKEN", "")
	cfg := store.Default()
	cfg.MarketData.Provider = "KITE"

	_, err := initializeAdvisor(context.Background(), cfg, nil)
	assert.Error(t, err)
}
