//go:build !integration && !e2e
// +build !integration,!e2e

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/mleague-analyst/internal/config"
	"go.uber.org/zap"
)

func TestWriteConfigExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), configExampleFile)

	require.NoError(t, writeConfigExample(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configExampleContent, string(data))
}

func TestConfigExample_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configExampleContent), 0644))

	t.Setenv("MLEAGUE_CONFIG", path)
	t.Setenv("MLEAGUE_DATA_DIR", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	want := config.DefaultConfig()
	want.Database.Path = cfg.Database.Path
	assert.Equal(t, want, cfg)
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m_league.db")

	require.NoError(t, migrate(path, zap.NewNop()))
	// idempotent
	require.NoError(t, migrate(path, zap.NewNop()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
