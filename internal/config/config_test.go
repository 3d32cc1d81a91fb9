package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[cache]
cap = 500
ghost_cap = 100
update_interval = 8
ghost_bucket_count = 20
accurate_tail = true

[workload]
iterations = 1000
normal_range = 50
delay_range = 200
shards = 4

[log]
level = "debug"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Cache.Cap)
	assert.Equal(t, 100, cfg.Cache.GhostCap)
	assert.Equal(t, uint32(8), cfg.Cache.UpdateInterval)
	assert.True(t, cfg.Cache.AccurateTail)
	assert.Equal(t, 1000, cfg.Workload.Iterations)
	assert.Equal(t, 4, cfg.Workload.Shards)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/bench.toml")
	assert.Error(t, err)
}
