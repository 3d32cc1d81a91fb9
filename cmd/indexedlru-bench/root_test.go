package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kxlru/indexedlru"
	"github.com/kxlru/indexedlru/internal/config"
	"go.uber.org/zap"
)

func TestDriveWorkloadSmoke(t *testing.T) {
	cfg := config.Default()
	cfg.Workload.Iterations = 2000
	cfg.Cache.Cap = 100
	cfg.Cache.GhostCap = 20

	c := indexedlru.New[int, int](cfg.Cache.Cap, cfg.Cache.GhostCap, cfg.Cache.UpdateInterval, cfg.Cache.GhostBucketCount)
	stats := driveWorkload(c, cfg, zap.NewNop())

	require.LessOrEqual(t, c.Len(), cfg.Cache.Cap)
	require.LessOrEqual(t, c.GhostLen(), cfg.Cache.GhostCap)
	require.Greater(t, stats.misses+stats.realHits+stats.ghostHits, int64(0))
}

func TestRootCmdIsWellFormed(t *testing.T) {
	cmd := newRootCmd()
	require.Equal(t, "indexedlru-bench", cmd.Use)
	require.NotNil(t, cmd.RunE)
}
