// Package config loads the benchmark CLI's TOML configuration file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Benchmark holds the tunables for cmd/indexedlru-bench's workload and the
// cache it drives.
type Benchmark struct {
	Cache struct {
		Cap              int    `toml:"cap"`
		GhostCap         int    `toml:"ghost_cap"`
		UpdateInterval   uint32 `toml:"update_interval"`
		GhostBucketCount int    `toml:"ghost_bucket_count"`
		AccurateTail     bool   `toml:"accurate_tail"`
	} `toml:"cache"`

	Workload struct {
		Iterations  int `toml:"iterations"`
		NormalRange int `toml:"normal_range"`
		DelayRange  int `toml:"delay_range"`
		Shards      int `toml:"shards"`
	} `toml:"workload"`

	Log struct {
		Path        string `toml:"path"`
		Level       string `toml:"level"`
		Development bool   `toml:"development"`
	} `toml:"log"`
}

// Default returns the configuration used when no file is supplied.
func Default() Benchmark {
	var cfg Benchmark
	cfg.Cache.Cap = 10_000
	cfg.Cache.GhostCap = 2_000
	cfg.Cache.UpdateInterval = 64
	cfg.Cache.GhostBucketCount = 50
	cfg.Workload.Iterations = 100_000
	cfg.Workload.NormalRange = 5_000
	cfg.Workload.DelayRange = 20_000
	cfg.Workload.Shards = 1
	cfg.Log.Level = "info"
	return cfg
}

// Load reads and decodes a TOML file at path, layering it over Default.
func Load(path string) (Benchmark, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Benchmark{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
