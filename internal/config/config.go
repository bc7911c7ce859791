package config

import (
	"fmt"
	"runtime"

	"github.com/ChangeCaps/echos/internal/terrain"
)

// Config holds the terrain daemon configuration.
type Config struct {
	ChunkSize int     `json:"chunk_size"` // world units per chunk edge
	MaxRange  float64 `json:"max_range"`  // residency radius in world units
	Detail    []int   `json:"detail"`     // samples per chunk edge, finest first
	Seed      int64   `json:"seed"`
	Profile   string  `json:"profile"`   // height profile name, built-in or from the data dir
	Workers   int     `json:"workers"`   // generation pool size
	TickRate  int     `json:"tick_rate"` // simulation ticks per second
	DataDir   string  `json:"data_dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize: 50,
		MaxRange:  2000,
		Detail:    []int{75, 50, 25, 15, 10, 5, 3},
		Profile:   "ridge",
		Workers:   runtime.NumCPU(),
		TickRate:  20,
		DataDir:   "data",
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["chunk-size"] {
		cfg.ChunkSize = fromFile.ChunkSize
	}
	if !explicitFlags["max-range"] {
		cfg.MaxRange = fromFile.MaxRange
	}
	if len(fromFile.Detail) > 0 {
		cfg.Detail = fromFile.Detail
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["profile"] {
		cfg.Profile = fromFile.Profile
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["tick-rate"] {
		cfg.TickRate = fromFile.TickRate
	}
	if !explicitFlags["data-dir"] {
		cfg.DataDir = fromFile.DataDir
	}
}

// TerrainParams converts the streaming fields into terrain parameters.
func (c *Config) TerrainParams() terrain.Params {
	return terrain.Params{
		ChunkSize: c.ChunkSize,
		MaxRange:  float32(c.MaxRange),
		Detail:    c.Detail,
		Workers:   c.Workers,
	}
}

// Validate reports the first startup invariant violation. Malformed
// configuration is fatal, not recoverable.
func (c *Config) Validate() error {
	if err := c.TerrainParams().Validate(); err != nil {
		return err
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.Profile == "" {
		return fmt.Errorf("profile must not be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir must not be empty")
	}
	return nil
}
