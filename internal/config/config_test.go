package config

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative range", func(c *Config) { c.MaxRange = -5 }},
		{"empty detail", func(c *Config) { c.Detail = nil }},
		{"single sample rows", func(c *Config) { c.Detail = []int{1} }},
		{"detail coarsest first", func(c *Config) { c.Detail = []int{3, 75} }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"empty profile", func(c *Config) { c.Profile = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
	}

	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", c.name)
		}
	}
}

func TestMergeRespectsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 100 // set via flag
	cfg.Seed = 42       // set via flag

	fromFile := DefaultConfig()
	fromFile.ChunkSize = 25
	fromFile.Seed = 7
	fromFile.Profile = "islands"

	Merge(cfg, fromFile, map[string]bool{"chunk-size": true, "seed": true})

	if cfg.ChunkSize != 100 {
		t.Errorf("ChunkSize = %d, want flag value 100", cfg.ChunkSize)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want flag value 42", cfg.Seed)
	}
	if cfg.Profile != "islands" {
		t.Errorf("Profile = %q, want file value islands", cfg.Profile)
	}
}

func TestTerrainParams(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.TerrainParams()

	if p.ChunkSize != 50 || p.MaxRange != 2000 {
		t.Errorf("params = (%d, %g), want (50, 2000)", p.ChunkSize, p.MaxRange)
	}
	if len(p.Detail) != 7 || p.Detail[0] != 75 || p.Detail[6] != 3 {
		t.Errorf("detail = %v, want the default seven-level table", p.Detail)
	}
}
