package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ChangeCaps/echos/internal/config"
	"github.com/ChangeCaps/echos/internal/scene"
	"github.com/ChangeCaps/echos/internal/sim"
	"github.com/ChangeCaps/echos/internal/storage"
	"github.com/ChangeCaps/echos/internal/terrain"
)

func main() {
	cfg := config.DefaultConfig()

	flag.IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "world units per chunk edge")
	flag.Float64Var(&cfg.MaxRange, "max-range", cfg.MaxRange, "terrain residency radius in world units")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "height function seed")
	flag.StringVar(&cfg.Profile, "profile", cfg.Profile, "terrain profile name")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "generation worker count")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "simulation ticks per second")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for config and profiles")
	speed := flag.Float64("speed", 150, "flyover ground speed in world units per second")
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		log.Error("open data dir", "error", err)
		os.Exit(1)
	}

	fileCfg := config.DefaultConfig()
	if err := store.LoadConfig(fileCfg); err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fileCfg, explicit)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	height, err := store.HeightFunc(cfg.Profile, cfg.Seed)
	if err != nil {
		log.Error("resolve terrain profile", "profile", cfg.Profile, "error", err)
		os.Exit(1)
	}

	registry := scene.NewRegistry(log)
	streamer, err := terrain.NewStreamer(cfg.TerrainParams(), height, registry, registry, log)
	if err != nil {
		log.Error("create streamer", "error", err)
		os.Exit(1)
	}

	// A simple square circuit keeps the reference point moving through fresh
	// terrain in every direction.
	leg := float32(cfg.MaxRange) * 2
	path := sim.NewPath([]mgl32.Vec2{
		{0, 0},
		{leg, 0},
		{leg, leg},
		{0, leg},
	}, float32(*speed))

	log.Info("terrain daemon starting",
		"profile", cfg.Profile,
		"chunk_size", cfg.ChunkSize,
		"max_range", cfg.MaxRange,
		"workers", cfg.Workers,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := sim.New(streamer, path, cfg.TickRate, log)
	if err := runner.Run(ctx); err != nil {
		log.Error("runner error", "error", err)
		os.Exit(1)
	}
}
