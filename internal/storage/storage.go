package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChangeCaps/echos/internal/config"
	"github.com/ChangeCaps/echos/internal/terrain"
)

// Storage handles file-based persistence for the config and terrain profiles.
// Generated chunks are never persisted; they are cheaper to regenerate than
// to load.
type Storage struct {
	dir string
	log *slog.Logger
}

// New creates a new Storage rooted at dir, creating subdirectories as needed.
func New(dir string, log *slog.Logger) (*Storage, error) {
	dirs := []string{
		dir,
		filepath.Join(dir, "profiles"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return &Storage{dir: dir, log: log}, nil
}

// LoadConfig reads config.json into cfg. If the file does not exist, cfg is unchanged.
func (s *Storage) LoadConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.log.Info("loaded config from file", "path", path)
	return nil
}

// SaveConfig writes cfg to config.json atomically.
func (s *Storage) SaveConfig(cfg *config.Config) error {
	path := filepath.Join(s.dir, "config.json")
	return s.atomicWriteJSON(path, cfg)
}

// LoadProfile reads profiles/<name>.yaml. A missing file is reported as such,
// letting the caller fall back to the built-in profiles.
func (s *Storage) LoadProfile(name string) (*terrain.Profile, error) {
	return terrain.LoadProfile(filepath.Join(s.dir, "profiles", name+".yaml"))
}

// HeightFunc resolves a profile name: a profile document in the data dir
// wins, otherwise the name must be a built-in.
func (s *Storage) HeightFunc(name string, seed int64) (terrain.HeightFunc, error) {
	p, err := s.LoadProfile(name)
	if err == nil {
		if p.Seed == 0 {
			p.Seed = seed
		}
		s.log.Info("loaded terrain profile", "name", name, "type", p.Type)
		return p.HeightFunc()
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return terrain.BuiltinProfile(name, seed)
}

// ListProfiles returns the profile names available in the data dir.
func (s *Storage) ListProfiles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "profiles"))
	if err != nil {
		return nil, fmt.Errorf("read profiles dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names, nil
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func (s *Storage) atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
