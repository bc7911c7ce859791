package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/ChangeCaps/echos/internal/config"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestConfigRoundTrip(t *testing.T) {
	s := testStorage(t)

	cfg := config.DefaultConfig()
	cfg.Seed = 1234
	cfg.Profile = "islands"
	if err := s.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded := config.DefaultConfig()
	if err := s.LoadConfig(loaded); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Seed != 1234 || loaded.Profile != "islands" {
		t.Errorf("loaded = (seed %d, profile %q), want (1234, islands)", loaded.Seed, loaded.Profile)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	s := testStorage(t)

	cfg := config.DefaultConfig()
	if err := s.LoadConfig(cfg); err != nil {
		t.Errorf("LoadConfig with no file = %v, want nil", err)
	}
	if cfg.ChunkSize != 50 {
		t.Errorf("config mutated by missing file: chunk size = %d", cfg.ChunkSize)
	}
}

func TestHeightFuncPrefersDataDirProfile(t *testing.T) {
	s := testStorage(t)

	// A data-dir profile named "ridge" shadows the built-in: flat makes the
	// difference observable.
	doc := []byte("name: ridge\ntype: flat\nelevation: 42\n")
	if err := os.WriteFile(filepath.Join(s.dir, "profiles", "ridge.yaml"), doc, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := s.HeightFunc("ridge", 1)
	if err != nil {
		t.Fatalf("HeightFunc: %v", err)
	}
	if got := f(mgl32.Vec2{0, 0}); got != 42 {
		t.Errorf("shadowed profile sample = %g, want 42", got)
	}
}

func TestHeightFuncFallsBackToBuiltin(t *testing.T) {
	s := testStorage(t)

	if _, err := s.HeightFunc("highlands", 1); err != nil {
		t.Errorf("HeightFunc(highlands) = %v, want built-in fallback", err)
	}
	if _, err := s.HeightFunc("volcanic", 1); err == nil {
		t.Error("HeightFunc accepted an unknown profile, want error")
	}
}

func TestListProfiles(t *testing.T) {
	s := testStorage(t)

	for _, name := range []string{"a.yaml", "b.yaml", "ignored.txt"} {
		if err := os.WriteFile(filepath.Join(s.dir, "profiles", name), []byte("type: flat\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	slices.Sort(names)
	if want := []string{"a", "b"}; !slices.Equal(names, want) {
		t.Errorf("ListProfiles() = %v, want %v", names, want)
	}
}
