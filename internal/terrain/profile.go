package terrain

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Profile is a height-function recipe, loadable from a YAML document. Zero
// knobs fall back to the type's defaults, so a minimal document only names a
// type.
type Profile struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"` // ridge, islands, highlands or flat
	Seed      int64   `yaml:"seed"`
	Amplitude float64 `yaml:"amplitude"` // vertical scale factor
	Scale     float64 `yaml:"scale"`     // horizontal feature size factor
	Elevation float64 `yaml:"elevation"` // flat only
}

// BuiltinProfile returns the named built-in profile with default knobs.
func BuiltinProfile(name string, seed int64) (HeightFunc, error) {
	p := Profile{Name: name, Type: name, Seed: seed}
	return p.HeightFunc()
}

// HeightFunc builds the height function the profile describes.
func (p *Profile) HeightFunc() (HeightFunc, error) {
	var f HeightFunc
	switch p.Type {
	case "ridge":
		f = Ridge(p.Seed)
	case "islands":
		f = Islands(p.Seed)
	case "highlands":
		f = Highlands(p.Seed)
	case "flat":
		return Flat(float32(p.Elevation)), nil
	default:
		return nil, fmt.Errorf("unknown profile type %q", p.Type)
	}

	amplitude := float32(p.Amplitude)
	if amplitude == 0 {
		amplitude = 1
	}
	scale := float32(p.Scale)
	if scale == 0 {
		scale = 1
	}
	if amplitude < 0 || scale < 0 {
		return nil, fmt.Errorf("profile %q: amplitude and scale must be positive", p.Name)
	}

	if amplitude == 1 && scale == 1 {
		return f, nil
	}
	return func(pos mgl32.Vec2) float32 {
		return f(pos.Mul(1/scale)) * amplitude
	}, nil
}

// LoadProfile reads and validates one profile document. Unknown fields are an
// error so a typo in a knob name never silently produces default terrain.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.Type == "" {
		return nil, fmt.Errorf("profile %s: missing type", path)
	}
	return &p, nil
}
