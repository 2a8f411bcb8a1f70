// Package config loads and validates the session configuration.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"voxelterrain/internal/meshing"
	"voxelterrain/internal/noise"
	"voxelterrain/internal/registry"
	"voxelterrain/internal/spline"
	"voxelterrain/internal/terrain"
	"voxelterrain/internal/world"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvYAML names the environment variable that may carry a base64 encoded
// YAML configuration.
const EnvYAML = "VOXELTERRAIN_CONFIG_YAML_B64"

type Config struct {
	Seed        int64            `yaml:"seed"`
	Chunk       world.Dimensions `yaml:"chunk"`
	VoxelSize   float32          `yaml:"voxelSize"`
	Radius      int              `yaml:"radius"`
	EvictRadius int              `yaml:"evictRadius"`
	OneShot     bool             `yaml:"oneShot"`

	Generator terrain.Config `yaml:"generator"`
	Meshing   MeshingConfig  `yaml:"meshing"`
	Atlas     AtlasConfig    `yaml:"atlas"`
}

type MeshingConfig struct {
	VerticalBoundary string `yaml:"verticalBoundary"`
}

type AtlasConfig struct {
	Columns int                        `yaml:"columns"`
	Rows    int                        `yaml:"rows"`
	Blocks  []registry.BlockDefinition `yaml:"blocks"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:      1337,
		Chunk:     world.Dimensions{Width: 16, Height: 256, Depth: 16},
		VoxelSize: 1,
		Radius:    2,
		Generator: terrain.Config{
			Strategy:      terrain.StrategyHeightmap,
			BaseOffset:    terrain.DefaultBaseOffset,
			ColumnWorkers: 4,
			Layers: []terrain.LayerConfig{{
				Noise: noise.Config{Kind: noise.KindValue, Frequency: 0.0025, Octaves: 4, Lacunarity: 2, Persistence: 0.5},
				Spline: []spline.Point{
					{Position: -1, Value: 0},
					{Position: 0, Value: 20},
					{Position: 1, Value: 60},
				},
			}},
			Density: terrain.DensityConfig{
				Noise:              noise.Config{Kind: noise.KindPerlin, Frequency: 1, Octaves: 3, Lacunarity: 2, Persistence: 0.5},
				Scale:              terrain.DefaultDensityScale,
				Ceiling:            200,
				UpperBandStart:     150,
				UpperBandThreshold: 0.8,
			},
		},
		Meshing: MeshingConfig{VerticalBoundary: "solid"},
		Atlas: AtlasConfig{
			Columns: 4,
			Rows:    4,
			Blocks:  []registry.BlockDefinition{{ID: world.BlockStone, Name: "stone"}},
		},
	}
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse yaml: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadEnv parses the configuration carried by EnvYAML. ok is false when the
// variable is unset.
func LoadEnv() (cfg Config, ok bool, err error) {
	payload := os.Getenv(EnvYAML)
	if payload == "" {
		return Config{}, false, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Config{}, true, fmt.Errorf("decode %s: %w", EnvYAML, err)
	}
	cfg, err = Parse(data)
	return cfg, true, err
}

// Resolve picks the configuration source for a command: path when it is set,
// then the environment, then Default.
func Resolve(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, ok, err := LoadEnv()
	if err != nil || ok {
		return cfg, err
	}
	return Default(), nil
}

// Source names the source Resolve(path) reads: "file", "env" or "default".
func Source(path string) string {
	switch {
	case path != "":
		return "file"
	case os.Getenv(EnvYAML) != "":
		return "env"
	}
	return "default"
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every section and wraps failures in ErrInvalid.
func (c Config) Validate() error {
	if !c.Chunk.Valid() {
		return fmt.Errorf("%w: chunk dimensions must be positive, got %+v", ErrInvalid, c.Chunk)
	}
	// Chunks are centred on their origin; voxel picking and meshing agree
	// only when the half extents are whole cells.
	if c.Chunk.Width%2 != 0 || c.Chunk.Height%2 != 0 || c.Chunk.Depth%2 != 0 {
		return fmt.Errorf("%w: chunk dimensions must be even, got %+v", ErrInvalid, c.Chunk)
	}
	if c.VoxelSize <= 0 {
		return fmt.Errorf("%w: voxelSize must be positive", ErrInvalid)
	}
	if c.Radius < 1 {
		return fmt.Errorf("%w: radius must be >= 1, got %d", ErrInvalid, c.Radius)
	}
	if c.EvictRadius != 0 && c.EvictRadius <= c.Radius {
		return fmt.Errorf("%w: evictRadius %d must exceed radius %d", ErrInvalid, c.EvictRadius, c.Radius)
	}

	gen := c.Terrain()
	switch gen.Strategy {
	case terrain.StrategyHeightmap:
		if len(gen.Layers) == 0 {
			return fmt.Errorf("%w: heightmap needs at least one layer", ErrInvalid)
		}
		for i, l := range gen.Layers {
			if err := l.Noise.Validate(); err != nil {
				return fmt.Errorf("%w: layer %d: %w", ErrInvalid, i, err)
			}
			if _, err := spline.New(l.Spline); err != nil {
				return fmt.Errorf("%w: layer %d: %w", ErrInvalid, i, err)
			}
		}
	case terrain.StrategyDensity:
		if err := gen.Density.Noise.Validate(); err != nil {
			return fmt.Errorf("%w: density: %w", ErrInvalid, err)
		}
		if gen.Density.Scale <= 0 {
			return fmt.Errorf("%w: density scale %v must be positive", ErrInvalid, gen.Density.Scale)
		}
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalid, terrain.ErrUnknownStrategy, gen.Strategy)
	}

	if _, err := meshing.ParseVerticalBoundary(c.Meshing.VerticalBoundary); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Atlas.Columns < 1 || c.Atlas.Rows < 1 {
		return fmt.Errorf("%w: atlas grid must be at least 1x1", ErrInvalid)
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Terrain returns the generator section with inherited seeds resolved.
func (c Config) Terrain() terrain.Config {
	gen := c.Generator
	gen.Layers = append([]terrain.LayerConfig(nil), c.Generator.Layers...)
	for i := range gen.Layers {
		if gen.Layers[i].Noise.Seed == 0 {
			gen.Layers[i].Noise.Seed = c.Seed + int64(i)
		}
	}
	if gen.Density.Noise.Seed == 0 {
		gen.Density.Noise.Seed = c.Seed
	}
	return gen
}

// Boundary returns the parsed vertical boundary policy.
func (c Config) Boundary() meshing.VerticalBoundary {
	b, _ := meshing.ParseVerticalBoundary(c.Meshing.VerticalBoundary)
	return b
}

// Registry builds the block registry from the atlas section.
func (c Config) Registry() (*registry.Registry, error) {
	r := registry.New()
	for _, def := range c.Atlas.Blocks {
		if err := r.Register(def); err != nil {
			return nil, err
		}
	}
	return r, nil
}
