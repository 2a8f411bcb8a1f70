// Package terrain fills chunk voxel grids from noise.
package terrain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voxelterrain/internal/noise"
	"voxelterrain/internal/spline"
	"voxelterrain/internal/world"
)

// Generator fills chunks. Fill runs on the generation worker and must only
// touch the chunk it is given.
type Generator interface {
	Fill(ctx context.Context, c *world.Chunk) error
	// HeightAt returns the first empty y above the surface of a world column.
	HeightAt(worldX, worldZ int) int
}

// SolidBlock is the id written for solid voxels.
const SolidBlock = world.BlockStone

// DefaultBaseOffset is added to the summed layer heights of every column.
const DefaultBaseOffset = 100

type Strategy string

const (
	StrategyHeightmap Strategy = "heightmap"
	StrategyDensity   Strategy = "density"
)

var ErrUnknownStrategy = errors.New("unknown terrain strategy")

// Config selects and parameterises a Generator.
type Config struct {
	Strategy      Strategy      `yaml:"strategy"`
	BaseOffset    int           `yaml:"baseOffset"`
	ColumnWorkers int           `yaml:"columnWorkers"`
	Layers        []LayerConfig `yaml:"layers"`
	Density       DensityConfig `yaml:"density"`
}

// LayerConfig is one noise layer remapped through a spline.
type LayerConfig struct {
	Noise  noise.Config   `yaml:"noise"`
	Spline []spline.Point `yaml:"spline"`
}

type DensityConfig struct {
	Noise              noise.Config `yaml:"noise"`
	Scale              float64      `yaml:"scale"`
	Threshold          float32      `yaml:"threshold"`
	Ceiling            int          `yaml:"ceiling"`
	UpperBandStart     int          `yaml:"upperBandStart"`
	UpperBandThreshold float32      `yaml:"upperBandThreshold"`
}

// New builds the generator selected by cfg.Strategy. The caller owns the
// result and should Close it if it implements io.Closer.
func New(cfg Config, log *slog.Logger) (Generator, error) {
	switch cfg.Strategy {
	case StrategyHeightmap, "":
		layers, err := BuildLayers(cfg.Layers)
		if err != nil {
			return nil, err
		}
		log.Debug("terrain generator", "strategy", StrategyHeightmap, "layers", len(layers), "workers", cfg.ColumnWorkers)
		h := NewHeightmap(cfg.BaseOffset, layers, cfg.ColumnWorkers)
		h.Log = log
		return h, nil
	case StrategyDensity:
		field, err := noise.New(cfg.Density.Noise)
		if err != nil {
			return nil, fmt.Errorf("density noise: %w", err)
		}
		d := NewDensity(field)
		d.Scale = cfg.Density.Scale
		d.Threshold = cfg.Density.Threshold
		d.Ceiling = cfg.Density.Ceiling
		d.UpperBandStart = cfg.Density.UpperBandStart
		d.UpperBandThreshold = cfg.Density.UpperBandThreshold
		log.Debug("terrain generator", "strategy", StrategyDensity, "ceiling", d.Ceiling)
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
}

// BuildLayers turns layer configs into sampled layers.
func BuildLayers(cfgs []LayerConfig) ([]Layer, error) {
	layers := make([]Layer, 0, len(cfgs))
	for i, lc := range cfgs {
		field, err := noise.New(lc.Noise)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		curve, err := spline.New(lc.Spline)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, Layer{Field: field, Curve: curve})
	}
	return layers, nil
}
