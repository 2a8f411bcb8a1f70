// Package noise provides seeded, deterministic scalar noise fields.
package noise

import (
	"errors"
	"fmt"
)

// Field samples scalar noise in [-1,1]. Implementations are pure: identical
// inputs always produce bit-identical output, and sampling has no side effects.
type Field interface {
	Sample2D(x, z float64) float32
	Sample3D(x, y, z float64) float32
}

// Kind selects a Field implementation.
type Kind string

const (
	KindValue  Kind = "value"
	KindPerlin Kind = "perlin"
)

// Config describes one noise field.
type Config struct {
	Kind        Kind    `yaml:"kind"`
	Seed        int64   `yaml:"seed"`
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
}

var ErrInvalidConfig = errors.New("invalid noise config")

// Validate checks that cfg describes a usable field.
func (c Config) Validate() error {
	switch c.Kind {
	case KindValue, KindPerlin:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, c.Kind)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalidConfig, c.Octaves)
	}
	if c.Frequency <= 0 {
		return fmt.Errorf("%w: frequency must be positive, got %g", ErrInvalidConfig, c.Frequency)
	}
	if c.Kind == KindPerlin && c.Persistence <= 0 {
		return fmt.Errorf("%w: perlin persistence must be positive", ErrInvalidConfig)
	}
	return nil
}

// New builds the field described by cfg.
func New(cfg Config) (Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindPerlin:
		return NewPerlin(cfg), nil
	default:
		return NewValue(cfg), nil
	}
}

func clamp(v float64) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return float32(v)
}
