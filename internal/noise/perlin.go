package noise

import (
	"github.com/aquilax/go-perlin"
)

// Perlin wraps go-perlin gradient noise. Alpha is 1/persistence, beta the
// lacunarity and n the octave count.
type Perlin struct {
	frequency float64
	p         *perlin.Perlin
}

// NewPerlin creates a perlin field. cfg must already be validated.
func NewPerlin(cfg Config) *Perlin {
	beta := cfg.Lacunarity
	if beta <= 0 {
		beta = 2
	}
	return &Perlin{
		frequency: cfg.Frequency,
		p:         perlin.NewPerlin(1/cfg.Persistence, beta, int32(cfg.Octaves), cfg.Seed),
	}
}

func (p *Perlin) Sample2D(x, z float64) float32 {
	return clamp(p.p.Noise2D(x*p.frequency, z*p.frequency))
}

func (p *Perlin) Sample3D(x, y, z float64) float32 {
	f := p.frequency
	return clamp(p.p.Noise3D(x*f, y*f, z*f))
}
