package noise

import (
	"math"
)

// Value is seeded lattice value noise summed over octaves (fBm).
// Lattice values come from a SplitMix64 hash, so output is stable across runs.
type Value struct {
	cfg Config
}

// NewValue creates a value noise field. cfg must already be validated.
func NewValue(cfg Config) *Value {
	return &Value{cfg: cfg}
}

// Sample2D returns noise in [-1,1] at (x, z) scaled by the configured frequency.
func (v *Value) Sample2D(x, z float64) float32 {
	x *= v.cfg.Frequency
	z *= v.cfg.Frequency
	n := fbm(v.cfg, func(f float64, seed int64) float64 {
		return valueNoise2D(x*f, z*f, seed)
	})
	return clamp(n*2 - 1)
}

// Sample3D returns noise in [-1,1] at (x, y, z) scaled by the configured frequency.
func (v *Value) Sample3D(x, y, z float64) float32 {
	x *= v.cfg.Frequency
	y *= v.cfg.Frequency
	z *= v.cfg.Frequency
	n := fbm(v.cfg, func(f float64, seed int64) float64 {
		return valueNoise3D(x*f, y*f, z*f, seed)
	})
	return clamp(n*2 - 1)
}

// fbm sums octaves of a [0,1] sampler and normalises back to [0,1].
func fbm(cfg Config, sample func(frequency float64, seed int64) float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range cfg.Octaves {
		sum += sample(frequency, cfg.Seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= cfg.Persistence
		frequency *= cfg.Lacunarity
	}
	if norm == 0 {
		return 0.5
	}
	return sum / norm
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func mix(v uint64) uint64 {
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func hash2(x, z, seed int64) uint64 {
	return mix(uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0x6C62272E07BB0142 + uint64(seed))
}

func hash3(x, y, z, seed int64) uint64 {
	return mix(uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed))
}

// unit maps the low 32 bits of a hash to [0,1]
func unit(h uint64) float64 {
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := fade(x - x0)
	fz := fade(z - z0)
	ix, iz := int64(x0), int64(z0)

	v00 := unit(hash2(ix, iz, seed))
	v10 := unit(hash2(ix+1, iz, seed))
	v01 := unit(hash2(ix, iz+1, seed))
	v11 := unit(hash2(ix+1, iz+1, seed))

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)
	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	v000 := unit(hash3(ix, iy, iz, seed))
	v100 := unit(hash3(ix+1, iy, iz, seed))
	v010 := unit(hash3(ix, iy+1, iz, seed))
	v110 := unit(hash3(ix+1, iy+1, iz, seed))
	v001 := unit(hash3(ix, iy, iz+1, seed))
	v101 := unit(hash3(ix+1, iy, iz+1, seed))
	v011 := unit(hash3(ix, iy+1, iz+1, seed))
	v111 := unit(hash3(ix+1, iy+1, iz+1, seed))

	// x, then y, then z
	i0 := lerp(lerp(v000, v100, fx), lerp(v010, v110, fx), fy)
	i1 := lerp(lerp(v001, v101, fx), lerp(v011, v111, fx), fy)
	return lerp(i0, i1, fz)
}
