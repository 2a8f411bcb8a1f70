// Package spline maps noise samples in [-1,1] to integer heights with a
// piecewise-linear curve.
package spline

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNoPoints = errors.New("spline has no points")
	// ErrOutOfDomain is reported by EvaluateChecked when t lies at or past the
	// last point. The clamped value is still returned.
	ErrOutOfDomain = errors.New("spline evaluated outside its domain")
	ErrPointRange  = errors.New("spline point position outside [-1,1]")
)

// Point is a control point of a Curve.
type Point struct {
	Position float32 `yaml:"position"`
	Value    uint16  `yaml:"value"`
}

// Curve is an immutable, position-sorted list of control points.
type Curve struct {
	points []Point
}

// New copies and sorts points by position.
func New(points []Point) (*Curve, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}
	for _, p := range points {
		if p.Position < -1 || p.Position > 1 {
			return nil, fmt.Errorf("%w: %v", ErrPointRange, p.Position)
		}
	}
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b Point) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	return &Curve{points: sorted}, nil
}

// MustNew is New for static curves; it panics on error.
func MustNew(points ...Point) *Curve {
	c, err := New(points)
	if err != nil {
		panic(err)
	}
	return c
}

// Points returns a copy of the sorted control points.
func (c *Curve) Points() []Point {
	return slices.Clone(c.points)
}

// Range returns the smallest and largest point values.
func (c *Curve) Range() (lo, hi uint16) {
	lo, hi = c.points[0].Value, c.points[0].Value
	for _, p := range c.points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	return lo, hi
}

// Evaluate interpolates the curve at t. Below the first point it returns the
// first value, at or past the last point the last value.
func (c *Curve) Evaluate(t float32) uint16 {
	v, _ := c.evaluate(t)
	return v
}

// EvaluateChecked is Evaluate that reports ErrOutOfDomain when t is at or
// beyond the last control point.
func (c *Curve) EvaluateChecked(t float32) (uint16, error) {
	v, clamped := c.evaluate(t)
	if clamped {
		return v, fmt.Errorf("%w: t=%v", ErrOutOfDomain, t)
	}
	return v, nil
}

func (c *Curve) evaluate(t float32) (uint16, bool) {
	upper := -1
	for i, p := range c.points {
		if p.Position > t {
			upper = i
			break
		}
	}
	switch upper {
	case -1:
		return c.points[len(c.points)-1].Value, true
	case 0:
		return c.points[0].Value, false
	}

	lo, hi := c.points[upper-1], c.points[upper]
	if hi.Position == lo.Position {
		return lo.Value, false
	}
	f := (t - lo.Position) / (hi.Position - lo.Position)
	v := float32(lo.Value) + (float32(hi.Value)-float32(lo.Value))*f
	if v <= 0 {
		return 0, false
	}
	if v >= 65535 {
		return 65535, false
	}
	return uint16(v), false
}
