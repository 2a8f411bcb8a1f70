package spline

import (
	"errors"
	"testing"
)

func TestEvaluateInterpolates(t *testing.T) {
	c := MustNew(Point{-1, 90}, Point{0, 110}, Point{1, 150})

	cases := []struct {
		t    float32
		want uint16
	}{
		{-1, 90},
		{-0.5, 100},
		{0, 110},
		{0.5, 130},
		{0.25, 120},
	}
	for _, tc := range cases {
		if got := c.Evaluate(tc.t); got != tc.want {
			t.Errorf("Evaluate(%v) = %d, want %d", tc.t, got, tc.want)
		}
	}
}

func TestEvaluateBelowMin(t *testing.T) {
	c := MustNew(Point{-0.5, 40}, Point{0.5, 80})
	if got := c.Evaluate(-1); got != 40 {
		t.Errorf("below first point: got %d, want 40", got)
	}
}

func TestEvaluateClampsToLast(t *testing.T) {
	c := MustNew(Point{-1, 10}, Point{0.5, 30})
	if got := c.Evaluate(0.5); got != 30 {
		t.Errorf("at last point: got %d, want 30", got)
	}
	if got := c.Evaluate(1); got != 30 {
		t.Errorf("past last point: got %d, want 30", got)
	}

	v, err := c.EvaluateChecked(0.75)
	if !errors.Is(err, ErrOutOfDomain) {
		t.Errorf("EvaluateChecked err = %v, want ErrOutOfDomain", err)
	}
	if v != 30 {
		t.Errorf("EvaluateChecked value = %d, want 30", v)
	}
	if _, err := c.EvaluateChecked(0); err != nil {
		t.Errorf("in-domain EvaluateChecked returned %v", err)
	}
}

func TestSinglePoint(t *testing.T) {
	c := MustNew(Point{0.2, 64})
	for _, x := range []float32{-1, 0, 0.2, 1} {
		if got := c.Evaluate(x); got != 64 {
			t.Errorf("Evaluate(%v) = %d, want 64", x, got)
		}
	}
}

func TestDescendingSegmentTruncates(t *testing.T) {
	c := MustNew(Point{0, 10}, Point{1, 0})
	// 10 - 10*0.35 = 6.5 -> 6
	if got := c.Evaluate(0.35); got != 6 {
		t.Errorf("got %d, want 6", got)
	}
}

func TestNewSortsCopy(t *testing.T) {
	in := []Point{{1, 3}, {-1, 1}, {0, 2}}
	c, err := New(in)
	if err != nil {
		t.Fatal(err)
	}
	pts := c.Points()
	for i := 1; i < len(pts); i++ {
		if pts[i-1].Position > pts[i].Position {
			t.Fatalf("points not sorted: %v", pts)
		}
	}
	if in[0].Position != 1 {
		t.Errorf("input slice was reordered")
	}
	if lo, hi := c.Range(); lo != 1 || hi != 3 {
		t.Errorf("Range = %d..%d, want 1..3", lo, hi)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNoPoints) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := New([]Point{{1.5, 1}}); !errors.Is(err, ErrPointRange) {
		t.Errorf("out of range: err = %v", err)
	}
}
