package graphics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < 1e-4
}

func TestCameraFront(t *testing.T) {
	c := NewCamera(800, 600)
	if !near(c.Front(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("yaw 0 front = %v", c.Front())
	}
	if !near(c.Right(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("yaw 0 right = %v", c.Right())
	}
	c.Look(90, 0)
	if !near(c.Front(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("yaw 90 front = %v", c.Front())
	}
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera(1, 1)
	c.Look(0, 500)
	if c.Pitch != 89 {
		t.Errorf("pitch = %v, want 89", c.Pitch)
	}
	c.Look(0, -1000)
	if c.Pitch != -89 {
		t.Errorf("pitch = %v, want -89", c.Pitch)
	}
}

func TestCameraMove(t *testing.T) {
	c := NewCamera(1, 1)
	c.Move(2, 3, 1)
	if !near(c.Position(), mgl32.Vec3{3, 1, -2}) {
		t.Errorf("position = %v", c.Position())
	}
}

func TestFrustumIntersects(t *testing.T) {
	c := NewCamera(1, 1)
	f := NewFrustum(c.ProjectionMatrix().Mul4(c.ViewMatrix()))

	ahead := f.Intersects(mgl32.Vec3{-1, -1, -20}, mgl32.Vec3{1, 1, -18})
	behind := f.Intersects(mgl32.Vec3{-1, -1, 18}, mgl32.Vec3{1, 1, 20})
	far := f.Intersects(mgl32.Vec3{-1, -1, -5000}, mgl32.Vec3{1, 1, -4990})
	if !ahead {
		t.Errorf("box in front of the camera culled")
	}
	if behind {
		t.Errorf("box behind the camera kept")
	}
	if far {
		t.Errorf("box past the far plane kept")
	}
}

func TestPlaceholderAtlas(t *testing.T) {
	img := PlaceholderAtlas(4, 2, 8)
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("bounds = %v", b)
	}
	if got := img.RGBAAt(4, 4); got != tileColor(0) {
		t.Errorf("tile 0 centre = %v", got)
	}
	if got := img.RGBAAt(8+4, 8+4); got != tileColor(5) {
		t.Errorf("tile 5 centre = %v", got)
	}
	if img.RGBAAt(0, 0) == tileColor(0) {
		t.Errorf("tile border not drawn")
	}
}

func TestNormalizePlaneZero(t *testing.T) {
	p := normalizePlane(plane{0, 0, 0, 3})
	if p.d != 3 || math.IsNaN(float64(p.a)) {
		t.Errorf("zero plane changed: %+v", p)
	}
}
