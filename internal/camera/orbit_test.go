package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

const eps = 1e-4

func newTestOrbit() *Orbit {
	return NewOrbit(vec3.T{3, 3, 3}, vec3.T{0, 0, 0}, 75, 800, 600)
}

func TestNewOrbitReproducesEye(t *testing.T) {
	o := newTestOrbit()
	eye := o.Eye()
	for i, want := range []float32{3, 3, 3} {
		if math32.Abs(eye[i]-want) > eps {
			t.Fatalf("Expected eye (3,3,3), got %v", eye)
		}
	}
	if math32.Abs(o.Distance-math32.Sqrt(27)) > eps {
		t.Errorf("Expected distance sqrt(27), got %f", o.Distance)
	}
}

func TestProjectTargetToCenter(t *testing.T) {
	o := newTestOrbit()
	pr := o.Projector()

	x, y, depth, ok := pr.Project(vec3.T{0, 0, 0})
	if !ok {
		t.Fatal("Expected target to be visible")
	}
	if math32.Abs(x-400) > eps || math32.Abs(y-300) > eps {
		t.Errorf("Expected target at screen center, got (%f, %f)", x, y)
	}
	if math32.Abs(depth-o.Distance) > eps {
		t.Errorf("Expected depth %f, got %f", o.Distance, depth)
	}

	// Up in the world is up on screen
	_, yUp, _, _ := pr.Project(vec3.T{0, 1, 0})
	if yUp >= y {
		t.Errorf("Expected +Y to project above center, got %f >= %f", yUp, y)
	}

	// Behind the camera is rejected
	if _, _, _, ok := pr.Project(vec3.T{6, 6, 6}); ok {
		t.Error("Expected point behind the camera to be rejected")
	}
}

func TestRotateClampsPolar(t *testing.T) {
	o := newTestOrbit()
	o.Rotate(0, 10000)
	if o.Polar < polarMargin-eps {
		t.Errorf("Expected polar clamped to >= %f, got %f", polarMargin, o.Polar)
	}
	o.Rotate(0, -10000)
	if o.Polar > math32.Pi-polarMargin+eps {
		t.Errorf("Expected polar clamped to <= pi-%f, got %f", polarMargin, o.Polar)
	}

	before := o.Azimuth
	o.Rotate(600, 0)
	if math32.Abs((before-o.Azimuth)-2*math32.Pi) > eps {
		t.Errorf("Expected a full-height drag to turn once around, got %f", before-o.Azimuth)
	}
}

func TestZoomClampsDistance(t *testing.T) {
	o := newTestOrbit()
	start := o.Distance
	o.Zoom(1)
	if o.Distance >= start {
		t.Errorf("Expected zoom in to reduce distance, got %f", o.Distance)
	}
	o.Zoom(1000)
	if o.Distance != MinDistance {
		t.Errorf("Expected distance clamped to %f, got %f", float32(MinDistance), o.Distance)
	}
	o.Zoom(-1000)
	if o.Distance != MaxDistance {
		t.Errorf("Expected distance clamped to %f, got %f", float32(MaxDistance), o.Distance)
	}

	o.Reset()
	if math32.Abs(o.Distance-start) > eps {
		t.Errorf("Expected reset to restore distance %f, got %f", start, o.Distance)
	}
}

func TestPanKeepsViewDirection(t *testing.T) {
	o := newTestOrbit()
	before := o.Basis().Forward
	o.Pan(100, 0)

	if o.Target == (vec3.T{}) {
		t.Fatal("Expected pan to move the target")
	}
	after := o.Basis().Forward
	for i := range before {
		if math32.Abs(before[i]-after[i]) > eps {
			t.Fatalf("Expected pan to keep the view direction, got %v vs %v", before, after)
		}
	}

	// Dragging right moves the scene right, so the old target lands right of center
	pr := o.Projector()
	x, _, _, _ := pr.Project(vec3.T{})
	if math32.Abs(x-500) > 0.01 {
		t.Errorf("Expected old target to follow the cursor to x=500, got %f", x)
	}
}

func TestScreenDir(t *testing.T) {
	o := newTestOrbit()
	pr := o.Projector()
	dx, dy, ok := pr.ScreenDir(vec3.T{}, vec3.T{0, 1, 0})
	if !ok {
		t.Fatal("Expected a screen direction")
	}
	if math32.Abs(dx) > eps || dy >= 0 {
		t.Errorf("Expected +Y to point straight up on screen, got (%f, %f)", dx, dy)
	}
}

func TestPoleEyeKeepsBasisAfterReset(t *testing.T) {
	o := NewOrbit(vec3.T{0, 5, 0}, vec3.T{0, 0, 0}, 75, 800, 600)
	o.Rotate(100, 50)
	o.Reset()

	if o.Polar < polarMargin-eps {
		t.Fatalf("Expected reset polar >= %f, got %f", polarMargin, o.Polar)
	}
	b := o.Basis()
	if l := b.Right.Length(); math32.Abs(l-1) > eps {
		t.Errorf("Expected a unit right vector, got length %f", l)
	}

	pr := o.Projector()
	xp, _, _, okp := pr.Project(vec3.T{1, 0, 0})
	xn, _, _, okn := pr.Project(vec3.T{-1, 0, 0})
	if !okp || !okn {
		t.Fatal("Expected both points to be visible")
	}
	if math32.Abs(xp-xn) < 1 {
		t.Errorf("Expected +X and -X to project apart, got %f and %f", xp, xn)
	}
}

func TestEyeOnTargetStaysFinite(t *testing.T) {
	o := NewOrbit(vec3.T{1, 1, 1}, vec3.T{1, 1, 1}, 75, 800, 600)
	if o.Distance != MinDistance {
		t.Errorf("Expected distance %f, got %f", float32(MinDistance), o.Distance)
	}
	eye := o.Eye()
	for i := range eye {
		if math32.IsNaN(eye[i]) || math32.IsInf(eye[i], 0) {
			t.Fatalf("Expected a finite eye, got %v", eye)
		}
	}
	o.Reset()
	if math32.IsNaN(o.Polar) {
		t.Error("Expected reset to keep a finite polar angle")
	}
}
