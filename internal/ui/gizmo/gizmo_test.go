package gizmo

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/camera"
	"chosenoffset.com/radsim/internal/render"
	"chosenoffset.com/radsim/internal/render/rendertest"
	"chosenoffset.com/radsim/internal/scene"
)

// frontView looks down -Z at the origin; one world unit at z=0 spans 40px.
func frontView() camera.Projector {
	cam := camera.NewOrbit(vec3.T{0, 0, 5}, vec3.T{}, 90, 400, 400)
	return cam.Projector()
}

func newTestGizmo() (*Gizmo, *rendertest.Input, *scene.State) {
	in := rendertest.NewInput()
	st := scene.NewState(vec3.T{}, 1, 0.5, false)
	return New(rendertest.NewRenderer(), in, st), in, st
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		px, py, want float32
	}{
		{5, 3, 3},
		{-4, 3, 5},
		{13, 0, 3},
	}
	for _, tt := range tests {
		if got := segmentDistance(tt.px, tt.py, 0, 0, 10, 0); math32.Abs(got-tt.want) > 1e-4 {
			t.Errorf("segmentDistance(%f, %f) = %f, want %f", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestAxisDelta(t *testing.T) {
	if d := AxisDelta(20, 0, 40, 0); d != 0.5 {
		t.Errorf("Expected 0.5, got %f", d)
	}
	if d := AxisDelta(0, 20, 40, 0); d != 0 {
		t.Errorf("Expected perpendicular motion to be ignored, got %f", d)
	}
	if d := AxisDelta(10, 10, 0, 0); d != 0 {
		t.Errorf("Expected no motion for a degenerate handle, got %f", d)
	}
}

func TestPick(t *testing.T) {
	g, _, _ := newTestGizmo()
	pr := frontView()

	if axis := g.Pick(&pr, 215, 201); axis != 0 {
		t.Errorf("Expected x handle, got %d", axis)
	}
	if axis := g.Pick(&pr, 201, 188); axis != 1 {
		t.Errorf("Expected y handle, got %d", axis)
	}
	if axis := g.Pick(&pr, 50, 50); axis != -1 {
		t.Errorf("Expected no handle, got %d", axis)
	}
}

func TestDragMovesTumorAlongAxis(t *testing.T) {
	g, in, st := newTestGizmo()
	pr := frontView()

	in.Press(render.MouseButtonLeft, 215, 200)
	if !g.Update(&pr) {
		t.Fatal("Expected the gizmo to grab the x handle")
	}
	v := st.Version()

	in.Drag(render.MouseButtonLeft, 235, 230)
	if !g.Update(&pr) {
		t.Fatal("Expected the drag to stay captured")
	}
	tumor := st.Tumor()
	if math32.Abs(tumor[0]-0.5) > 1e-3 || tumor[1] != 0 || tumor[2] != 0 {
		t.Errorf("Expected tumor at (0.5, 0, 0), got %v", tumor)
	}
	if st.Version() == v {
		t.Error("Expected the move to bump the state version")
	}

	in.Drag(render.MouseButtonLeft, 600, 230)
	g.Update(&pr)
	if st.Tumor()[0] != 1 {
		t.Errorf("Expected tumor x clamped to 1, got %f", st.Tumor()[0])
	}

	in.Release(render.MouseButtonLeft)
	if g.Update(&pr) || g.Dragging() {
		t.Error("Expected release to drop the handle")
	}
}

func TestMissDoesNotCapture(t *testing.T) {
	g, in, st := newTestGizmo()
	pr := frontView()

	in.Press(render.MouseButtonLeft, 50, 50)
	if g.Update(&pr) {
		t.Error("Expected a miss to pass the pointer on")
	}
	in.Drag(render.MouseButtonLeft, 80, 80)
	if g.Update(&pr) {
		t.Error("Expected a drag after a miss to pass the pointer on")
	}
	if st.Tumor() != (vec3.T{}) {
		t.Errorf("Expected tumor untouched, got %v", st.Tumor())
	}
}

func TestDrawHandles(t *testing.T) {
	g, _, _ := newTestGizmo()
	r := g.renderer.(*rendertest.Renderer)
	pr := frontView()
	g.Draw(&rendertest.Image{W: 400, H: 400}, &pr)
	if r.Lines != 3 {
		t.Errorf("Expected 3 handle lines, got %d", r.Lines)
	}
}
