package viewer

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/render"
	"chosenoffset.com/radsim/internal/render/rendertest"
	"chosenoffset.com/radsim/internal/simulation"
)

func testConfig() *simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.Window.Width = 800
	cfg.Window.Height = 600
	cfg.Dose.GridSize = 8
	return cfg
}

func newTestViewer(t *testing.T) (*Viewer, *rendertest.Renderer, *rendertest.Input) {
	t.Helper()
	r := rendertest.NewRenderer()
	in := rendertest.NewInput()
	v, err := New(r, in, testConfig())
	if err != nil {
		t.Fatalf("Failed to create viewer: %v", err)
	}
	return v, r, in
}

// tick runs one Update and clears the one-shot input flags.
func tick(t *testing.T, v *Viewer, in *rendertest.Input) {
	t.Helper()
	if err := v.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	for b := range in.JustPressed {
		in.JustPressed[b] = false
	}
	for k := range in.JustKeys {
		in.JustKeys[k] = false
	}
	in.WheelY = 0
}

func TestNewGeneratesField(t *testing.T) {
	v, r, _ := newTestViewer(t)
	f := v.Field()
	if f == nil || f.Size != 8 {
		t.Fatalf("Expected an 8^3 field, got %v", f)
	}
	if f.At(4, 4, 4) != 255 {
		t.Errorf("Expected saturated dose at the tumor cell, got %d", f.At(4, 4, 4))
	}
	if len(r.Images) != 3 {
		t.Errorf("Expected 3 volume atlases, got %d", len(r.Images))
	}
}

func TestNewFailsWithoutShader(t *testing.T) {
	r := rendertest.NewRenderer()
	r.ShaderError = errors.New("no rendering context")
	if _, err := New(r, rendertest.NewInput(), testConfig()); err == nil {
		t.Error("Expected shader failure to be reported")
	}
}

func TestSliderMovesTumorAndRegenerates(t *testing.T) {
	v, _, in := newTestViewer(t)
	before := v.Field()

	// Tumor x slider track spans [610, 742) at y in [32, 56)
	in.Press(render.MouseButtonLeft, 709, 40)
	tick(t, v, in)

	if got := v.State().Tumor()[0]; got < 0.49 || got > 0.51 {
		t.Errorf("Expected tumor x near 0.5, got %f", got)
	}
	if v.Field() == before {
		t.Error("Expected the field to be regenerated")
	}
	if v.fieldVersion != v.State().Version() {
		t.Errorf("Expected field version %d, got %d", v.State().Version(), v.fieldVersion)
	}
	if v.dragging {
		t.Error("Expected the panel to keep the camera still")
	}
}

func TestFailedRegenerationKeepsField(t *testing.T) {
	v, r, _ := newTestViewer(t)
	before := v.Field()
	uploads := len(r.Images)

	// A grid below the minimum makes every regeneration fail
	v.params.GridSize = 1
	v.State().SetTumorAxis(0, 0.5)
	tick(t, v, rendertest.NewInput())

	if v.Field() != before {
		t.Error("Expected the previous field to be kept")
	}
	if v.fieldVersion != v.State().Version() {
		t.Errorf("Expected field version %d so the failure is not retried, got %d", v.State().Version(), v.fieldVersion)
	}
	if len(r.Images) != uploads {
		t.Errorf("Expected no new atlases, got %d", len(r.Images)-uploads)
	}

	// The next edit regenerates once the parameters are usable again
	v.params.GridSize = 8
	v.State().SetTumorAxis(0, -0.5)
	tick(t, v, rendertest.NewInput())
	if v.Field() == before {
		t.Error("Expected a new field after the parameters recover")
	}
}

func TestThresholdDoesNotRegenerate(t *testing.T) {
	v, _, _ := newTestViewer(t)
	before := v.Field()
	v.State().SetThreshold(0.9)
	tick(t, v, rendertest.NewInput())
	if v.Field() != before {
		t.Error("Expected threshold changes to reuse the field")
	}
}

func TestLeftDragRotates(t *testing.T) {
	v, _, in := newTestViewer(t)
	azimuth := v.camera.Azimuth

	in.Press(render.MouseButtonLeft, 100, 300)
	tick(t, v, in)
	in.Drag(render.MouseButtonLeft, 160, 300)
	tick(t, v, in)

	if v.camera.Azimuth == azimuth {
		t.Error("Expected left drag to orbit the camera")
	}

	in.Release(render.MouseButtonLeft)
	tick(t, v, in)
	if v.dragging {
		t.Error("Expected release to end the orbit")
	}

	in.JustKeys[render.KeyR] = true
	tick(t, v, in)
	if v.camera.Azimuth != azimuth {
		t.Errorf("Expected R to reset azimuth to %f, got %f", azimuth, v.camera.Azimuth)
	}
}

func TestRightDragPans(t *testing.T) {
	v, _, in := newTestViewer(t)

	in.Press(render.MouseButtonRight, 100, 300)
	tick(t, v, in)
	in.Drag(render.MouseButtonRight, 140, 300)
	tick(t, v, in)

	if v.camera.Target == (vec3.T{}) {
		t.Error("Expected right drag to pan the target")
	}
}

func TestWheelZooms(t *testing.T) {
	v, _, in := newTestViewer(t)
	dist := v.camera.Distance
	in.X, in.Y = 100, 300
	in.WheelY = 1
	tick(t, v, in)
	if v.camera.Distance >= dist {
		t.Errorf("Expected wheel up to zoom in from %f, got %f", dist, v.camera.Distance)
	}
}

func TestTouchRotates(t *testing.T) {
	v, _, in := newTestViewer(t)
	azimuth := v.camera.Azimuth

	in.Touch = &image.Point{X: 100, Y: 300}
	tick(t, v, in)
	in.Touch = &image.Point{X: 150, Y: 300}
	tick(t, v, in)

	if v.camera.Azimuth == azimuth {
		t.Error("Expected touch drag to orbit the camera")
	}
}

func TestToggleKeys(t *testing.T) {
	v, _, in := newTestViewer(t)
	in.JustKeys[render.KeyV] = true
	in.JustKeys[render.KeyH] = true
	tick(t, v, in)
	if v.showVolume || v.showHUD {
		t.Error("Expected V and H to hide the volume and HUD")
	}
}

func TestLayoutResizes(t *testing.T) {
	v, _, _ := newTestViewer(t)
	w, h := v.Layout(1024, 768)
	if w != 1024 || h != 768 {
		t.Errorf("Expected 1024x768, got %dx%d", w, h)
	}
	if v.camera.Width != 1024 || v.camera.Height != 768 {
		t.Errorf("Expected camera viewport 1024x768, got %dx%d", v.camera.Width, v.camera.Height)
	}
}

func TestDraw(t *testing.T) {
	v, r, _ := newTestViewer(t)
	v.now = func() time.Time { return v.start.Add(time.Second) }
	screen := &rendertest.Image{W: 800, H: 600}
	v.Draw(screen)

	var meshCalls, shaderCalls int
	for _, c := range screen.Calls {
		if c.Shader != nil {
			shaderCalls++
		} else {
			meshCalls++
		}
	}
	if meshCalls == 0 {
		t.Error("Expected mesh triangles to be drawn")
	}
	if shaderCalls != 1 {
		t.Errorf("Expected one volume draw, got %d", shaderCalls)
	}
	for _, c := range screen.Calls {
		if len(c.Vertices) > render.MaxBatchVertices {
			t.Errorf("Batch of %d vertices exceeds the uint16 limit", len(c.Vertices))
		}
	}

	found := false
	for _, s := range r.Texts {
		if s == "Advanced 3D Radiotherapy Simulation" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the scene label, got %v", r.Texts)
	}
	// Two beam shafts plus three gizmo handles and the HUD threshold marker
	if r.Lines != 6 {
		t.Errorf("Expected 6 lines, got %d", r.Lines)
	}
}

func TestHUDFollowsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.HUD.ShowFPS = false
	cfg.HUD.ShowTiming = false
	r := rendertest.NewRenderer()
	v, err := New(r, rendertest.NewInput(), cfg)
	if err != nil {
		t.Fatalf("Failed to create viewer: %v", err)
	}
	v.Draw(&rendertest.Image{W: 800, H: 600})

	for _, s := range r.Texts {
		if strings.HasPrefix(s, "FPS") || strings.HasPrefix(s, "Regenerated") {
			t.Errorf("Expected the HUD config to hide %q", s)
		}
	}
}

func TestDrawSortsFarToNear(t *testing.T) {
	v, _, _ := newTestViewer(t)
	screen := &rendertest.Image{W: 800, H: 600}
	v.Draw(screen)

	for i := 1; i < len(v.triangles); i++ {
		if v.triangles[i].depth > v.triangles[i-1].depth {
			t.Fatalf("Triangle %d is farther than triangle %d", i, i-1)
		}
	}
}
