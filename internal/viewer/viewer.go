// Package viewer is the interactive dose viewer: it owns the shared scene
// state, regenerates the dose field when the state changes and drives the
// camera, gizmo and control panel from user input.
package viewer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/camera"
	"chosenoffset.com/radsim/internal/dose"
	"chosenoffset.com/radsim/internal/render"
	"chosenoffset.com/radsim/internal/render/lighting"
	"chosenoffset.com/radsim/internal/render/volume"
	"chosenoffset.com/radsim/internal/scene"
	"chosenoffset.com/radsim/internal/simulation"
	"chosenoffset.com/radsim/internal/ui/gizmo"
	"chosenoffset.com/radsim/internal/ui/hud"
	"chosenoffset.com/radsim/internal/ui/panel"
)

// Viewer implements render.Game.
type Viewer struct {
	renderer render.Renderer
	input    render.InputManager
	config   *simulation.Config

	// Dose field
	state        *scene.State
	params       dose.Params
	field        *dose.Field
	fieldVersion uint64
	regen        time.Duration

	// Scene
	body     *scene.Node
	tumor    *scene.Node
	headCone *scene.Mesh
	camera   *camera.Orbit
	lights   *lighting.Manager
	volume   *volume.Volume
	style    volume.Style

	// Controls
	panel *panel.Panel
	gizmo *gizmo.Gizmo
	hud   *hud.HUD

	showVolume bool
	showHUD    bool

	// Orbit drag
	dragging     bool
	dragButton   render.MouseButton
	lastX, lastY int
	touching     bool
	touchX       int
	touchY       int

	start time.Time
	now   func() time.Time

	ScreenWidth  int
	ScreenHeight int

	// Per-frame buffers
	whiteImg  render.Image
	triangles []triangle
	vertices  []render.Vertex
	indices   []uint16
}

func vec(a [3]float64) vec3.T {
	return vec3.T{float32(a[0]), float32(a[1]), float32(a[2])}
}

func color3(a [3]float64) [3]float32 {
	return [3]float32{float32(a[0]), float32(a[1]), float32(a[2])}
}

// New builds the viewer from cfg and generates the initial dose field. It
// fails when the volume shader cannot be compiled.
func New(r render.Renderer, input render.InputManager, cfg *simulation.Config) (*Viewer, error) {
	vol, err := volume.New(r)
	if err != nil {
		return nil, err
	}

	beams := make([]vec3.T, len(cfg.Scene.Beams))
	for i, b := range cfg.Scene.Beams {
		beams[i] = vec(b)
	}
	state := scene.NewState(
		vec(cfg.Scene.Tumor),
		float32(cfg.Scene.BeamIntensity),
		float32(cfg.Dose.Threshold),
		cfg.Dose.IntensityScalesDose,
	)
	state.SetBeams(beams)

	lights := lighting.NewManager(float32(cfg.Lighting.Ambient))
	lights.AddPointLight(lighting.PointLight{
		Position:  vec(cfg.Lighting.PointPosition),
		Intensity: float32(cfg.Lighting.PointIntensity),
	})

	w, h := cfg.Window.Width, cfg.Window.Height
	hudConfig := &hud.HUDConfig{
		ShowDoseBar: cfg.HUD.ShowDoseBar,
		ShowTiming:  cfg.HUD.ShowTiming,
		ShowFPS:     cfg.HUD.ShowFPS,
		Position:    cfg.HUD.Position,
		Opacity:     cfg.HUD.Opacity,
	}
	v := &Viewer{
		renderer: r,
		input:    input,
		config:   cfg,
		state:    state,
		params: dose.Params{
			GridSize:            cfg.Dose.GridSize,
			TumorWeight:         float32(cfg.Dose.TumorWeight),
			TumorSteepness:      float32(cfg.Dose.TumorSteepness),
			BeamWeight:          float32(cfg.Dose.BeamWeight),
			BeamSteepness:       float32(cfg.Dose.BeamSteepness),
			IntensityScalesDose: cfg.Dose.IntensityScalesDose,
		},
		tumor:    scene.NewTumor(float32(cfg.Scene.TumorRadius)),
		headCone: scene.HeadCone(),
		camera:   camera.NewOrbit(vec(cfg.Camera.Position), vec(cfg.Camera.Target), float32(cfg.Camera.FOV), w, h),
		lights:   lights,
		volume:   vol,
		style: volume.Style{
			Opacity: float32(cfg.Dose.Opacity),
			Low:     color3(cfg.Dose.LowColor),
			High:    color3(cfg.Dose.HighColor),
		},
		gizmo:        gizmo.New(r, input, state),
		hud:          hud.New(r, hudConfig, w, h),
		showVolume:   true,
		showHUD:      true,
		now:          time.Now,
		ScreenWidth:  w,
		ScreenHeight: h,
	}
	if cfg.Scene.ShowBody {
		v.body = scene.NewBody()
	}
	v.start = v.now()
	v.panel = v.buildPanel(w)

	if err := v.regenerate(); err != nil {
		vol.Dispose()
		return nil, err
	}
	return v, nil
}

// buildPanel creates the Tumor, Beam and Dose folders.
func (v *Viewer) buildPanel(width int) *panel.Panel {
	p := panel.New(v.renderer, v.input, width)
	axis := func(label string, i int) *panel.Slider {
		return &panel.Slider{
			Label: label,
			Min:   scene.CoordMin,
			Max:   scene.CoordMax,
			Get:   func() float32 { return v.state.Tumor()[i] },
			Set:   func(x float32) { v.state.SetTumorAxis(i, x) },
		}
	}
	p.AddFolder("Tumor", axis("x", 0), axis("y", 1), axis("z", 2))
	p.AddFolder("Beam", &panel.Slider{
		Label: "intensity",
		Min:   scene.IntensityMin,
		Max:   scene.IntensityMax,
		Get:   v.state.Intensity,
		Set:   v.state.SetIntensity,
	})
	p.AddFolder("Dose", &panel.Slider{
		Label: "threshold",
		Min:   0,
		Max:   1,
		Get:   v.state.Threshold,
		Set:   v.state.SetThreshold,
	})
	return p
}

// State returns the shared scene state.
func (v *Viewer) State() *scene.State {
	return v.state
}

// Field returns the current dose field.
func (v *Viewer) Field() *dose.Field {
	return v.field
}

// regenerate rebuilds the dose field from the current state and uploads it.
func (v *Viewer) regenerate() error {
	snap := v.state.Snapshot()
	v.fieldVersion = snap.Version

	start := time.Now()
	f, err := dose.Generate(context.Background(), v.params, dose.Sources{
		Tumor:     snap.Tumor,
		Beams:     snap.Beams,
		Intensity: snap.Intensity,
	})
	if err != nil {
		return fmt.Errorf("failed to generate dose field: %w", err)
	}
	v.regen = time.Since(start)
	v.field = f
	v.volume.Upload(f)
	log.Printf("Dose field %d^3 regenerated in %s", f.Size, v.regen)
	return nil
}

// Update handles input and keeps the dose field in sync with the state.
func (v *Viewer) Update() error {
	pr := v.camera.Projector()

	// Panel first, then gizmo, then orbit: each one only sees the pointer
	// if the previous did not take it.
	captured := v.panel.Update()
	if !captured {
		captured = v.gizmo.Update(&pr)
	}
	v.updateCamera(captured)
	v.handleKeys()

	if v.state.Version() != v.fieldVersion {
		if err := v.regenerate(); err != nil {
			log.Printf("Keeping previous dose field: %v", err)
		}
	}
	return nil
}

// updateCamera orbits on left drag, pans on right drag, zooms on the wheel
// and orbits on a single-finger touch drag.
func (v *Viewer) updateCamera(captured bool) {
	mx, my := v.input.GetCursorPosition()
	if captured {
		v.dragging = false
		return
	}

	for _, b := range []render.MouseButton{render.MouseButtonLeft, render.MouseButtonRight} {
		if v.input.IsMouseButtonJustPressed(b) && !v.panel.Contains(mx, my) {
			v.dragging = true
			v.dragButton = b
			v.lastX, v.lastY = mx, my
		}
	}
	if v.dragging {
		if !v.input.IsMouseButtonPressed(v.dragButton) {
			v.dragging = false
		} else {
			dx, dy := float32(mx-v.lastX), float32(my-v.lastY)
			if v.dragButton == render.MouseButtonLeft {
				v.camera.Rotate(dx, dy)
			} else {
				v.camera.Pan(dx, dy)
			}
			v.lastX, v.lastY = mx, my
		}
	}

	if _, wy := v.input.Wheel(); wy != 0 && !v.panel.Contains(mx, my) {
		v.camera.Zoom(float32(wy))
	}

	tx, ty, ok := v.input.PrimaryTouch()
	if !ok {
		v.touching = false
		return
	}
	if v.touching {
		v.camera.Rotate(float32(tx-v.touchX), float32(ty-v.touchY))
	}
	v.touching = true
	v.touchX, v.touchY = tx, ty
}

func (v *Viewer) handleKeys() {
	if v.input.IsKeyJustPressed(render.KeyR) {
		v.camera.Reset()
	}
	if v.input.IsKeyJustPressed(render.KeyV) {
		v.showVolume = !v.showVolume
	}
	if v.input.IsKeyJustPressed(render.KeyH) {
		v.showHUD = !v.showHUD
	}
}

// Layout handles window resize.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.ScreenWidth || outsideHeight != v.ScreenHeight {
		v.ScreenWidth = outsideWidth
		v.ScreenHeight = outsideHeight
		v.camera.SetViewport(outsideWidth, outsideHeight)
		v.panel.SetScreenWidth(outsideWidth)
		v.hud.SetScreenSize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Stats summarizes the current field for the HUD.
func (v *Viewer) Stats() hud.Stats {
	tumor := v.state.Tumor()
	i, j, k := v.field.Index(tumor)
	return hud.Stats{
		Tumor:     tumor,
		TumorDose: v.field.Value(i, j, k),
		PeakDose:  float32(v.field.Max()) / 255,
		GridSize:  v.field.Size,
		Regen:     v.regen,
		Threshold: v.state.Threshold(),
	}
}
