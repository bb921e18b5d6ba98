// Package gizmo implements a translate gizmo: three axis handles drawn at the
// tumor that move it along one axis when dragged.
package gizmo

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/camera"
	"chosenoffset.com/radsim/internal/render"
	"chosenoffset.com/radsim/internal/scene"
)

const (
	// HandleLength is the world length of each axis handle
	HandleLength = 0.5
	// PickRadius is how close in pixels the cursor must be to grab a handle
	PickRadius = 8
)

var axisColors = [3]color.RGBA{
	{255, 64, 64, 255},
	{64, 220, 64, 255},
	{64, 96, 255, 255},
}

var activeColor = color.RGBA{255, 255, 0, 255}

// Gizmo drags the tumor of a State.
type Gizmo struct {
	state    *scene.State
	input    render.InputManager
	renderer render.Renderer

	active       int // axis being dragged, -1 when idle
	lastX, lastY int
}

// New creates a gizmo editing state.
func New(r render.Renderer, input render.InputManager, state *scene.State) *Gizmo {
	return &Gizmo{state: state, input: input, renderer: r, active: -1}
}

// Dragging reports whether a handle is held.
func (g *Gizmo) Dragging() bool {
	return g.active >= 0
}

func unitAxis(axis int) vec3.T {
	var v vec3.T
	v[axis] = 1
	return v
}

// handle returns the screen segment of one axis handle.
func (g *Gizmo) handle(pr *camera.Projector, axis int) (x0, y0, x1, y1 float32, ok bool) {
	origin := g.state.Tumor()
	dir := unitAxis(axis)
	dir.Scale(HandleLength)
	tip := vec3.Add(&origin, &dir)
	x0, y0, _, ok0 := pr.Project(origin)
	x1, y1, _, ok1 := pr.Project(tip)
	return x0, y0, x1, y1, ok0 && ok1
}

// segmentDistance returns the distance from (px, py) to the segment a-b.
func segmentDistance(px, py, ax, ay, bx, by float32) float32 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	t := float32(0)
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		t = math32.Max(0, math32.Min(1, t))
	}
	return math32.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// Pick returns the axis whose handle is nearest to (x, y) within PickRadius,
// or -1.
func (g *Gizmo) Pick(pr *camera.Projector, x, y int) int {
	best := -1
	bestDist := float32(PickRadius)
	for axis := 0; axis < 3; axis++ {
		x0, y0, x1, y1, ok := g.handle(pr, axis)
		if !ok {
			continue
		}
		if d := segmentDistance(float32(x), float32(y), x0, y0, x1, y1); d <= bestDist {
			best = axis
			bestDist = d
		}
	}
	return best
}

// AxisDelta converts a cursor movement into a displacement along a handle
// whose unit world vector spans (sx, sy) on screen.
func AxisDelta(dx, dy, sx, sy float32) float32 {
	lenSq := sx*sx + sy*sy
	if lenSq < 1e-6 {
		return 0
	}
	return (dx*sx + dy*sy) / lenSq
}

// Update grabs, drags and releases handles. It returns true while the gizmo
// owns the pointer.
func (g *Gizmo) Update(pr *camera.Projector) bool {
	mx, my := g.input.GetCursorPosition()
	if !g.input.IsMouseButtonPressed(render.MouseButtonLeft) {
		g.active = -1
		return false
	}

	if g.input.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		g.active = g.Pick(pr, mx, my)
		g.lastX, g.lastY = mx, my
		return g.active >= 0
	}
	if g.active < 0 {
		return false
	}

	tumor := g.state.Tumor()
	sx, sy, ok := pr.ScreenDir(tumor, unitAxis(g.active))
	if ok {
		d := AxisDelta(float32(mx-g.lastX), float32(my-g.lastY), sx, sy)
		g.state.SetTumorAxis(g.active, tumor[g.active]+d)
	}
	g.lastX, g.lastY = mx, my
	return true
}

// Draw renders the three handles.
func (g *Gizmo) Draw(screen render.Image, pr *camera.Projector) {
	for axis := 0; axis < 3; axis++ {
		x0, y0, x1, y1, ok := g.handle(pr, axis)
		if !ok {
			continue
		}
		var clr color.Color = axisColors[axis]
		if axis == g.active {
			clr = activeColor
		}
		g.renderer.StrokeLine(screen, x0, y0, x1, y1, 3, clr)
		g.renderer.FillCircle(screen, x1, y1, 5, clr)
	}
}
