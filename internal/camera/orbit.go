// Package camera implements an orbit camera: it circles a target point and
// projects world positions onto the screen with a pinhole perspective.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// Orbit limits.
const (
	MinDistance = 0.5
	MaxDistance = 50
	polarMargin = 0.01
	zoomStep    = 0.95
)

// Orbit is a camera orbiting Target at Distance, placed by its azimuth
// (around +Y, measured from +Z) and polar angle (from +Y).
type Orbit struct {
	Target   vec3.T
	Distance float32
	Azimuth  float32
	Polar    float32
	FOV      float32 // vertical, radians
	Near     float32
	Width    int
	Height   int

	home pose
}

// pose is the placement an Orbit returns to on Reset.
type pose struct {
	Target   vec3.T
	Distance float32
	Azimuth  float32
	Polar    float32
}

// Basis is the camera frame for one pose.
type Basis struct {
	Eye     vec3.T
	Right   vec3.T
	Up      vec3.T
	Forward vec3.T
}

// NewOrbit creates a camera at eye looking at target. An eye on the target
// falls back to a side view at MinDistance.
func NewOrbit(eye, target vec3.T, fovDegrees float32, width, height int) *Orbit {
	offset := vec3.Sub(&eye, &target)
	dist := offset.Length()
	o := &Orbit{
		Target: target,
		FOV:    fovDegrees * math32.Pi / 180,
		Near:   0.1,
		Width:  width,
		Height: height,
	}
	if dist > 1e-6 {
		o.Distance = dist
		o.Azimuth = math32.Atan2(offset[0], offset[2])
		o.Polar = math32.Acos(math32.Max(-1, math32.Min(1, offset[1]/dist)))
	} else {
		o.Distance = MinDistance
		o.Polar = math32.Pi / 2
	}
	o.clamp()
	o.home = pose{Target: o.Target, Distance: o.Distance, Azimuth: o.Azimuth, Polar: o.Polar}
	return o
}

// Reset restores the initial pose.
func (o *Orbit) Reset() {
	o.Target = o.home.Target
	o.Distance = o.home.Distance
	o.Azimuth = o.home.Azimuth
	o.Polar = o.home.Polar
	o.clamp()
}

// SetViewport updates the screen size used for projection.
func (o *Orbit) SetViewport(width, height int) {
	o.Width = width
	o.Height = height
}

func (o *Orbit) clamp() {
	o.Polar = math32.Max(polarMargin, math32.Min(math32.Pi-polarMargin, o.Polar))
	o.Distance = math32.Max(MinDistance, math32.Min(MaxDistance, o.Distance))
}

// Eye returns the camera position.
func (o *Orbit) Eye() vec3.T {
	sp, cp := math32.Sincos(o.Polar)
	sa, ca := math32.Sincos(o.Azimuth)
	return vec3.T{
		o.Target[0] + o.Distance*sp*sa,
		o.Target[1] + o.Distance*cp,
		o.Target[2] + o.Distance*sp*ca,
	}
}

// Basis returns the camera frame.
func (o *Orbit) Basis() Basis {
	eye := o.Eye()
	forward := vec3.Sub(&o.Target, &eye)
	forward.Normalize()
	worldUp := vec3.T{0, 1, 0}
	right := vec3.Cross(&forward, &worldUp)
	right.Normalize()
	up := vec3.Cross(&right, &forward)
	return Basis{Eye: eye, Right: right, Up: up, Forward: forward}
}

// focal returns the projection scale in pixels per unit at depth 1.
func (o *Orbit) focal() float32 {
	return float32(o.Height) / 2 / math32.Tan(o.FOV/2)
}

// Rotate orbits by a cursor movement of (dx, dy) pixels. A drag across the
// full screen height turns the camera once around.
func (o *Orbit) Rotate(dx, dy float32) {
	if o.Height == 0 {
		return
	}
	k := 2 * math32.Pi / float32(o.Height)
	o.Azimuth -= dx * k
	o.Polar -= dy * k
	o.clamp()
}

// Pan moves the target in the view plane so the point under the cursor
// follows a movement of (dx, dy) pixels.
func (o *Orbit) Pan(dx, dy float32) {
	if o.Height == 0 {
		return
	}
	b := o.Basis()
	perPixel := o.Distance / o.focal()
	right := b.Right.Scaled(-dx * perPixel)
	up := b.Up.Scaled(dy * perPixel)
	o.Target.Add(&right)
	o.Target.Add(&up)
}

// Zoom dollies towards the target for positive steps and away for negative.
func (o *Orbit) Zoom(steps float32) {
	o.Distance *= math32.Pow(zoomStep, steps)
	o.clamp()
}

// Projector projects points for one frame. Build it once per frame with
// Orbit.Projector and reuse it for every vertex.
type Projector struct {
	Basis
	near   float32
	focal  float32
	cx, cy float32
}

// Projector captures the current pose.
func (o *Orbit) Projector() Projector {
	return Projector{
		Basis: o.Basis(),
		near:  o.Near,
		focal: o.focal(),
		cx:    float32(o.Width) / 2,
		cy:    float32(o.Height) / 2,
	}
}

// Project maps p to screen pixels. depth is the distance along the view
// direction; ok is false for points in front of the near plane.
func (pr *Projector) Project(p vec3.T) (x, y, depth float32, ok bool) {
	d := vec3.Sub(&p, &pr.Eye)
	depth = vec3.Dot(&d, &pr.Forward)
	if depth < pr.near {
		return 0, 0, depth, false
	}
	s := pr.focal / depth
	x = pr.cx + vec3.Dot(&d, &pr.Right)*s
	y = pr.cy - vec3.Dot(&d, &pr.Up)*s
	return x, y, depth, true
}

// ScreenDir returns the screen-space displacement of moving from p along
// world direction dir by one unit, linearized at p.
func (pr *Projector) ScreenDir(p, dir vec3.T) (dx, dy float32, ok bool) {
	x0, y0, _, ok0 := pr.Project(p)
	q := vec3.Add(&p, &dir)
	x1, y1, _, ok1 := pr.Project(q)
	if !ok0 || !ok1 {
		return 0, 0, false
	}
	return x1 - x0, y1 - y0, true
}
