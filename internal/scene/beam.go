package scene

import (
	"image/color"
	"math"
	"time"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// Arrow is a beam indicator from a source to its target, split into a shaft
// segment and a cone head the way an arrow helper draws it.
type Arrow struct {
	Start    vec3.T
	ShaftEnd vec3.T
	Head     Transform // maps the unit head cone onto the arrow tip
}

// Arrow head proportions relative to the arrow length.
const (
	HeadLengthRatio = 0.2
	HeadWidthRatio  = 0.2 // of the head length
)

// HeadCone is the unit cone placed by Arrow.Head: base radius 0.5 at y = 0,
// apex at y = 1.
func HeadCone() *Mesh {
	return Cone(0.5, 1, 12)
}

// NewArrow builds the arrow from start to end. ok is false when the two
// points coincide and there is no direction to draw.
func NewArrow(start, end vec3.T) (a Arrow, ok bool) {
	dir := vec3.Sub(&end, &start)
	length := dir.Length()
	if length < 1e-6 {
		return Arrow{}, false
	}
	dir.Scale(1 / length)

	headLength := length * HeadLengthRatio
	headWidth := headLength * HeadWidthRatio
	shaft := dir.Scaled(length - headLength)
	shaftEnd := vec3.Add(&start, &shaft)

	return Arrow{
		Start:    start,
		ShaftEnd: shaftEnd,
		Head:     Align(shaftEnd, dir, headWidth, headLength),
	}, true
}

// beamPulseRate is the angular rate of the beam pulse in radians per ms.
const beamPulseRate = 0.005

// BeamOpacity is the pulsing beam opacity 0.5 + 0.2·sin(0.005·t) with t in
// milliseconds. t is reduced to one period in float64 before narrowing.
func BeamOpacity(elapsed time.Duration) float32 {
	ms := math.Mod(float64(elapsed)/float64(time.Millisecond), 2*math.Pi/beamPulseRate)
	return 0.5 + math32.Sin(float32(ms*beamPulseRate))*0.2
}

// BeamStyle returns the beam color for the elapsed time and intensity:
// yellow scaled by intensity (each channel saturating at 1) with the pulsing
// opacity as alpha.
func BeamStyle(elapsed time.Duration, intensity float32) color.NRGBA {
	c := uint8(math32.Min(intensity, 1) * 255)
	return color.NRGBA{
		R: c,
		G: c,
		B: 0,
		A: uint8(BeamOpacity(elapsed) * 255),
	}
}
