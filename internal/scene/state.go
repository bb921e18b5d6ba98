// Package scene holds the shared editable state of the viewer and builds the
// body, tumor and beam geometry from it.
package scene

import (
	"github.com/ungerik/go3d/vec3"
)

// Ranges enforced by the setters.
const (
	CoordMin     = -1
	CoordMax     = 1
	IntensityMin = 0
	IntensityMax = 2
)

// State is the state shared between the control widgets and the renderer.
// Widgets write through the setters; the renderer reads a Snapshot once per
// frame and regenerates the dose field when Version moves.
type State struct {
	tumor     vec3.T
	beams     []vec3.T
	intensity float32
	threshold float32

	// intensityInField makes intensity edits dose-relevant
	intensityInField bool
	version          uint64
}

// Snapshot is an immutable copy of State.
type Snapshot struct {
	Tumor     vec3.T
	Beams     []vec3.T
	Intensity float32
	Threshold float32
	Version   uint64
}

// NewState creates a state without beams, with every value clamped into
// range. Add beams with SetBeams.
func NewState(tumor vec3.T, intensity, threshold float32, intensityInField bool) *State {
	s := &State{intensityInField: intensityInField, version: 1}
	s.tumor = clampPoint(tumor)
	s.intensity = clamp(intensity, IntensityMin, IntensityMax)
	s.threshold = clamp(threshold, 0, 1)
	return s
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPoint(p vec3.T) vec3.T {
	for i := range p {
		p[i] = clamp(p[i], CoordMin, CoordMax)
	}
	return p
}

func clampPoints(ps []vec3.T) []vec3.T {
	out := make([]vec3.T, len(ps))
	for i, p := range ps {
		out[i] = clampPoint(p)
	}
	return out
}

// Tumor returns the tumor position.
func (s *State) Tumor() vec3.T { return s.tumor }

// SetTumor moves the tumor, clamping each coordinate to [-1, 1].
func (s *State) SetTumor(p vec3.T) {
	p = clampPoint(p)
	if p == s.tumor {
		return
	}
	s.tumor = p
	s.version++
}

// SetTumorAxis moves the tumor along one axis (0 = x, 1 = y, 2 = z).
func (s *State) SetTumorAxis(axis int, v float32) {
	p := s.tumor
	p[axis] = v
	s.SetTumor(p)
}

// Beams returns a copy of the beam source positions.
func (s *State) Beams() []vec3.T {
	return append([]vec3.T(nil), s.beams...)
}

// SetBeams replaces the beam sources, clamping each coordinate to [-1, 1].
func (s *State) SetBeams(beams []vec3.T) {
	s.beams = clampPoints(beams)
	s.version++
}

// Intensity returns the beam intensity.
func (s *State) Intensity() float32 { return s.intensity }

// SetIntensity sets the beam intensity, clamped to [0, 2].
func (s *State) SetIntensity(v float32) {
	v = clamp(v, IntensityMin, IntensityMax)
	if v == s.intensity {
		return
	}
	s.intensity = v
	if s.intensityInField {
		s.version++
	}
}

// Threshold returns the dose display threshold.
func (s *State) Threshold() float32 { return s.threshold }

// SetThreshold sets the dose display threshold, clamped to [0, 1]. It only
// affects shading, so the version does not move.
func (s *State) SetThreshold(v float32) {
	s.threshold = clamp(v, 0, 1)
}

// Version increases whenever an input of the dose field changes.
func (s *State) Version() uint64 { return s.version }

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Tumor:     s.tumor,
		Beams:     s.Beams(),
		Intensity: s.intensity,
		Threshold: s.threshold,
		Version:   s.version,
	}
}
