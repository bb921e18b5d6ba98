package lighting

import (
	"image/color"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// PointLight represents a single point light in the scene
type PointLight struct {
	Position  vec3.T  // World position
	Intensity float32 // Diffuse intensity (0.0 to 1.0 and above)
}

// Manager handles all light sources in the scene
type Manager struct {
	ambientLight float32 // Global ambient light level (0.0 = pitch black, 1.0 = fully lit)
	lights       []PointLight
}

// NewManager creates a new lighting manager
func NewManager(ambient float32) *Manager {
	return &Manager{
		ambientLight: ambient,
		lights:       make([]PointLight, 0),
	}
}

// AddPointLight adds a point light
func (m *Manager) AddPointLight(light PointLight) {
	m.lights = append(m.lights, light)
}

// Irradiance returns the Lambert light level at position p with unit normal n
func (m *Manager) Irradiance(p, n vec3.T) float32 {
	level := m.ambientLight
	for _, l := range m.lights {
		toLight := vec3.Sub(&l.Position, &p)
		toLight.Normalize()
		if d := vec3.Dot(&n, &toLight); d > 0 {
			level += d * l.Intensity
		}
	}
	return level
}

// Shade lights base with a flat face at p facing n. Alpha is kept.
func (m *Manager) Shade(base color.NRGBA, p, n vec3.T) color.NRGBA {
	level := m.Irradiance(p, n)
	scale := func(c uint8) uint8 {
		return uint8(math32.Min(float32(c)*level, 255))
	}
	return color.NRGBA{scale(base.R), scale(base.G), scale(base.B), base.A}
}
