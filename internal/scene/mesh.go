package scene

import (
	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// Mesh is an indexed triangle list with counter-clockwise outward faces.
type Mesh struct {
	Positions []vec3.T
	Indices   []uint16
}

// Triangles returns the number of triangles in m.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// profilePoint is a point of a lathe profile: distance from the Y axis and height.
type profilePoint struct {
	r, y float32
}

// lathe revolves a bottom-to-top profile around the Y axis.
func lathe(profile []profilePoint, segments int) *Mesh {
	m := &Mesh{
		Positions: make([]vec3.T, 0, len(profile)*segments),
		Indices:   make([]uint16, 0, (len(profile)-1)*segments*6),
	}
	for _, p := range profile {
		for s := 0; s < segments; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(segments)
			sin, cos := math32.Sincos(theta)
			m.Positions = append(m.Positions, vec3.T{p.r * sin, p.y, p.r * cos})
		}
	}
	for ring := 0; ring+1 < len(profile); ring++ {
		a := ring * segments
		b := a + segments
		for s := 0; s < segments; s++ {
			s1 := (s + 1) % segments
			if profile[ring].r != 0 {
				m.Indices = append(m.Indices, uint16(a+s), uint16(a+s1), uint16(b+s1))
			}
			if profile[ring+1].r != 0 {
				m.Indices = append(m.Indices, uint16(a+s), uint16(b+s1), uint16(b+s))
			}
		}
	}
	return m
}

// arc appends the quarter or half circle of radius r centered at height y,
// sweeping from angle from to angle to (radians from the horizontal).
func arc(dst []profilePoint, r, y, from, to float32, steps int) []profilePoint {
	for i := 0; i <= steps; i++ {
		phi := from + (to-from)*float32(i)/float32(steps)
		sin, cos := math32.Sincos(phi)
		dst = append(dst, profilePoint{r: r * cos, y: y + r*sin})
	}
	return dst
}

// Sphere builds a UV sphere centered at the origin.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	profile := arc(nil, radius, 0, -math32.Pi/2, math32.Pi/2, heightSegments)
	profile[0].r = 0
	profile[len(profile)-1].r = 0
	return lathe(profile, widthSegments)
}

// Capsule builds a Y-aligned capsule: a cylinder of the given length capped
// by hemispheres, so its total height is length + 2·radius.
func Capsule(radius, length float32, capSegments, radialSegments int) *Mesh {
	half := length / 2
	profile := arc(nil, radius, -half, -math32.Pi/2, 0, capSegments)
	profile = arc(profile, radius, half, 0, math32.Pi/2, capSegments)
	profile[0].r = 0
	profile[len(profile)-1].r = 0
	return lathe(profile, radialSegments)
}

// Cone builds a closed cone with its base disc at y = 0 and apex at y = height.
func Cone(radius, height float32, segments int) *Mesh {
	return lathe([]profilePoint{
		{0, 0},
		{radius, 0},
		{0, height},
	}, segments)
}
