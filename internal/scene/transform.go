package scene

import (
	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// Transform is an affine transform: a linear part stored as three column
// vectors followed by a translation.
type Transform struct {
	Cols  [3]vec3.T
	Trans vec3.T
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Cols: [3]vec3.T{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// Translation returns a pure translation.
func Translation(p vec3.T) Transform {
	t := Identity()
	t.Trans = p
	return t
}

// Euler returns the rotation for XYZ-ordered Euler angles in radians,
// R = Rx·Ry·Rz, followed by a translation to pos.
func Euler(pos, rot vec3.T) Transform {
	sx, cx := math32.Sincos(rot[0])
	sy, cy := math32.Sincos(rot[1])
	sz, cz := math32.Sincos(rot[2])
	return Transform{
		Cols: [3]vec3.T{
			{cy * cz, cx*sz + sx*sy*cz, sx*sz - cx*sy*cz},
			{-cy * sz, cx*cz - sx*sy*sz, sx*cz + cx*sy*sz},
			{sy, -sx * cy, cx * cy},
		},
		Trans: pos,
	}
}

// Align returns the transform mapping +Y onto dir, scaling the local X and Z
// axes by width and Y by length, then translating to origin. dir must be
// normalized.
func Align(origin, dir vec3.T, width, length float32) Transform {
	ref := vec3.T{1, 0, 0}
	if math32.Abs(dir[0]) > 0.9 {
		ref = vec3.T{0, 0, 1}
	}
	x := vec3.Cross(&dir, &ref)
	x.Normalize()
	z := vec3.Cross(&x, &dir)
	return Transform{
		Cols: [3]vec3.T{
			x.Scaled(width),
			dir.Scaled(length),
			z.Scaled(width),
		},
		Trans: origin,
	}
}

// Apply transforms a point.
func (t Transform) Apply(p vec3.T) vec3.T {
	return vec3.T{
		t.Cols[0][0]*p[0] + t.Cols[1][0]*p[1] + t.Cols[2][0]*p[2] + t.Trans[0],
		t.Cols[0][1]*p[0] + t.Cols[1][1]*p[1] + t.Cols[2][1]*p[2] + t.Trans[1],
		t.Cols[0][2]*p[0] + t.Cols[1][2]*p[1] + t.Cols[2][2]*p[2] + t.Trans[2],
	}
}

// Mul returns t·u, the transform applying u first and then t.
func (t Transform) Mul(u Transform) Transform {
	var m Transform
	for i := range u.Cols {
		m.Cols[i] = t.linear(u.Cols[i])
	}
	m.Trans = t.Apply(u.Trans)
	return m
}

func (t Transform) linear(v vec3.T) vec3.T {
	return vec3.T{
		t.Cols[0][0]*v[0] + t.Cols[1][0]*v[1] + t.Cols[2][0]*v[2],
		t.Cols[0][1]*v[0] + t.Cols[1][1]*v[1] + t.Cols[2][1]*v[2],
		t.Cols[0][2]*v[0] + t.Cols[1][2]*v[1] + t.Cols[2][2]*v[2],
	}
}
