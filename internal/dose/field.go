package dose

import (
	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
)

// Axis names a grid axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Field is a cubic grid of 8-bit dose samples. Samples are stored x fastest,
// then y, then z.
type Field struct {
	Size    int
	Samples []uint8
}

func newField(size int) *Field {
	return &Field{Size: size, Samples: make([]uint8, size*size*size)}
}

func (f *Field) index(i, j, k int) int {
	return (k*f.Size+j)*f.Size + i
}

// At returns the sample of cell (i, j, k).
func (f *Field) At(i, j, k int) uint8 {
	return f.Samples[f.index(i, j, k)]
}

// Value returns the sample of cell (i, j, k) scaled back to [0, 1].
func (f *Field) Value(i, j, k int) float32 {
	return float32(f.At(i, j, k)) / 255
}

// Coord maps a cell index onto [-1, 1).
func (f *Field) Coord(i int) float32 {
	return -1 + float32(i)*2/float32(f.Size)
}

// Point returns the position sampled by cell (i, j, k).
func (f *Field) Point(i, j, k int) vec3.T {
	return vec3.T{f.Coord(i), f.Coord(j), f.Coord(k)}
}

// Index returns the cell nearest to p, clamped into the grid.
func (f *Field) Index(p vec3.T) (i, j, k int) {
	return f.cell(p[0]), f.cell(p[1]), f.cell(p[2])
}

func (f *Field) cell(c float32) int {
	n := int(math32.Floor((c+1)*float32(f.Size)/2 + 0.5))
	if n < 0 {
		return 0
	}
	if n >= f.Size {
		return f.Size - 1
	}
	return n
}

// Max returns the largest sample.
func (f *Field) Max() uint8 {
	var m uint8
	for _, s := range f.Samples {
		if s > m {
			m = s
		}
	}
	return m
}

// Slice returns plane n perpendicular to axis as a Size×Size row-major
// image. Columns and rows follow the remaining axes in xyz order: (x, y) for
// AxisZ, (x, z) for AxisY and (y, z) for AxisX.
func (f *Field) Slice(axis Axis, n int) []uint8 {
	size := f.Size
	out := make([]uint8, size*size)
	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			var s uint8
			switch axis {
			case AxisX:
				s = f.At(n, u, v)
			case AxisY:
				s = f.At(u, n, v)
			default:
				s = f.At(u, v, n)
			}
			out[v*size+u] = s
		}
	}
	return out
}
