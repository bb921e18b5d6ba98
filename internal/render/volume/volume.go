// Package volume uploads a dose field as a volume texture and draws it as a
// stack of textured slices with a threshold shader.
//
// A 3D texture is emulated with one 2D atlas per axis holding every slice of
// that axis side by side. At draw time the axis most aligned with the view
// direction is picked and its slices are drawn back to front.
package volume

import (
	_ "embed"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/camera"
	"chosenoffset.com/radsim/internal/dose"
	"chosenoffset.com/radsim/internal/render"
)

//go:embed dose.kage
var shaderSrc []byte

// Style controls how samples are colored.
type Style struct {
	Threshold float32    // samples below are discarded (0-1)
	Opacity   float32    // alpha of a fully dosed sample
	Low       [3]float32 // color at dose 0
	High      [3]float32 // color at dose 1
}

// Layout returns the number of tile columns and the pixel size of the atlas
// holding size slices of size×size samples.
func Layout(size int) (cols, width, height int) {
	cols = int(math32.Ceil(math32.Sqrt(float32(size))))
	rows := (size + cols - 1) / cols
	return cols, cols * size, rows * size
}

// AtlasPixels lays out every slice of f along axis as premultiplied RGBA
// bytes. The dose sits in the red channel; alpha is opaque.
func AtlasPixels(f *dose.Field, axis dose.Axis) []byte {
	size := f.Size
	cols, width, height := Layout(size)
	pix := make([]byte, width*height*4)
	for n := 0; n < size; n++ {
		tx := (n % cols) * size
		ty := (n / cols) * size
		slice := f.Slice(axis, n)
		for v := 0; v < size; v++ {
			row := ((ty+v)*width + tx) * 4
			for u := 0; u < size; u++ {
				s := slice[v*size+u]
				o := row + u*4
				pix[o] = s
				pix[o+1] = s
				pix[o+2] = s
				pix[o+3] = 0xff
			}
		}
	}
	return pix
}

// SliceDensity scales the per-slice opacity so that denser grids do not
// saturate faster than coarse ones.
func SliceDensity(size int) float32 {
	return math32.Min(1, 16/float32(size))
}

// Volume owns the atlases and the shader.
type Volume struct {
	renderer render.Renderer
	shader   render.Shader
	atlases  [3]render.Image
	size     int

	vertices []render.Vertex
	indices  []uint16
}

// New compiles the threshold shader.
func New(r render.Renderer) (*Volume, error) {
	shader, err := r.CompileShader(shaderSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile dose shader: %w", err)
	}
	return &Volume{renderer: r, shader: shader}, nil
}

// Size returns the grid resolution of the uploaded field, or 0.
func (v *Volume) Size() int {
	return v.size
}

// Upload writes f into the atlases, reallocating them when the grid size changes.
func (v *Volume) Upload(f *dose.Field) {
	if f.Size != v.size {
		v.Dispose()
		_, w, h := Layout(f.Size)
		for i := range v.atlases {
			v.atlases[i] = v.renderer.NewImage(w, h)
		}
		v.size = f.Size
	}
	for i, atlas := range v.atlases {
		atlas.WritePixels(AtlasPixels(f, dose.Axis(i)))
	}
}

// Dispose releases the atlases.
func (v *Volume) Dispose() {
	for i, atlas := range v.atlases {
		if atlas != nil {
			atlas.Dispose()
			v.atlases[i] = nil
		}
	}
	v.size = 0
}

// ViewAxis returns the grid axis most aligned with forward and whether the
// view looks towards its positive end.
func ViewAxis(forward vec3.T) (axis dose.Axis, positive bool) {
	best := float32(-1)
	for i := range forward {
		if a := math32.Abs(forward[i]); a > best {
			best = a
			axis = dose.Axis(i)
		}
	}
	return axis, forward[axis] > 0
}

// slicePoint places in-plane coordinates (u, v) of a slice at depth c on axis.
func slicePoint(axis dose.Axis, u, v, c float32) vec3.T {
	switch axis {
	case dose.AxisX:
		return vec3.T{c, u, v}
	case dose.AxisY:
		return vec3.T{u, c, v}
	default:
		return vec3.T{u, v, c}
	}
}

// buildSlices fills the vertex and index buffers with the slices of one
// axis, farthest first.
func (v *Volume) buildSlices(pr *camera.Projector) (axis dose.Axis) {
	axis, positive := ViewAxis(pr.Forward)
	size := v.size
	cols, _, _ := Layout(size)

	// Pixel centers line up with the sample positions -1 + 2i/size
	half := 1 / float32(size)
	lo, hi := -1-half, 1-half
	corners := [4][2]float32{{lo, lo}, {hi, lo}, {hi, hi}, {lo, hi}}
	src := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	v.vertices = v.vertices[:0]
	v.indices = v.indices[:0]
	for step := 0; step < size; step++ {
		// Looking towards +axis the far slices have the largest index
		n := step
		if positive {
			n = size - 1 - step
		}
		c := -1 + 2*float32(n)/float32(size)
		tx := float32((n % cols) * size)
		ty := float32((n / cols) * size)

		base := uint16(len(v.vertices))
		visible := true
		var quad [4]render.Vertex
		for i, uv := range corners {
			x, y, _, ok := pr.Project(slicePoint(axis, uv[0], uv[1], c))
			if !ok {
				visible = false
				break
			}
			quad[i] = render.Vertex{
				DstX:   x,
				DstY:   y,
				SrcX:   tx + src[i][0]*float32(size),
				SrcY:   ty + src[i][1]*float32(size),
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			}
		}
		if !visible {
			continue
		}
		v.vertices = append(v.vertices, quad[:]...)
		v.indices = append(v.indices, base, base+1, base+2, base, base+2, base+3)
	}
	return axis
}

// Draw renders the uploaded field over dst.
func (v *Volume) Draw(dst render.Image, pr *camera.Projector, style Style) {
	if v.size == 0 {
		return
	}
	axis := v.buildSlices(pr)
	if len(v.indices) == 0 {
		return
	}
	dst.DrawTrianglesShader(v.vertices, v.indices, v.shader, &render.DrawTrianglesShaderOptions{
		Images: [4]render.Image{v.atlases[axis]},
		Uniforms: map[string]interface{}{
			"Threshold": style.Threshold,
			"Opacity":   style.Opacity * SliceDensity(v.size),
			"LowColor":  style.Low[:],
			"HighColor": style.High[:],
		},
	})
}
