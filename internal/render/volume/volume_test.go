package volume

import (
	"context"
	"errors"
	"testing"

	"github.com/ungerik/go3d/vec3"

	"chosenoffset.com/radsim/internal/camera"
	"chosenoffset.com/radsim/internal/dose"
	"chosenoffset.com/radsim/internal/render/rendertest"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		size, cols, w, h int
	}{
		{64, 8, 512, 512},
		{32, 6, 192, 192},
		{2, 2, 4, 2},
	}
	for _, tt := range tests {
		cols, w, h := Layout(tt.size)
		if cols != tt.cols || w != tt.w || h != tt.h {
			t.Errorf("Layout(%d) = (%d, %d, %d), want (%d, %d, %d)", tt.size, cols, w, h, tt.cols, tt.w, tt.h)
		}
	}
}

func TestAtlasPixelsPlacesSlices(t *testing.T) {
	f := &dose.Field{Size: 2, Samples: []uint8{0, 1, 2, 3, 4, 5, 6, 7}}

	pix := AtlasPixels(f, dose.AxisZ)
	_, w, h := Layout(2)
	if len(pix) != w*h*4 {
		t.Fatalf("Expected %d bytes, got %d", w*h*4, len(pix))
	}

	// Slice z=1 sits in the second tile; its (u=1, v=1) sample is cell (1,1,1)
	o := ((1*w)+2+1)*4
	if pix[o] != 7 || pix[o+3] != 0xff {
		t.Errorf("Expected sample 7 opaque at slice 1, got r=%d a=%d", pix[o], pix[o+3])
	}
	if pix[4] != 1 {
		t.Errorf("Expected sample 1 at slice 0 (1,0), got %d", pix[4])
	}
}

func TestViewAxis(t *testing.T) {
	tests := []struct {
		forward  vec3.T
		axis     dose.Axis
		positive bool
	}{
		{vec3.T{0.1, -0.9, 0.2}, dose.AxisY, false},
		{vec3.T{0.7, 0.1, -0.6}, dose.AxisX, true},
		{vec3.T{0, 0, 1}, dose.AxisZ, true},
	}
	for _, tt := range tests {
		axis, positive := ViewAxis(tt.forward)
		if axis != tt.axis || positive != tt.positive {
			t.Errorf("ViewAxis(%v) = (%s, %v), want (%s, %v)", tt.forward, axis, positive, tt.axis, tt.positive)
		}
	}
}

func TestSliceDensity(t *testing.T) {
	if d := SliceDensity(8); d != 1 {
		t.Errorf("Expected density 1 for coarse grids, got %f", d)
	}
	if d := SliceDensity(64); d != 0.25 {
		t.Errorf("Expected density 0.25 at 64, got %f", d)
	}
}

func TestUploadAndDraw(t *testing.T) {
	r := rendertest.NewRenderer()
	v, err := New(r)
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}

	p := dose.DefaultParams()
	p.GridSize = 16
	f, err := dose.Generate(context.Background(), p, dose.Sources{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	v.Upload(f)

	if v.Size() != 16 || len(r.Images) != 3 {
		t.Fatalf("Expected 3 atlases for size 16, got %d (size %d)", len(r.Images), v.Size())
	}
	for i, img := range r.Images {
		if len(img.Pixels) != img.W*img.H*4 {
			t.Errorf("Atlas %d: expected %d bytes, got %d", i, img.W*img.H*4, len(img.Pixels))
		}
	}

	cam := camera.NewOrbit(vec3.T{3, 3, 3}, vec3.T{}, 75, 800, 600)
	pr := cam.Projector()
	dst := &rendertest.Image{W: 800, H: 600}
	v.Draw(dst, &pr, Style{Threshold: 0.5, Opacity: 0.5, Low: [3]float32{1, 0, 0}, High: [3]float32{0, 1, 0}})

	if len(dst.Calls) != 1 {
		t.Fatalf("Expected one shader draw, got %d", len(dst.Calls))
	}
	call := dst.Calls[0]
	if len(call.Vertices) != 16*4 || len(call.Indices) != 16*6 {
		t.Errorf("Expected 16 slices, got %d vertices / %d indices", len(call.Vertices), len(call.Indices))
	}
	if call.Options.Uniforms["Threshold"] != float32(0.5) {
		t.Errorf("Expected threshold uniform 0.5, got %v", call.Options.Uniforms["Threshold"])
	}

	// Re-uploading the same size reuses the atlases
	v.Upload(f)
	if len(r.Images) != 3 {
		t.Errorf("Expected atlases to be reused, got %d images", len(r.Images))
	}
}

func TestSlicesAreDrawnBackToFront(t *testing.T) {
	r := rendertest.NewRenderer()
	v, err := New(r)
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}
	p := dose.DefaultParams()
	p.GridSize = 4
	f, _ := dose.Generate(context.Background(), p, dose.Sources{})
	v.Upload(f)

	// Looking down -Z from +Z: the slice with the smallest z is farthest
	cam := camera.NewOrbit(vec3.T{0.01, 0.3, 5}, vec3.T{}, 60, 400, 400)
	pr := cam.Projector()
	if axis := v.buildSlices(&pr); axis != dose.AxisZ {
		t.Fatalf("Expected z slices, got %s", axis)
	}
	// Slice 0 lives in atlas tile (0, 0), so the first quad starts at source (0, 0)
	if v.vertices[0].SrcX != 0 || v.vertices[0].SrcY != 0 {
		t.Errorf("Expected slice 0 first, got source (%f, %f)", v.vertices[0].SrcX, v.vertices[0].SrcY)
	}
}

func TestNewReportsShaderErrors(t *testing.T) {
	r := rendertest.NewRenderer()
	r.ShaderError = errors.New("no gpu")
	if _, err := New(r); err == nil {
		t.Error("Expected shader compile error")
	}
}
