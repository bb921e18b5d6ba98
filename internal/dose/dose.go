// Package dose samples a toy radiation dose field on a cubic voxel grid.
//
// The field is the sum of inverse-distance falloffs around the tumor and
// around every beam source, evaluated at each cell of an N×N×N grid that
// spans the cube [-1, 1]³, clamped to 1 and quantized to 8 bits for upload
// as a volume texture.
package dose

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/ungerik/go3d/vec3"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrGridSize is returned when the grid resolution is out of range.
	ErrGridSize = errors.New("dose: grid size out of range")
	// ErrParams is returned for negative weights or steepness factors.
	ErrParams = errors.New("dose: invalid falloff parameters")
)

// Grid size limits.
const (
	MinGridSize = 2
	MaxGridSize = 256
)

// Params configures the falloff model.
type Params struct {
	GridSize       int
	TumorWeight    float32
	TumorSteepness float32
	BeamWeight     float32
	BeamSteepness  float32

	// IntensityScalesDose multiplies each beam term by Sources.Intensity.
	IntensityScalesDose bool
}

// DefaultParams returns the parameters of the demo scene.
func DefaultParams() Params {
	return Params{
		GridSize:       64,
		TumorWeight:    1,
		TumorSteepness: 10,
		BeamWeight:     0.5,
		BeamSteepness:  5,
	}
}

func (p Params) validate() error {
	if p.GridSize < MinGridSize || p.GridSize > MaxGridSize {
		return fmt.Errorf("%w: %d", ErrGridSize, p.GridSize)
	}
	if p.TumorWeight < 0 || p.BeamWeight < 0 || p.TumorSteepness < 0 || p.BeamSteepness < 0 {
		return ErrParams
	}
	return nil
}

// Sources are the point sources contributing to the field.
type Sources struct {
	Tumor     vec3.T
	Beams     []vec3.T
	Intensity float32
}

// Falloff is weight / (1 + dist·steepness). It equals weight at zero
// distance and decreases strictly with distance for positive steepness.
func Falloff(dist, weight, steepness float32) float32 {
	return weight / (1 + dist*steepness)
}

// At returns the unclamped dose at point.
func (p Params) At(point vec3.T, src Sources) float32 {
	d := vec3.Sub(&point, &src.Tumor)
	dose := Falloff(d.Length(), p.TumorWeight, p.TumorSteepness)

	weight := p.BeamWeight
	if p.IntensityScalesDose {
		weight *= src.Intensity
	}
	for i := range src.Beams {
		d := vec3.Sub(&point, &src.Beams[i])
		dose += Falloff(d.Length(), weight, p.BeamSteepness)
	}
	return dose
}

// Quantize clamps dose to [0, 1] and maps it onto 0-255, rounding down.
func Quantize(dose float32) uint8 {
	if dose <= 0 {
		return 0
	}
	if dose >= 1 {
		return 255
	}
	return uint8(math32.Floor(dose * 255))
}

// Generate evaluates the field on every grid cell. Slabs of constant z are
// evaluated concurrently; the call returns once the whole grid is filled.
func Generate(ctx context.Context, p Params, src Sources) (*Field, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	f := newField(p.GridSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k := 0; k < f.Size; k++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.fillSlab(k, p, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Field) fillSlab(k int, p Params, src Sources) {
	n := f.Size
	base := k * n * n
	for j := 0; j < n; j++ {
		row := base + j*n
		for i := 0; i < n; i++ {
			f.Samples[row+i] = Quantize(p.At(f.Point(i, j, k), src))
		}
	}
}
