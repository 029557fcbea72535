package gpu

import (
	"github.com/go-gl/mathgl/mgl64"

	"tectonicfield/core"
)

// PointSampler evaluates a scalar at a point on the unit sphere. It must be
// safe for concurrent use.
type PointSampler interface {
	Sample(p mgl64.Vec3) float64
}

// FieldCompute runs the per-cell field kernels. Every cell is computed from
// read-only inputs only, so a backend may schedule cells in any order.
type FieldCompute interface {
	// RunAssignmentKernel writes the nearest plate id and the best minus
	// second-best dot product of every cell.
	RunAssignmentKernel(plates PlateBuffer, ids *core.IDField, delta *core.ScalarField) error
	// RunNoiseKernel writes sampler(cell)*amplitude for every cell.
	RunNoiseKernel(sampler PointSampler, amplitude float64, out *core.ScalarField) error
	Name() string
	Cleanup()
}
