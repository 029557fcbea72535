package gpu

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"tectonicfield/core"
)

// ErrClosed is returned by kernels dispatched after Cleanup
var ErrClosed = errors.New("compute backend closed")

// CPUCompute implements FieldCompute by splitting grid rows across a
// bounded pool of goroutines.
type CPUCompute struct {
	numWorkers int
	closed     atomic.Bool
}

// NewCPUCompute creates a CPU backend. workers <= 0 uses one per CPU.
func NewCPUCompute(workers int) *CPUCompute {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUCompute{numWorkers: workers}
}

func (c *CPUCompute) Name() string {
	return fmt.Sprintf("CPU (%d workers)", c.numWorkers)
}

// Workers returns the size of the row pool
func (c *CPUCompute) Workers() int { return c.numWorkers }

// RunAssignmentKernel fills ids and delta from the plate buffer
func (c *CPUCompute) RunAssignmentKernel(plates PlateBuffer, ids *core.IDField, delta *core.ScalarField) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if len(plates) == 0 {
		return errors.New("assignment kernel: empty plate buffer")
	}
	if ids.Width != delta.Width || ids.Height != delta.Height {
		return fmt.Errorf("assignment kernel: id field %dx%d does not match delta field %dx%d",
			ids.Width, ids.Height, delta.Width, delta.Height)
	}
	w, h := ids.Width, ids.Height
	if len(ids.Data) != w*h || len(delta.Data) != w*h {
		return fmt.Errorf("assignment kernel: field storage does not match %dx%d", w, h)
	}
	return c.parallelForEachRow(h, func(y int) error {
		row := y * w
		for x := 0; x < w; x++ {
			u, v := core.CellUV(x, y, w, h)
			id, d := AssignCell(core.UVToSphere(u, v), plates)
			ids.Data[row+x] = id
			delta.Data[row+x] = float32(d)
		}
		return nil
	})
}

// RunNoiseKernel fills out with amplitude-scaled samples
func (c *CPUCompute) RunNoiseKernel(sampler PointSampler, amplitude float64, out *core.ScalarField) error {
	if c.closed.Load() {
		return ErrClosed
	}
	w, h := out.Width, out.Height
	if len(out.Data) != w*h {
		return fmt.Errorf("noise kernel: field storage does not match %dx%d", w, h)
	}
	return c.parallelForEachRow(h, func(y int) error {
		row := y * w
		for x := 0; x < w; x++ {
			u, v := core.CellUV(x, y, w, h)
			out.Data[row+x] = float32(sampler.Sample(core.UVToSphere(u, v)) * amplitude)
		}
		return nil
	})
}

// Cleanup marks the backend closed; there are no device resources to free
func (c *CPUCompute) Cleanup() {
	c.closed.Store(true)
}

// parallelForEachRow calls fn once for every row in [0, rows). Rows are
// handed out in contiguous chunks, one chunk per worker. A chunk stops at
// its first error, and the first error of any chunk is returned.
func (c *CPUCompute) parallelForEachRow(rows int, fn func(y int) error) error {
	chunk := (rows + c.numWorkers - 1) / c.numWorkers
	if chunk < 1 {
		chunk = 1
	}
	var g errgroup.Group
	g.SetLimit(c.numWorkers)
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		g.Go(func() error {
			for y := start; y < end; y++ {
				if err := fn(y); err != nil {
					return fmt.Errorf("row %d: %w", y, err)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
