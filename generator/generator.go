// Package generator sequences plate seeding, kinematics and the field
// kernels for one planet and hands the results out as a FieldBundle.
package generator

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"tectonicfield/core"
	"tectonicfield/gpu"
	"tectonicfield/noise"
	"tectonicfield/simulation"
)

// Generator runs generation passes on a compute backend. A Generator holds
// no per-run state, so concurrent runs do not share random streams.
type Generator struct {
	compute gpu.FieldCompute
	log     *slog.Logger
}

// New creates a generator. A nil backend uses the CPU backend with one
// worker per CPU; a nil logger uses slog.Default().
func New(compute gpu.FieldCompute, logger *slog.Logger) *Generator {
	if compute == nil {
		compute = gpu.NewCPUCompute(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{compute: compute, log: logger}
}

// Backend returns the compute backend name
func (g *Generator) Backend() string { return g.compute.Name() }

// Close releases the compute backend
func (g *Generator) Close() {
	g.compute.Cleanup()
}

// Generate validates params, classifies the planet and, when it has
// tectonics, seeds plates, assigns kinematics and runs the plate assignment
// kernel. Invalid parameters are rejected before any random draw. A planet
// without tectonics yields a bundle with no plates and no fields.
func (g *Generator) Generate(params core.ParameterSet) (*FieldBundle, error) {
	b, err := g.prepare(params)
	if err != nil {
		return nil, err
	}
	if !b.HasPlates() {
		return b, nil
	}
	if err := g.runAssignment(b); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// GenerateNoise runs the noise kernel over the bundle's map size and seed,
// attaches the field to the bundle and returns it. It does not depend on
// plates and also runs for planets without tectonics.
func (g *Generator) GenerateNoise(b *FieldBundle, np noise.Params) (*core.ScalarField, error) {
	if b.Released() {
		return nil, ErrReleased
	}
	f, err := g.runNoise(b.Params, b.Seed, np)
	if err != nil {
		return nil, err
	}
	if err := b.attachHeight(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Noise validates params and returns a height-noise field for its map size
// and seed without classifying the planet or touching plates.
func (g *Generator) Noise(params core.ParameterSet, np noise.Params) (*core.ScalarField, error) {
	if err := params.Validate(); err != nil {
		g.log.Warn("noise generation rejected", "error", err)
		return nil, err
	}
	return g.runNoise(params, params.ResolvedSeed(), np)
}

// GenerateAll is Generate followed by GenerateNoise, with the two kernels
// dispatched concurrently. Without tectonics neither kernel runs and the
// bundle has no fields; use GenerateNoise or Noise for a height field alone.
func (g *Generator) GenerateAll(params core.ParameterSet, np noise.Params) (*FieldBundle, error) {
	if err := np.Validate(); err != nil {
		return nil, fmt.Errorf("noise parameters: %w", err)
	}
	b, err := g.prepare(params)
	if err != nil {
		return nil, err
	}
	if !b.HasPlates() {
		return b, nil
	}

	var eg errgroup.Group
	eg.Go(func() error { return g.runAssignment(b) })
	eg.Go(func() error {
		f, err := g.runNoise(b.Params, b.Seed, np)
		if err != nil {
			return err
		}
		return b.attachHeight(f)
	})
	if err := eg.Wait(); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// With generates a bundle, passes it to fn and releases it when fn returns
func (g *Generator) With(params core.ParameterSet, fn func(*FieldBundle) error) error {
	b, err := g.Generate(params)
	if err != nil {
		return err
	}
	defer b.Release()
	return fn(b)
}

func (g *Generator) prepare(params core.ParameterSet) (*FieldBundle, error) {
	if err := params.Validate(); err != nil {
		g.log.Warn("generation rejected", "error", err)
		return nil, err
	}

	profile := core.Classify(params)
	b := newBundle(params, profile)
	log := g.log.With("run", b.RunID.String(), "seed", b.Seed)

	if !profile.HasTectonics {
		log.Info("no tectonics, skipping plate fields",
			"archetype", profile.Archetype.String(),
			"activeGeology", profile.HasActiveGeology,
			"liquidWater", profile.HasLiquidWater)
		return b, nil
	}

	stream := simulation.NewStream(b.Seed)
	plates, err := simulation.SeedPlates(params, stream)
	if err != nil {
		return nil, err
	}
	if err := simulation.ApplyKinematics(plates, params, stream); err != nil {
		return nil, err
	}
	b.plates = plates
	log.Debug("plates seeded",
		"plates", plates.Len(),
		"model", params.KinematicModel.String(),
		"draws", stream.Draws())
	return b, nil
}

func (g *Generator) runAssignment(b *FieldBundle) error {
	start := time.Now()
	p := b.Params
	ids := core.NewIDField(p.MapWidth, p.MapHeight)
	delta := core.NewScalarField(p.MapWidth, p.MapHeight)

	// plates is never mutated after prepare, so reading it unlocked is safe
	if err := g.compute.RunAssignmentKernel(gpu.NewPlateBuffer(b.plates), ids, delta); err != nil {
		return fmt.Errorf("plate assignment kernel: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	b.plateIDs = ids
	b.delta = delta
	g.log.Info("plate fields generated",
		"run", b.RunID.String(),
		"seed", b.Seed,
		"plates", b.plates.Len(),
		"size", fmt.Sprintf("%dx%d", p.MapWidth, p.MapHeight),
		"backend", g.compute.Name(),
		"elapsed", time.Since(start))
	return nil
}

func (g *Generator) runNoise(params core.ParameterSet, seed int32, np noise.Params) (*core.ScalarField, error) {
	start := time.Now()
	sampler, err := noise.NewFractal(np, int64(seed))
	if err != nil {
		return nil, fmt.Errorf("noise parameters: %w", err)
	}
	out := core.NewScalarField(params.MapWidth, params.MapHeight)
	if err := g.compute.RunNoiseKernel(sampler, np.Amplitude, out); err != nil {
		return nil, fmt.Errorf("noise kernel: %w", err)
	}
	g.log.Debug("height noise generated",
		"seed", seed,
		"basis", np.Basis.String(),
		"octaves", np.Octaves,
		"elapsed", time.Since(start))
	return out, nil
}
