package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"tectonicfield/core"
)

// Vectors whose squared length falls below this are treated as degenerate
const degenerateLenSqr = 1e-3

var (
	worldUp    = mgl64.Vec3{0, 1, 0}
	worldRight = mgl64.Vec3{1, 0, 0}
)

// FlowField is a superposition of solid-body rotations shared by every plate
// of a run, so nearby plates drift alike.
type FlowField struct {
	Axes    []mgl64.Vec3
	Weights []float64
}

// NewFlowField draws k rotation axes followed by k weights in [-0.5, 0.5)
func NewFlowField(k int, s *Stream) FlowField {
	f := FlowField{
		Axes:    make([]mgl64.Vec3, k),
		Weights: make([]float64, k),
	}
	for j := range f.Axes {
		f.Axes[j] = s.UnitVector()
	}
	for j := range f.Weights {
		f.Weights[j] = s.Uniform(-0.5, 0.5)
	}
	return f
}

// At returns the raw (unnormalized) flow at a point. Each term a×p is
// tangent at p, so the sum is too.
func (f FlowField) At(p mgl64.Vec3) mgl64.Vec3 {
	var sum mgl64.Vec3
	for j, a := range f.Axes {
		sum = sum.Add(a.Cross(p).Mul(f.Weights[j]))
	}
	return sum
}

// TangentOrFallback normalizes raw, substituting center×up and then
// center×right when the candidate is degenerate. center must be unit length.
func TangentOrFallback(center, raw mgl64.Vec3) mgl64.Vec3 {
	if raw.Dot(raw) >= degenerateLenSqr {
		return raw.Normalize()
	}
	alt := center.Cross(worldUp)
	if alt.Dot(alt) >= degenerateLenSqr {
		return alt.Normalize()
	}
	return center.Cross(worldRight).Normalize()
}

// ApplyKinematics assigns a movement direction and speed to every plate,
// continuing the stream used by SeedPlates.
func ApplyKinematics(ps *PlateSet, params core.ParameterSet, s *Stream) error {
	switch params.KinematicModel {
	case core.KinematicRandom:
		for i := range ps.Plates {
			p := &ps.Plates[i]
			r := s.UnitVector()
			p.Movement = TangentOrFallback(p.Center, p.Center.Cross(r))
			p.Speed = s.Uniform(params.MinSpeed, params.MaxSpeed)
		}
	case core.KinematicAxisFlows2, core.KinematicAxisFlows4:
		k := 2
		if params.KinematicModel == core.KinematicAxisFlows4 {
			k = 4
		}
		flow := NewFlowField(k, s)
		for i := range ps.Plates {
			p := &ps.Plates[i]
			p.Movement = TangentOrFallback(p.Center, flow.At(p.Center))
			p.Speed = s.Uniform(params.MinSpeed, params.MaxSpeed)
		}
	default:
		return &core.ParamError{
			Field:  "kinematicModel",
			Value:  int(params.KinematicModel),
			Reason: fmt.Sprintf("unknown kinematic model %s", params.KinematicModel),
		}
	}
	return nil
}
