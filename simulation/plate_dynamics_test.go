package simulation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"tectonicfield/core"
)

var allModels = []core.KinematicModel{
	core.KinematicRandom,
	core.KinematicAxisFlows2,
	core.KinematicAxisFlows4,
}

func TestKinematicsTangent(t *testing.T) {
	for _, model := range allModels {
		for _, seed := range []int32{1, 42, 1234} {
			params := core.DefaultParameters()
			params.Seed = seed
			params.PlateCount = 40
			params.KinematicModel = model

			ps, _ := seeded(t, params)
			for _, p := range ps.Plates {
				if d := math.Abs(p.Movement.Dot(p.Center)); d > 1e-5 {
					t.Errorf("%s seed %d plate %d: movement·center = %g", model, seed, p.ID, d)
				}
				if l := p.Movement.Len(); math.Abs(l-1) > 1e-9 {
					t.Errorf("%s seed %d plate %d: |movement| = %f", model, seed, p.ID, l)
				}
				if p.Speed < params.MinSpeed || p.Speed >= params.MaxSpeed {
					t.Errorf("%s seed %d plate %d: speed %f outside [%f,%f)",
						model, seed, p.ID, p.Speed, params.MinSpeed, params.MaxSpeed)
				}
			}
		}
	}
}

func TestKinematicsDrawCount(t *testing.T) {
	tests := []struct {
		model core.KinematicModel
		want  int
	}{
		// three draws per plate: two for the direction, one for speed
		{core.KinematicRandom, 3 * 8},
		// k axes (two draws each) and k weights, then one speed per plate
		{core.KinematicAxisFlows2, 2*2 + 2 + 8},
		{core.KinematicAxisFlows4, 4*2 + 4 + 8},
	}
	for _, tc := range tests {
		params := core.DefaultParameters()
		params.Seed = 3
		params.PlateCount = 8
		params.KinematicModel = tc.model

		s := NewStream(params.Seed)
		ps, err := SeedPlates(params, s)
		if err != nil {
			t.Fatal(err)
		}
		before := s.Draws()
		if err := ApplyKinematics(ps, params, s); err != nil {
			t.Fatal(err)
		}
		if got := s.Draws() - before; got != tc.want {
			t.Errorf("%s: got %d draws, want %d", tc.model, got, tc.want)
		}
	}
}

func TestKinematicsEqualSpeeds(t *testing.T) {
	params := core.DefaultParameters()
	params.Seed = 9
	params.MinSpeed, params.MaxSpeed = 1.25, 1.25
	ps, _ := seeded(t, params)
	for _, p := range ps.Plates {
		if p.Speed != 1.25 {
			t.Errorf("plate %d: speed %f, want 1.25", p.ID, p.Speed)
		}
	}
}

func TestKinematicsUnknownModel(t *testing.T) {
	params := core.DefaultParameters()
	params.KinematicModel = core.KinematicModel(42)
	ps := &PlateSet{Plates: []Plate{{Center: mgl64.Vec3{1, 0, 0}}}}
	if err := ApplyKinematics(ps, params, NewStream(1)); err == nil {
		t.Error("unknown model accepted")
	}
}

func TestTangentOrFallback(t *testing.T) {
	tests := []struct {
		name   string
		center mgl64.Vec3
		raw    mgl64.Vec3
		want   mgl64.Vec3
	}{
		{
			name:   "raw kept",
			center: mgl64.Vec3{1, 0, 0},
			raw:    mgl64.Vec3{0, 0, 3},
			want:   mgl64.Vec3{0, 0, 1},
		},
		{
			name:   "falls back to up",
			center: mgl64.Vec3{1, 0, 0},
			raw:    mgl64.Vec3{0, 0.01, 0},
			want:   mgl64.Vec3{0, 0, 1}, // (1,0,0)×(0,1,0)
		},
		{
			name:   "center on up axis falls back to right",
			center: mgl64.Vec3{0, 1, 0},
			raw:    mgl64.Vec3{},
			want:   mgl64.Vec3{0, 0, -1}, // (0,1,0)×(1,0,0)
		},
		{
			name:   "south pole falls back to right",
			center: mgl64.Vec3{0, -1, 0},
			raw:    mgl64.Vec3{},
			want:   mgl64.Vec3{0, 0, 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TangentOrFallback(tc.center, tc.raw)
			if got.Sub(tc.want).Len() > 1e-12 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
			if d := math.Abs(got.Dot(tc.center)); d > 1e-12 {
				t.Errorf("not tangent: dot %g", d)
			}
		})
	}
}

func TestFlowFieldTangent(t *testing.T) {
	s := NewStream(77)
	flow := NewFlowField(4, s)
	if len(flow.Axes) != 4 || len(flow.Weights) != 4 {
		t.Fatalf("got %d axes and %d weights", len(flow.Axes), len(flow.Weights))
	}
	for _, w := range flow.Weights {
		if w < -0.5 || w >= 0.5 {
			t.Errorf("weight %f outside [-0.5,0.5)", w)
		}
	}
	for _, a := range flow.Axes {
		if math.Abs(a.Len()-1) > 1e-9 {
			t.Errorf("axis %v not unit", a)
		}
	}
	for i := 0; i < 100; i++ {
		p := s.UnitVector()
		if d := math.Abs(flow.At(p).Dot(p)); d > 1e-12 {
			t.Errorf("flow at %v not tangent: %g", p, d)
		}
	}
}

func TestStream(t *testing.T) {
	a, b := NewStream(99), NewStream(99)
	for i := 0; i < 10; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %f vs %f", i, x, y)
		}
	}
	if a.Draws() != 10 {
		t.Errorf("draws: got %d, want 10", a.Draws())
	}

	s := NewStream(1)
	for i := 0; i < 1000; i++ {
		if v := s.Uniform(-2, 3); v < -2 || v >= 3 {
			t.Fatalf("Uniform out of range: %f", v)
		}
		if s.Bernoulli(0) {
			t.Fatal("Bernoulli(0) returned true")
		}
		if !s.Bernoulli(1) {
			t.Fatal("Bernoulli(1) returned false")
		}
		if l := s.UnitVector().Len(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("UnitVector length %f", l)
		}
	}
}

func TestFlowFieldParallelCenterFallback(t *testing.T) {
	centers := []mgl64.Vec3{
		{0, 0, 1},
		{0, 1, 0},
		{0, -1, 0},
		mgl64.Vec3{1, 2, 3}.Normalize(),
	}
	for _, c := range centers {
		// every axis is parallel to the center, so every term vanishes
		flow := FlowField{
			Axes:    []mgl64.Vec3{c, c.Mul(-1), c, c},
			Weights: []float64{0.4, -0.2, 0.1, 0.3},
		}
		raw := flow.At(c)
		if raw.Len() > 1e-12 {
			t.Fatalf("center %v: raw flow %v not degenerate", c, raw)
		}
		m := TangentOrFallback(c, raw)
		for _, x := range m {
			if math.IsNaN(x) {
				t.Fatalf("center %v: NaN movement", c)
			}
		}
		if math.Abs(m.Len()-1) > 1e-9 {
			t.Errorf("center %v: |movement| = %f", c, m.Len())
		}
		if d := math.Abs(m.Dot(c)); d > 1e-9 {
			t.Errorf("center %v: movement not tangent (%g)", c, d)
		}
	}
}
