package simulation

import (
	"fmt"

	"tectonicfield/core"
)

// SeedPlates places params.PlateCount seed points on the sphere and draws a
// crust type for each. Draw order per plate is u, v, jitter u, jitter v,
// crust; the stream is left positioned for ApplyKinematics.
func SeedPlates(params core.ParameterSet, s *Stream) (*PlateSet, error) {
	n := params.PlateCount
	if n < core.MinPlateCount || n > core.MaxPlateCount {
		return nil, &core.ParamError{
			Field:  "plateCount",
			Value:  n,
			Reason: fmt.Sprintf("must be in [%d,%d]", core.MinPlateCount, core.MaxPlateCount),
		}
	}

	jitter := 0.1 / float64(n)
	plates := make([]Plate, 0, n)
	for i := 0; i < n; i++ {
		u := s.Float64()
		v := s.Float64()
		u += s.Uniform(-jitter, jitter)
		v += s.Uniform(-jitter, jitter)
		u, v = core.WrapUV(u, v)

		crust := Continental
		if s.Bernoulli(params.OceanicChance) {
			crust = Oceanic
		}

		plates = append(plates, Plate{
			ID:     i,
			U:      u,
			V:      v,
			Center: core.UVToSphere(u, v),
			Crust:  crust,
		})
	}
	return &PlateSet{Plates: plates}, nil
}
