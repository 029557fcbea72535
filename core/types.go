package core

import (
	"fmt"
	"math"
)

// HabitableZone classifies where the planet orbits relative to its star
type HabitableZone int

const (
	TooHot HabitableZone = iota
	Habitable
	TooCold
)

func (z HabitableZone) String() string {
	switch z {
	case TooHot:
		return "too-hot"
	case Habitable:
		return "habitable"
	case TooCold:
		return "too-cold"
	}
	return fmt.Sprintf("zone(%d)", int(z))
}

// ParseHabitableZone accepts the names produced by String
func ParseHabitableZone(s string) (HabitableZone, error) {
	for _, z := range []HabitableZone{TooHot, Habitable, TooCold} {
		if z.String() == s {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown habitable zone %q", s)
}

// KinematicModel selects how plate drift directions are synthesized.
// The set is closed; dispatch happens in simulation.ApplyKinematics.
type KinematicModel int

const (
	KinematicRandom KinematicModel = iota
	KinematicAxisFlows2
	KinematicAxisFlows4
)

func (m KinematicModel) String() string {
	switch m {
	case KinematicRandom:
		return "random"
	case KinematicAxisFlows2:
		return "axis-flows-2"
	case KinematicAxisFlows4:
		return "axis-flows-4"
	}
	return fmt.Sprintf("model(%d)", int(m))
}

// ParseKinematicModel accepts the names produced by String
func ParseKinematicModel(s string) (KinematicModel, error) {
	for _, m := range []KinematicModel{KinematicRandom, KinematicAxisFlows2, KinematicAxisFlows4} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown kinematic model %q", s)
}

// Parameter ranges accepted by Validate
const (
	MinPlateCount   = 3
	MaxPlateCount   = 100
	MinPlanetRadius = 0.25
	MaxPlanetRadius = 2.0
	MinPlanetAge    = 0.5
	MaxPlanetAge    = 10.0

	// MaxMapCells bounds MapWidth*MapHeight so field allocation cannot
	// overflow or exhaust memory (8192x8192).
	MaxMapCells = 1 << 26
)

// ParameterSet describes the character of a planet. It is treated as an
// immutable value once handed to a generation run.
type ParameterSet struct {
	Zone              HabitableZone  `json:"zone"`
	PlanetRadius      float64        `json:"planetRadius"`
	PlanetAgeBillions float64        `json:"planetAgeBillions"`
	WaterAbundance    float64        `json:"waterAbundance"`
	HasLargeMoon      bool           `json:"hasLargeMoon"`
	PlateCount        int            `json:"plateCount"`
	OceanicChance     float64        `json:"oceanicChance"`
	MapWidth          int            `json:"mapWidth"`
	MapHeight         int            `json:"mapHeight"`
	Seed              int32          `json:"seed"`
	KinematicModel    KinematicModel `json:"kinematicModel"`
	MinSpeed          float64        `json:"minSpeed"`
	MaxSpeed          float64        `json:"maxSpeed"`
}

// DefaultParameters returns an Earth-like parameter set
func DefaultParameters() ParameterSet {
	return ParameterSet{
		Zone:              Habitable,
		PlanetRadius:      1.0,
		PlanetAgeBillions: 4.5,
		WaterAbundance:    0.7,
		PlateCount:        12,
		OceanicChance:     0.6,
		MapWidth:          512,
		MapHeight:         256,
		Seed:              0,
		KinematicModel:    KinematicAxisFlows2,
		MinSpeed:          0.5,
		MaxSpeed:          2.0,
	}
}

// ResolvedSeed returns the seed used for every random stream of a run.
// A zero seed is replaced by one derived from the planet age, never 0 itself.
func (p ParameterSet) ResolvedSeed() int32 {
	if p.Seed != 0 {
		return p.Seed
	}
	s := int32(math.Round(p.PlanetAgeBillions * 1e6))
	if s == 0 {
		return 1
	}
	return s
}

// Cells returns the number of grid samples of the map
func (p ParameterSet) Cells() int {
	return p.MapWidth * p.MapHeight
}

func (z HabitableZone) MarshalText() ([]byte, error) { return []byte(z.String()), nil }

func (z *HabitableZone) UnmarshalText(b []byte) error {
	v, err := ParseHabitableZone(string(b))
	if err != nil {
		return err
	}
	*z = v
	return nil
}

func (m KinematicModel) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *KinematicModel) UnmarshalText(b []byte) error {
	v, err := ParseKinematicModel(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
