package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is matched by every ParamError
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError identifies the parameter that rejected a generation run
type ParamError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// Validate checks every field against its documented range. Out of range
// values are rejected rather than clamped so that a seed always maps to the
// same planet.
func (p ParameterSet) Validate() error {
	switch p.Zone {
	case TooHot, Habitable, TooCold:
	default:
		return &ParamError{"zone", int(p.Zone), "unknown habitable zone"}
	}
	if err := checkRange("planetRadius", p.PlanetRadius, MinPlanetRadius, MaxPlanetRadius); err != nil {
		return err
	}
	if err := checkRange("planetAgeBillions", p.PlanetAgeBillions, MinPlanetAge, MaxPlanetAge); err != nil {
		return err
	}
	if err := checkRange("waterAbundance", p.WaterAbundance, 0, 1); err != nil {
		return err
	}
	if p.PlateCount < MinPlateCount || p.PlateCount > MaxPlateCount {
		return &ParamError{"plateCount", p.PlateCount, fmt.Sprintf("must be in [%d,%d]", MinPlateCount, MaxPlateCount)}
	}
	if err := checkRange("oceanicChance", p.OceanicChance, 0, 1); err != nil {
		return err
	}
	if p.MapWidth <= 0 {
		return &ParamError{"mapWidth", p.MapWidth, "must be positive"}
	}
	if p.MapHeight <= 0 {
		return &ParamError{"mapHeight", p.MapHeight, "must be positive"}
	}
	if p.MapWidth > MaxMapCells/p.MapHeight {
		return &ParamError{"mapWidth", p.MapWidth, fmt.Sprintf("map %dx%d exceeds %d cells", p.MapWidth, p.MapHeight, MaxMapCells)}
	}
	switch p.KinematicModel {
	case KinematicRandom, KinematicAxisFlows2, KinematicAxisFlows4:
	default:
		return &ParamError{"kinematicModel", int(p.KinematicModel), "unknown kinematic model"}
	}
	if math.IsNaN(p.MinSpeed) || p.MinSpeed <= 0 {
		return &ParamError{"minSpeed", p.MinSpeed, "must be positive"}
	}
	if math.IsNaN(p.MaxSpeed) || math.IsInf(p.MaxSpeed, 0) || p.MaxSpeed < p.MinSpeed {
		return &ParamError{"maxSpeed", p.MaxSpeed, "must be finite and >= minSpeed"}
	}
	return nil
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &ParamError{field, v, fmt.Sprintf("must be in [%g,%g]", lo, hi)}
	}
	return nil
}
