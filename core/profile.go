package core

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Archetype is the coarse planet class shown to the presentation layer
type Archetype int

const (
	ArchetypeBarren Archetype = iota
	ArchetypeOceanWorld
	ArchetypeStagnantLid
	ArchetypeEarthLike
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeBarren:
		return "barren"
	case ArchetypeOceanWorld:
		return "ocean-world"
	case ArchetypeStagnantLid:
		return "stagnant-lid"
	case ArchetypeEarthLike:
		return "earth-like"
	}
	return "unknown"
}

// Profile is derived from a ParameterSet and never changes afterwards
type Profile struct {
	EngineScore      float64
	HasActiveGeology bool
	HasLiquidWater   bool
	HasTectonics     bool
	HasLargeMoon     bool
	Archetype        Archetype
	Color            colorful.Color
}

// ColorHex returns the display color as #rrggbb
func (p Profile) ColorHex() string {
	return p.Color.Hex()
}

// Classify maps a parameter set to its profile
func Classify(p ParameterSet) Profile {
	engine := p.PlanetRadius - p.PlanetAgeBillions/10
	prof := Profile{
		EngineScore:      engine,
		HasActiveGeology: engine > 0.5,
		HasLiquidWater:   p.Zone == Habitable && p.WaterAbundance > 0.1,
		HasLargeMoon:     p.HasLargeMoon,
	}
	prof.HasTectonics = prof.HasActiveGeology && prof.HasLiquidWater
	prof.Archetype, prof.Color = archetypeFor(prof.HasTectonics, prof.HasLiquidWater)
	return prof
}

func archetypeFor(tectonics, water bool) (Archetype, colorful.Color) {
	switch {
	case tectonics && water:
		return ArchetypeEarthLike, colorful.Color{R: 0.23, G: 0.48, B: 0.84}
	case !tectonics && water:
		return ArchetypeOceanWorld, colorful.Color{R: 0.12, G: 0.31, B: 0.55}
	case tectonics && !water:
		return ArchetypeStagnantLid, colorful.Color{R: 0.71, G: 0.35, B: 0.20}
	default:
		return ArchetypeBarren, colorful.Color{R: 0.55, G: 0.53, B: 0.50}
	}
}
