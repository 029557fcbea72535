package gpu

import (
	"github.com/go-gl/mathgl/mgl64"

	"tectonicfield/simulation"
)

// GPUPlate is the packed, read-only record a field kernel sees for one plate
type GPUPlate struct {
	ID     int32
	Crust  int32
	Center mgl64.Vec3
}

// ConvertToGPUPlate converts a Plate to kernel format
func ConvertToGPUPlate(p simulation.Plate) GPUPlate {
	return GPUPlate{
		ID:     int32(p.ID),
		Crust:  int32(p.Crust),
		Center: p.Center,
	}
}

// PlateBuffer is the plate array uploaded once per run, ordered by id
type PlateBuffer []GPUPlate

// NewPlateBuffer packs a plate set in id order
func NewPlateBuffer(ps *simulation.PlateSet) PlateBuffer {
	buf := make(PlateBuffer, ps.Len())
	for i, p := range ps.Plates {
		buf[i] = ConvertToGPUPlate(p)
	}
	return buf
}
