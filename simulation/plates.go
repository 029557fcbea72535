package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// CrustType biases later height composition of a plate
type CrustType int

const (
	Continental CrustType = iota
	Oceanic
)

func (c CrustType) String() string {
	if c == Oceanic {
		return "oceanic"
	}
	return "continental"
}

// Plate is one region of the surface. Plates live only inside a PlateSet and
// are referred to by ID everywhere else.
type Plate struct {
	ID       int
	U, V     float64
	Center   mgl64.Vec3
	Crust    CrustType
	Movement mgl64.Vec3 // unit, tangent to the sphere at Center
	Speed    float64
}

// Velocity is the movement direction scaled by speed
func (p Plate) Velocity() mgl64.Vec3 {
	return p.Movement.Mul(p.Speed)
}

func (p Plate) String() string {
	return fmt.Sprintf("Plate %d: %s uv=(%.4f, %.4f) move=(%.4f, %.4f, %.4f) speed=%.3f",
		p.ID, p.Crust, p.U, p.V, p.Movement[0], p.Movement[1], p.Movement[2], p.Speed)
}

// PlateSet is the ordered plate list of one generation run; index == ID.
type PlateSet struct {
	Plates []Plate
}

func (ps *PlateSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.Plates)
}

// Plate returns the plate with the given id
func (ps *PlateSet) Plate(id int) (Plate, bool) {
	if id < 0 || id >= ps.Len() {
		return Plate{}, false
	}
	return ps.Plates[id], true
}

// Centers returns the plate centers in id order
func (ps *PlateSet) Centers() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, ps.Len())
	for i, p := range ps.Plates {
		out[i] = p.Center
	}
	return out
}

// CrustCounts returns how many plates are continental and oceanic
func (ps *PlateSet) CrustCounts() (continental, oceanic int) {
	for _, p := range ps.Plates {
		if p.Crust == Oceanic {
			oceanic++
		} else {
			continental++
		}
	}
	return continental, oceanic
}
