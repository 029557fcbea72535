package gpu

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AssignCell finds the plate whose center is angularly closest to p, a unit
// vector. Maximizing the dot product of unit vectors is nearest-neighbour
// search on the sphere.
//
// Plates are scanned in id order and only a strictly greater dot replaces
// the best, so on an exact tie the lower id wins. delta is best minus
// second-best: 0 on a boundary, up to 2 deep inside a plate. With a single
// plate delta is 0.
func AssignCell(p mgl64.Vec3, plates PlateBuffer) (id int32, delta float64) {
	best, second := math.Inf(-1), math.Inf(-1)
	bestIdx := int32(0)
	for i := range plates {
		d := p.Dot(plates[i].Center)
		if d > best {
			second = best
			best = d
			bestIdx = plates[i].ID
		} else if d > second {
			second = d
		}
	}
	if math.IsInf(second, -1) {
		return bestIdx, 0
	}
	return bestIdx, best - second
}
