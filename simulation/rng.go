package simulation

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Stream is the single pseudo-random sequence of one generation run. It is
// owned by the run and threaded through seeding and kinematics in a fixed
// order; it is not safe for concurrent use.
type Stream struct {
	rng   *rand.Rand
	draws int
}

// NewStream seeds a stream
func NewStream(seed int32) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(int64(seed)))}
}

// Float64 draws from [0,1)
func (s *Stream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// Uniform draws from [lo,hi)
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + s.Float64()*(hi-lo)
}

// Bernoulli returns true with probability p
func (s *Stream) Bernoulli(p float64) bool {
	return s.Float64() < p
}

// UnitVector draws a point uniformly distributed on the unit sphere
func (s *Stream) UnitVector() mgl64.Vec3 {
	z := 2*s.Float64() - 1
	theta := 2 * math.Pi * s.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	return mgl64.Vec3{r * math.Cos(theta), r * math.Sin(theta), z}
}

// Draws reports how many values have been consumed
func (s *Stream) Draws() int {
	return s.draws
}
