// Package noise provides seeded fractal noise sampled on the unit sphere.
package noise

import (
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"
)

// Basis selects the gradient noise summed by each octave
type Basis int

const (
	BasisSimplex Basis = iota
	BasisPerlin
)

func (b Basis) String() string {
	switch b {
	case BasisSimplex:
		return "simplex"
	case BasisPerlin:
		return "perlin"
	}
	return fmt.Sprintf("basis(%d)", int(b))
}

// ParseBasis accepts the names produced by String
func ParseBasis(s string) (Basis, error) {
	switch s {
	case "simplex":
		return BasisSimplex, nil
	case "perlin":
		return BasisPerlin, nil
	}
	return 0, fmt.Errorf("unknown noise basis %q", s)
}

const MaxOctaves = 12

// Params configures a height-noise field
type Params struct {
	Frequency   float64 `json:"frequency"`
	Amplitude   float64 `json:"amplitude"`
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`
	Basis       Basis   `json:"basis"`
}

// DefaultParams returns the standard fBm settings: five octaves, halving
// amplitude and doubling frequency.
func DefaultParams() Params {
	return Params{
		Frequency:   2.0,
		Amplitude:   1.0,
		Octaves:     5,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Basis:       BasisSimplex,
	}
}

// Validate rejects settings that would produce a degenerate field
func (p Params) Validate() error {
	if !finite(p.Frequency) || p.Frequency <= 0 {
		return fmt.Errorf("noise frequency %v must be positive and finite", p.Frequency)
	}
	if !finite(p.Amplitude) || p.Amplitude < 0 {
		return fmt.Errorf("noise amplitude %v must be finite and not negative", p.Amplitude)
	}
	if p.Octaves < 1 || p.Octaves > MaxOctaves {
		return fmt.Errorf("noise octaves %d must be in [1,%d]", p.Octaves, MaxOctaves)
	}
	if !finite(p.Persistence) || p.Persistence <= 0 || p.Persistence > 1 {
		return fmt.Errorf("noise persistence %v must be in (0,1]", p.Persistence)
	}
	if !finite(p.Lacunarity) || p.Lacunarity < 1 {
		return fmt.Errorf("noise lacunarity %v must be finite and >= 1", p.Lacunarity)
	}
	if top := p.Frequency * math.Pow(p.Lacunarity, float64(p.Octaves-1)); !finite(top) {
		return fmt.Errorf("noise frequency of octave %d overflows", p.Octaves)
	}
	switch p.Basis {
	case BasisSimplex, BasisPerlin:
	default:
		return fmt.Errorf("unknown noise basis %d", int(p.Basis))
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// source returns single-octave noise in [0,1]
type source interface {
	eval3(x, y, z float64) float64
}

type simplexSource struct{ os opensimplex.Noise }

func (s simplexSource) eval3(x, y, z float64) float64 {
	return s.os.Eval3(x, y, z)
}

// perlinSource uses a single-octave classic Perlin generator; the octave
// loop lives in Fractal so both bases share it.
type perlinSource struct{ p *perlin.Perlin }

func (s perlinSource) eval3(x, y, z float64) float64 {
	v := (s.p.Noise3D(x, y, z) + 1) / 2
	return math.Min(1, math.Max(0, v))
}

// Fractal is multi-octave noise sampled at points on the unit sphere. It is
// read-only after construction and safe for concurrent use.
type Fractal struct {
	params     Params
	src        source
	amplitudes []float64
	frequency  []float64
	norm       float64
}

// NewFractal builds a fractal sampler for a seed
func NewFractal(params Params, seed int64) (*Fractal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f := &Fractal{
		params:     params,
		amplitudes: make([]float64, params.Octaves),
		frequency:  make([]float64, params.Octaves),
	}
	switch params.Basis {
	case BasisPerlin:
		f.src = perlinSource{perlin.NewPerlin(2, 2, 1, seed)}
	default:
		f.src = simplexSource{opensimplex.NewNormalized(seed)}
	}
	amp, freq := 1.0, params.Frequency
	for i := range f.amplitudes {
		f.amplitudes[i] = amp
		f.frequency[i] = freq
		f.norm += amp
		amp *= params.Persistence
		freq *= params.Lacunarity
	}
	return f, nil
}

// Params returns the settings the sampler was built with
func (f *Fractal) Params() Params { return f.params }

// Sample returns the normalized fBm value in [0,1] at p
func (f *Fractal) Sample(p mgl64.Vec3) float64 {
	var sum float64
	for i, amp := range f.amplitudes {
		s := f.frequency[i]
		sum += amp * f.src.eval3(p[0]*s, p[1]*s, p[2]*s)
	}
	v := sum / f.norm
	return math.Min(1, math.Max(0, v))
}

func (b Basis) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Basis) UnmarshalText(text []byte) error {
	v, err := ParseBasis(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
