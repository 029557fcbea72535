package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Map coordinates use u in [0,1) around the equator and v in [0,1] from the
// north pole (v=0) to the south pole (v=1). The sphere is Y-up:
//
//	theta = u * 2π, phi = v * π
//	p = (sin φ cos θ, cos φ, sin φ sin θ)

// UVToSphere maps a map coordinate to a point on the unit sphere
func UVToSphere(u, v float64) mgl64.Vec3 {
	theta := u * 2 * math.Pi
	phi := v * math.Pi
	sinPhi := math.Sin(phi)
	return mgl64.Vec3{
		sinPhi * math.Cos(theta),
		math.Cos(phi),
		sinPhi * math.Sin(theta),
	}
}

// SphereToUV is the inverse of UVToSphere for points off the poles. The
// point does not need to be normalized.
func SphereToUV(p mgl64.Vec3) (u, v float64) {
	r := p.Len()
	if r < 1e-12 {
		return 0, 0
	}
	phi := math.Acos(clamp(p[1]/r, -1, 1))
	theta := math.Atan2(p[2], p[0])
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return WrapUV(theta/(2*math.Pi), phi/math.Pi)
}

// CellUV returns the map coordinate of the center of grid cell (x, y)
func CellUV(x, y, width, height int) (u, v float64) {
	return (float64(x) + 0.5) / float64(width), (float64(y) + 0.5) / float64(height)
}

// WrapUV wraps u toroidally into [0,1) and clamps v into [0,1]
func WrapUV(u, v float64) (float64, float64) {
	u -= math.Floor(u)
	if u >= 1 {
		u = 0
	}
	return u, clamp(v, 0, 1)
}

// UVToLatLon converts a map coordinate to latitude/longitude in degrees,
// latitude positive north and longitude in [-180, 180).
func UVToLatLon(u, v float64) (lat, lon float64) {
	lat = 90 - v*180
	lon = u*360 - 180
	return lat, lon
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
