package core

import (
	"math"
	"testing"
)

// TestUVToSphere checks the Y-up mapping at the poles and on the equator
func TestUVToSphere(t *testing.T) {
	tests := []struct {
		name    string
		u, v    float64
		wantX   float64
		wantY   float64
		wantZ   float64
		epsilon float64
	}{
		{"North Pole", 0.0, 0.0, 0, 1, 0, 1e-12},
		{"South Pole", 0.0, 1.0, 0, -1, 0, 1e-12},
		{"Equator Prime Meridian", 0.0, 0.5, 1, 0, 0, 1e-12},
		{"Equator Quarter Turn", 0.25, 0.5, 0, 0, 1, 1e-12},
		{"Equator Half Turn", 0.5, 0.5, -1, 0, 0, 1e-12},
		{"45N 45E", 0.125, 0.25, 0.5, math.Sqrt2 / 2, 0.5, 1e-12},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := UVToSphere(tc.u, tc.v)
			if math.Abs(p[0]-tc.wantX) > tc.epsilon {
				t.Errorf("X coordinate: got %f, want %f", p[0], tc.wantX)
			}
			if math.Abs(p[1]-tc.wantY) > tc.epsilon {
				t.Errorf("Y coordinate: got %f, want %f", p[1], tc.wantY)
			}
			if math.Abs(p[2]-tc.wantZ) > tc.epsilon {
				t.Errorf("Z coordinate: got %f, want %f", p[2], tc.wantZ)
			}
			if l := p.Len(); math.Abs(l-1) > 1e-12 {
				t.Errorf("length: got %f, want 1", l)
			}
		})
	}
}

// TestPolesSingularities checks that every u maps to the same pole point
func TestPolesSingularities(t *testing.T) {
	for _, v := range []float64{0, 1} {
		want := UVToSphere(0, v)
		for u := 0.0; u < 1; u += 0.125 {
			p := UVToSphere(u, v)
			if p.Sub(want).Len() > 1e-12 {
				t.Errorf("pole v=%.0f u=%.3f: got %v, want %v", v, u, p, want)
			}
		}
	}
}

func TestSphereToUVRoundTrip(t *testing.T) {
	for _, tc := range []struct{ u, v float64 }{
		{0.1, 0.3}, {0.5, 0.5}, {0.75, 0.9}, {0.999, 0.01}, {0, 0.5},
	} {
		u, v := SphereToUV(UVToSphere(tc.u, tc.v))
		if math.Abs(u-tc.u) > 1e-9 || math.Abs(v-tc.v) > 1e-9 {
			t.Errorf("round trip (%.3f, %.3f): got (%.9f, %.9f)", tc.u, tc.v, u, v)
		}
	}

	// scale does not matter
	u, v := SphereToUV(UVToSphere(0.3, 0.6).Mul(5))
	if math.Abs(u-0.3) > 1e-9 || math.Abs(v-0.6) > 1e-9 {
		t.Errorf("scaled point: got (%f, %f), want (0.3, 0.6)", u, v)
	}
}

func TestCellUV(t *testing.T) {
	tests := []struct {
		x, y, w, h int
		wantU      float64
		wantV      float64
	}{
		{0, 0, 4, 2, 0.125, 0.25},
		{3, 1, 4, 2, 0.875, 0.75},
		{0, 0, 1, 1, 0.5, 0.5},
	}
	for _, tc := range tests {
		u, v := CellUV(tc.x, tc.y, tc.w, tc.h)
		if u != tc.wantU || v != tc.wantV {
			t.Errorf("CellUV(%d, %d, %d, %d): got (%f, %f), want (%f, %f)",
				tc.x, tc.y, tc.w, tc.h, u, v, tc.wantU, tc.wantV)
		}
	}
}

func TestWrapUV(t *testing.T) {
	tests := []struct {
		name         string
		u, v         float64
		wantU, wantV float64
	}{
		{"inside", 0.25, 0.5, 0.25, 0.5},
		{"u past one", 1.05, 0.5, 0.05, 0.5},
		{"u negative", -0.05, 0.5, 0.95, 0.5},
		{"u exactly one", 1.0, 0.5, 0, 0.5},
		{"v below zero", 0.5, -0.01, 0.5, 0},
		{"v above one", 0.5, 1.01, 0.5, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, v := WrapUV(tc.u, tc.v)
			if math.Abs(u-tc.wantU) > 1e-12 || v != tc.wantV {
				t.Errorf("got (%f, %f), want (%f, %f)", u, v, tc.wantU, tc.wantV)
			}
			if u < 0 || u >= 1 {
				t.Errorf("u %f outside [0,1)", u)
			}
		})
	}
}

func TestUVToLatLon(t *testing.T) {
	tests := []struct {
		u, v     float64
		lat, lon float64
	}{
		{0.5, 0.5, 0, 0},
		{0, 0, 90, -180},
		{0.75, 1, -90, 90},
	}
	for _, tc := range tests {
		lat, lon := UVToLatLon(tc.u, tc.v)
		if lat != tc.lat || lon != tc.lon {
			t.Errorf("UVToLatLon(%f, %f): got (%f, %f), want (%f, %f)", tc.u, tc.v, lat, lon, tc.lat, tc.lon)
		}
	}
}
