package main

import (
	"fmt"
	"math"

	"tectonicfield/core"
	"tectonicfield/gpu"
	"tectonicfield/simulation"
)

func main() {
	fmt.Println("=== Coordinate System Test ===")

	// Test 1: Map coordinates to the sphere and back
	fmt.Println("\nTest 1: UV to Cartesian conversions")
	testPositions := []struct {
		name string
		u, v float64
	}{
		{"North Pole", 0, 0},
		{"South Pole", 0, 1},
		{"Equator 0°", 0.5, 0.5},
		{"Equator 90°E", 0.75, 0.5},
		{"45°N 45°E", 0.625, 0.25},
	}

	for _, pos := range testPositions {
		p := core.UVToSphere(pos.u, pos.v)
		u, v := core.SphereToUV(p)
		lat, lon := core.UVToLatLon(pos.u, pos.v)

		fmt.Printf("%s (u=%.3f, v=%.3f):\n", pos.name, pos.u, pos.v)
		fmt.Printf("  Lat/Lon: %.1f°, %.1f°\n", lat, lon)
		fmt.Printf("  Cartesian: X=%.4f, Y=%.4f, Z=%.4f\n", p[0], p[1], p[2])
		fmt.Printf("  Back to UV: %.4f, %.4f\n", u, v)
	}

	// Test 2: Grid cell centers
	fmt.Println("\nTest 2: Grid cell mapping")
	const width, height = 8, 4
	for y := 0; y < height; y++ {
		u, v := core.CellUV(0, y, width, height)
		lat, _ := core.UVToLatLon(u, v)
		fmt.Printf("Row %d -> v=%.3f -> %.1f°\n", y, v, lat)
	}

	// Test 3: Plate movement must be tangent to the sphere
	fmt.Println("\nTest 3: Plate movement tangency")
	for _, model := range []core.KinematicModel{core.KinematicRandom, core.KinematicAxisFlows2, core.KinematicAxisFlows4} {
		params := core.DefaultParameters()
		params.Seed = 42
		params.KinematicModel = model

		s := simulation.NewStream(params.Seed)
		ps, err := simulation.SeedPlates(params, s)
		if err != nil {
			fmt.Println("  seed:", err)
			return
		}
		if err := simulation.ApplyKinematics(ps, params, s); err != nil {
			fmt.Println("  kinematics:", err)
			return
		}

		worst := 0.0
		for _, p := range ps.Plates {
			worst = math.Max(worst, math.Abs(p.Movement.Dot(p.Center)))
		}
		fmt.Printf("%s: %d plates, max |movement·center| = %.2e\n", model, ps.Len(), worst)
	}

	// Test 4: Nearest plate at each test position
	fmt.Println("\nTest 4: Plate assignment")
	params := core.DefaultParameters()
	params.Seed = 42
	ps, err := simulation.SeedPlates(params, simulation.NewStream(params.Seed))
	if err != nil {
		fmt.Println("  seed:", err)
		return
	}
	buf := gpu.NewPlateBuffer(ps)
	for _, pos := range testPositions {
		id, delta := gpu.AssignCell(core.UVToSphere(pos.u, pos.v), buf)
		fmt.Printf("%s -> plate %d (delta %.4f)\n", pos.name, id, delta)
	}
}
