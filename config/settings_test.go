package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"tectonicfield/core"
	"tectonicfield/noise"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	params, err := s.Parameters()
	if err != nil {
		t.Fatal(err)
	}
	if params != core.DefaultParameters() {
		t.Errorf("parameters: got %+v, want defaults", params)
	}
	np, err := s.NoiseParams()
	if err != nil {
		t.Fatal(err)
	}
	if np != noise.DefaultParams() {
		t.Errorf("noise: got %+v, want defaults", np)
	}
	if s.Server.Port != 8080 || s.Compute.Workers != 0 || s.Store.Path != "" {
		t.Errorf("got %+v", s)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `
simulation:
  plateCount: 20
  kinematicModel: random
  zone: too-cold
  seed: 42
noise:
  basis: perlin
  octaves: 3
server:
  port: 9000
store:
  path: runs.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(viper.New(), path)
	if err != nil {
		t.Fatal(err)
	}
	params, err := s.Parameters()
	if err != nil {
		t.Fatal(err)
	}
	if params.PlateCount != 20 || params.KinematicModel != core.KinematicRandom ||
		params.Zone != core.TooCold || params.Seed != 42 {
		t.Errorf("parameters: got %+v", params)
	}
	// untouched keys keep their defaults
	if params.MapWidth != 512 || params.WaterAbundance != 0.7 {
		t.Errorf("defaults lost: %+v", params)
	}
	np, err := s.NoiseParams()
	if err != nil {
		t.Fatal(err)
	}
	if np.Basis != noise.BasisPerlin || np.Octaves != 3 || np.Frequency != 2.0 {
		t.Errorf("noise: got %+v", np)
	}
	if s.Server.Port != 9000 || s.Store.Path != "runs.db" {
		t.Errorf("got %+v", s)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TECTONIC_SIMULATION_MAPWIDTH", "128")
	t.Setenv("TECTONIC_COMPUTE_WORKERS", "3")

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Simulation.MapWidth != 128 || s.Compute.Workers != 3 {
		t.Errorf("env not applied: %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing explicit file accepted")
	}

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}
	s.Simulation.KinematicModel = "spin"
	if _, err := s.Parameters(); err == nil {
		t.Error("unknown model accepted")
	}
	s.Simulation.KinematicModel = "random"
	s.Simulation.Zone = "lukewarm"
	if _, err := s.Parameters(); err == nil {
		t.Error("unknown zone accepted")
	}
	s.Noise.Basis = "value"
	if _, err := s.NoiseParams(); err == nil {
		t.Error("unknown basis accepted")
	}
}
