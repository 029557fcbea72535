package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"tectonicfield/core"
	"tectonicfield/noise"
)

// Settings is the full configuration tree loaded by Load
type Settings struct {
	Simulation SimulationSettings `mapstructure:"simulation"`
	Noise      NoiseSettings      `mapstructure:"noise"`
	Server     ServerSettings     `mapstructure:"server"`
	Compute    ComputeSettings    `mapstructure:"compute"`
	Store      StoreSettings      `mapstructure:"store"`
}

// SimulationSettings mirrors core.ParameterSet, with enums as strings
type SimulationSettings struct {
	Zone              string  `mapstructure:"zone"`
	PlanetRadius      float64 `mapstructure:"planetRadius"`
	PlanetAgeBillions float64 `mapstructure:"planetAgeBillions"`
	WaterAbundance    float64 `mapstructure:"waterAbundance"`
	HasLargeMoon      bool    `mapstructure:"hasLargeMoon"`
	PlateCount        int     `mapstructure:"plateCount"`
	OceanicChance     float64 `mapstructure:"oceanicChance"`
	MapWidth          int     `mapstructure:"mapWidth"`
	MapHeight         int     `mapstructure:"mapHeight"`
	Seed              int32   `mapstructure:"seed"`
	KinematicModel    string  `mapstructure:"kinematicModel"`
	MinSpeed          float64 `mapstructure:"minSpeed"`
	MaxSpeed          float64 `mapstructure:"maxSpeed"`
}

// NoiseSettings configures the fBm height noise
type NoiseSettings struct {
	Frequency   float64 `mapstructure:"frequency"`
	Amplitude   float64 `mapstructure:"amplitude"`
	Octaves     int     `mapstructure:"octaves"`
	Persistence float64 `mapstructure:"persistence"`
	Lacunarity  float64 `mapstructure:"lacunarity"`
	Basis       string  `mapstructure:"basis"`
}

// ServerSettings configures the preview server
type ServerSettings struct {
	Port int `mapstructure:"port"`
}

// ComputeSettings sizes the CPU field backend
type ComputeSettings struct {
	Workers int `mapstructure:"workers"` // 0 = one per CPU
}

// StoreSettings locates the sqlite run archive
type StoreSettings struct {
	Path string `mapstructure:"path"` // empty disables the run archive
}

// SetDefaults registers the default value of every setting
func SetDefaults(v *viper.Viper) {
	p := core.DefaultParameters()
	n := noise.DefaultParams()

	v.SetDefault("simulation.zone", p.Zone.String())
	v.SetDefault("simulation.planetRadius", p.PlanetRadius)
	v.SetDefault("simulation.planetAgeBillions", p.PlanetAgeBillions)
	v.SetDefault("simulation.waterAbundance", p.WaterAbundance)
	v.SetDefault("simulation.hasLargeMoon", p.HasLargeMoon)
	v.SetDefault("simulation.plateCount", p.PlateCount)
	v.SetDefault("simulation.oceanicChance", p.OceanicChance)
	v.SetDefault("simulation.mapWidth", p.MapWidth)
	v.SetDefault("simulation.mapHeight", p.MapHeight)
	v.SetDefault("simulation.seed", p.Seed)
	v.SetDefault("simulation.kinematicModel", p.KinematicModel.String())
	v.SetDefault("simulation.minSpeed", p.MinSpeed)
	v.SetDefault("simulation.maxSpeed", p.MaxSpeed)

	v.SetDefault("noise.frequency", n.Frequency)
	v.SetDefault("noise.amplitude", n.Amplitude)
	v.SetDefault("noise.octaves", n.Octaves)
	v.SetDefault("noise.persistence", n.Persistence)
	v.SetDefault("noise.lacunarity", n.Lacunarity)
	v.SetDefault("noise.basis", n.Basis.String())

	v.SetDefault("server.port", 8080)
	v.SetDefault("compute.workers", 0)
	v.SetDefault("store.path", "")
}

// Load reads settings from defaults, an optional settings file and
// TECTONIC_* environment variables. With an empty path, settings.{json,yaml,toml}
// is looked up in the working directory; not finding it is not an error.
func Load(v *viper.Viper, path string) (Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix("TECTONIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error parsing settings: %w", err)
	}
	return s, nil
}

// Parameters converts the simulation section to a parameter set. Range
// checks are left to ParameterSet.Validate.
func (s Settings) Parameters() (core.ParameterSet, error) {
	zone, err := core.ParseHabitableZone(s.Simulation.Zone)
	if err != nil {
		return core.ParameterSet{}, err
	}
	model, err := core.ParseKinematicModel(s.Simulation.KinematicModel)
	if err != nil {
		return core.ParameterSet{}, err
	}
	sim := s.Simulation
	return core.ParameterSet{
		Zone:              zone,
		PlanetRadius:      sim.PlanetRadius,
		PlanetAgeBillions: sim.PlanetAgeBillions,
		WaterAbundance:    sim.WaterAbundance,
		HasLargeMoon:      sim.HasLargeMoon,
		PlateCount:        sim.PlateCount,
		OceanicChance:     sim.OceanicChance,
		MapWidth:          sim.MapWidth,
		MapHeight:         sim.MapHeight,
		Seed:              sim.Seed,
		KinematicModel:    model,
		MinSpeed:          sim.MinSpeed,
		MaxSpeed:          sim.MaxSpeed,
	}, nil
}

// NoiseParams converts the noise section
func (s Settings) NoiseParams() (noise.Params, error) {
	basis, err := noise.ParseBasis(s.Noise.Basis)
	if err != nil {
		return noise.Params{}, err
	}
	return noise.Params{
		Frequency:   s.Noise.Frequency,
		Amplitude:   s.Noise.Amplitude,
		Octaves:     s.Noise.Octaves,
		Persistence: s.Noise.Persistence,
		Lacunarity:  s.Noise.Lacunarity,
		Basis:       basis,
	}, nil
}
