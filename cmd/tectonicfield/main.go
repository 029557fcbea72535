package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tectonicfield/config"
	"tectonicfield/generator"
	"tectonicfield/gpu"
)

type app struct {
	v        *viper.Viper
	cfgPath  string
	logLevel string
	settings config.Settings
	log      *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "tectonicfield",
		Short:         "Deterministic tectonic plate fields for procedural planets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "settings file (default ./settings.{json,yaml,toml})")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Int("workers", 0, "kernel worker goroutines (0 = one per CPU)")

	root.AddCommand(
		newGenerateCmd(a),
		newNoiseCmd(a),
		newServeCmd(a),
		newRunsCmd(a),
	)
	return root
}

// flagKeys maps command-line flags onto settings keys
var flagKeys = map[string]string{
	"workers": "compute.workers",
	"seed":    "simulation.seed",
	"plates":  "simulation.plateCount",
	"model":   "simulation.kinematicModel",
	"zone":    "simulation.zone",
	"radius":  "simulation.planetRadius",
	"age":     "simulation.planetAgeBillions",
	"water":   "simulation.waterAbundance",
	"width":   "simulation.mapWidth",
	"height":  "simulation.mapHeight",
	"basis":   "noise.basis",
	"freq":    "noise.frequency",
	"octaves": "noise.octaves",
	"port":    "server.port",
	"store":   "store.path",
}

// init configures logging and loads settings, letting the running
// command's flags override file and environment values.
func (a *app) init(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(a.logLevel))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)

	s, err := config.Load(a.v, a.cfgPath)
	if err != nil {
		return err
	}
	a.settings = s
	return nil
}

func (a *app) newGenerator() *generator.Generator {
	return generator.New(gpu.NewCPUCompute(a.settings.Compute.Workers), a.log)
}
