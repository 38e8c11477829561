// Package cmd implements the cfohelper CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/source"
)

var (
	flagSpending    float64
	flagHiring      int
	flagPricing     float64
	flagScenario    string
	flagIncremental bool
	flagConfig      string
	flagQuiet       bool
)

var rootCmd = &cobra.Command{
	Use:   "cfohelper",
	Short: "Financial scenario planning for startups",
	Long: "Model how marketing spend, team size and pricing move revenue, expenses\n" +
		"and runway, with a 12 month forecast, recommendations and exportable reports.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64VarP(&flagSpending, "spending", "s", 50, "Marketing spending (% of budget, 0-100)")
	pf.IntVarP(&flagHiring, "hiring", "H", 10, "Additional team members (0-20)")
	pf.Float64VarP(&flagPricing, "pricing", "p", 100, "Pricing vs baseline (%, 50-200)")
	pf.StringVar(&flagScenario, "scenario", "", "Load the starting scenario from a YAML, JSON or TOML file")
	pf.BoolVar(&flagIncremental, "incremental", false, "Apply dial changes with the legacy order-dependent derivation")
	pf.StringVar(&flagConfig, "config", "", "Config file (default "+config.ConfigPath()+")")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads --config or the default config file.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

// derivationMode picks the derivation: --incremental wins over the config.
func derivationMode(cfg config.Config) (forecast.Mode, error) {
	if flagIncremental {
		return forecast.ModeIncremental, nil
	}
	return forecast.ParseMode(cfg.Scenario.Derivation)
}

// loadScenario is the shared scenario path used by all commands. It starts
// from --scenario or the configured default dials, then applies any dial
// flags given on the command line in dashboard order.
func loadScenario(cfg config.Config) (model.Scenario, forecast.Mode, error) {
	mode, err := derivationMode(cfg)
	if err != nil {
		return model.Scenario{}, "", err
	}

	s := forecast.Derive(cfg.Scenario.SpendingPct, cfg.Scenario.HiringCount, cfg.Scenario.PricingPct)
	if flagScenario != "" {
		ns, err := source.LoadFile(flagScenario)
		if err != nil {
			return model.Scenario{}, "", err
		}
		s = ns.Scenario
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Loaded scenario %q from %s\n", ns.Name, flagScenario)
		}
	}

	changes := []struct {
		flag  string
		dial  model.Dial
		value float64
	}{
		{"spending", model.DialSpending, flagSpending},
		{"hiring", model.DialHiring, float64(flagHiring)},
		{"pricing", model.DialPricing, flagPricing},
	}
	for _, c := range changes {
		if !rootCmd.PersistentFlags().Changed(c.flag) {
			continue
		}
		if clamped := forecast.Clamp(c.dial, c.value); clamped != c.value && !flagQuiet {
			fmt.Fprintf(os.Stderr, "  --%s %v adjusted to %v\n", c.flag, c.value, clamped)
		}
		if s, err = forecast.DeriveScenario(c.dial, c.value, s, mode); err != nil {
			return model.Scenario{}, "", err
		}
	}

	if err := forecast.Validate(s); err != nil {
		return model.Scenario{}, "", err
	}
	return s, mode, nil
}

// currentScenario loads config and the scenario in one step.
func currentScenario() (config.Config, model.Scenario, forecast.Mode, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, model.Scenario{}, "", err
	}
	s, mode, err := loadScenario(cfg)
	return cfg, s, mode, err
}
