package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := configPath()
	fmt.Printf("  Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Scenario]")
	fmt.Printf("    Marketing spending: %.0f%%\n", cfg.Scenario.SpendingPct)
	fmt.Printf("    Team size:          %d\n", cfg.Scenario.HiringCount)
	fmt.Printf("    Product pricing:    %.0f%%\n", cfg.Scenario.PricingPct)
	fmt.Printf("    Derivation:         %s\n", cfg.Scenario.Derivation)
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Format:     %s\n", cfg.Report.Format)
	fmt.Printf("    Delay:      %dms\n", cfg.Report.DelayMS)
	if cfg.Report.OutputDir != "" {
		fmt.Printf("    Output dir: %s\n", cfg.Report.OutputDir)
	}
	if cfg.Report.DefaultPrompt != "" {
		fmt.Printf("    Prompt:     %s\n", cfg.Report.DefaultPrompt)
	}
	fmt.Println()

	fmt.Println("  [Billing]")
	rates := cfg.Billing.Rates()
	fmt.Printf("    Currency:     %s\n", cfg.Billing.Currency)
	fmt.Printf("    Per scenario: %.2f\n", rates[config.UsageScenario])
	fmt.Printf("    Per report:   %.2f\n", rates[config.UsageReport])
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:   %s\n", cfg.Server.Addr)
	if cfg.Server.RedisAddr != "" {
		fmt.Printf("    Redis:     %s\n", cfg.Server.RedisAddr)
	} else {
		fmt.Println("    Redis:     not configured (in-memory cache)")
	}
	fmt.Printf("    Cache TTL: %ds\n", cfg.Server.CacheTTLSec)
	fmt.Printf("    Origins:   %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `cfohelper setup` to reconfigure.")
	return nil
}
