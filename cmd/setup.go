package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := loadConfig()

	if err := tui.RunSetup(&cfg); err != nil {
		return err
	}

	path := configPath()
	if err := config.SaveTo(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `cfohelper setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
