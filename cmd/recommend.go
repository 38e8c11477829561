package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/forecast"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"insights"},
	Short:   "Recommendations for the scenario",
	RunE:    runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(_ *cobra.Command, _ []string) error {
	_, s, _, err := currentScenario()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RECOMMENDATIONS"))
	fmt.Println()
	for _, f := range forecast.Recommend(s, s.NetIncome()) {
		fmt.Println(cli.RenderFlag(f))
		fmt.Println()
	}
	return nil
}
