package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Scenario dials, monthly figures and runway",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	_, s, mode, err := currentScenario()
	if err != nil {
		return err
	}
	summary := forecast.Summarize(s)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIO SUMMARY  %s derivation", mode)))
	fmt.Println()

	for _, d := range model.Dials {
		fmt.Println(cli.RenderDial(d, s.Value(d), 24))
	}
	fmt.Println()

	rows := [][]string{
		{"Monthly Revenue", cli.RenderRevenue(s.Revenue)},
		{"Monthly Expenses", cli.FormatMoney(s.Expenses)},
		{"Net Income", cli.RenderMoney(summary.NetIncome)},
		{"---"},
		{"Runway", summary.RunwayLabel},
	}
	if summary.BurnRate > 0 {
		rows = append(rows, []string{"Burn Rate", cli.FormatMoney(summary.BurnRate) + "/mo"})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Println()
	for _, f := range forecast.Recommend(s, s.NetIncome()) {
		fmt.Println(cli.RenderFlag(f))
	}
	fmt.Println()
	return nil
}
