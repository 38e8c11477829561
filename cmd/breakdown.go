package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/forecast"
)

var breakdownCmd = &cobra.Command{
	Use:     "breakdown",
	Aliases: []string{"pnl"},
	Short:   "Profit and loss split into fixed and variable costs",
	RunE:    runBreakdown,
}

func init() {
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(_ *cobra.Command, _ []string) error {
	_, s, _, err := currentScenario()
	if err != nil {
		return err
	}
	bd := forecast.Breakdown(s)
	net := bd.Revenue - bd.TotalCosts()

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROFIT & LOSS"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Line", "Monthly"},
		Rows: [][]string{
			{"Revenue", cli.RenderRevenue(bd.Revenue)},
			{"---"},
			{"Fixed Costs", cli.FormatMoney(bd.FixedCosts)},
			{"Variable Costs", cli.FormatMoney(bd.VariableCosts)},
			{"Total Costs", cli.FormatMoney(bd.TotalCosts())},
			{"---"},
			{"Net", cli.RenderMoney(net)},
		},
	}))

	scale := max(bd.Revenue, bd.TotalCosts())
	fmt.Println()
	fmt.Println(cli.RenderHorizontalBar("Revenue", bd.Revenue, scale, 40))
	fmt.Println(cli.RenderHorizontalBar("Fixed Costs", bd.FixedCosts, scale, 40))
	fmt.Println(cli.RenderHorizontalBar("Variable Costs", bd.VariableCosts, scale, 40))
	fmt.Println()
	return nil
}
