package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/forecast"
)

var forecastCmd = &cobra.Command{
	Use:     "forecast",
	Aliases: []string{"monthly"},
	Short:   "12 month revenue, expense and runway projection",
	RunE:    runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, _ []string) error {
	_, s, _, err := currentScenario()
	if err != nil {
		return err
	}
	months := forecast.ProjectMonths(s)

	fmt.Println()
	fmt.Println(cli.RenderTitle("12 MONTH FORECAST"))
	fmt.Println()

	rows := make([][]string, 0, len(months)+2)
	net := make([]float64, 0, len(months))
	var totalRev, totalExp float64
	for _, p := range months {
		rows = append(rows, []string{
			p.Month,
			cli.FormatMoney(p.Revenue),
			cli.FormatMoney(p.Expenses),
			cli.RenderMoney(p.NetIncome),
			cli.FormatRunway(p.Runway),
		})
		net = append(net, p.NetIncome)
		totalRev += p.Revenue
		totalExp += p.Expenses
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Year", cli.FormatMoney(totalRev), cli.FormatMoney(totalExp), cli.RenderMoney(totalRev - totalExp), ""},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Revenue", "Expenses", "Net", "Runway"},
		Rows:    rows,
	}))

	fmt.Printf("\n  Net income trend  %s\n\n", cli.RenderSparkline(net))
	return nil
}
