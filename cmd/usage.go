package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/server"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show usage counters and the bill of a running server",
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Server address (default from config)")
	rootCmd.AddCommand(usageCmd)
}

func runUsage(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := serveAddr(cfg)

	var resp server.UsageResponse
	if err := getJSON(addr, "/api/v1/usage", &resp); err != nil {
		return fmt.Errorf("server at %s: %w", addr, err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("USAGE"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Item", "Count", "Rate", "Amount"},
		Rows: [][]string{
			{"Scenario analyses", cli.FormatNumber(int64(resp.Counts.Scenarios)), resp.Bill.ScenarioRate.StringFixed(2), resp.Bill.ScenarioCost.StringFixed(2)},
			{"Reports", cli.FormatNumber(int64(resp.Counts.Reports)), resp.Bill.ReportRate.StringFixed(2), resp.Bill.ReportCost.StringFixed(2)},
			{"---"},
			{"Total", "", "", resp.Bill.Total.StringFixed(2) + " " + resp.Bill.Currency},
		},
	}))
	return nil
}
