package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/pipeline"
)

var compareCmd = &cobra.Command{
	Use:   "compare <dir>",
	Short: "Rank every scenario file in a directory by 12 month net income",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, args []string) error {
	dir := args[0]
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", dir)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 24))
		}
	}

	result, err := pipeline.Load(dir, progressFn)
	if err != nil {
		return err
	}
	if !flagQuiet && result.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d of %d scenario files    \n", result.ParsedFiles, result.TotalFiles)
	}

	if len(result.Scenarios) == 0 {
		fmt.Println("\n  No scenario files found.")
		fmt.Println("  Add .yaml, .json or .toml files with spending_pct, hiring_count and pricing_pct.")
		return nil
	}

	rows := pipeline.Compare(result.Scenarios)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIO COMPARISON  %d scenarios", len(rows))))
	fmt.Println()

	tableRows := make([][]string, 0, len(rows))
	for i, r := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%d", i+1),
			r.Name,
			fmt.Sprintf("%s / %d / %s",
				cli.FormatDial(model.DialSpending, r.Scenario.SpendingPct),
				r.Scenario.HiringCount,
				cli.FormatDial(model.DialPricing, r.Scenario.PricingPct)),
			cli.FormatCurrencyK(r.AnnualRevenue),
			cli.FormatCurrencyK(r.AnnualExpenses),
			cli.RenderMoney(r.AnnualNetIncome),
			fmt.Sprintf("%d/12", r.ProfitableMonths),
			firstLoss(r.FirstLossMonth),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Scenario", "Dials", "Revenue", "Expenses", "Net (12 mo)", "Profitable", "First Loss"},
		Rows:    tableRows,
	}))

	for _, fe := range result.Errors {
		fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", fe.Path, fe.Err)
	}
	return nil
}

func firstLoss(month int) string {
	if month < 0 || month >= len(model.MonthLabels) {
		return "-"
	}
	return model.MonthLabels[month]
}
