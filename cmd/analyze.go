package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/store"
	"github.com/cfohelper/cfohelper/internal/usage"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <prompt>",
	Short: "Analyze the scenario against a question",
	Long: "Run a full analysis of the scenario for the given prompt: headline figures,\n" +
		"recommendations and the report outlook. Each run counts as one scenario analysis.",
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// openMeter returns a usage meter over a fresh in-memory ledger.
func openMeter(cfg config.Config) (*usage.Meter, func(), error) {
	ledger, err := store.OpenMemory()
	if err != nil {
		return nil, nil, err
	}
	return usage.NewMeter(ledger, cfg.Billing), func() { _ = ledger.Close() }, nil
}

func runAnalyze(_ *cobra.Command, args []string) error {
	cfg, s, _, err := currentScenario()
	if err != nil {
		return err
	}
	prompt := strings.TrimSpace(strings.Join(args, " "))

	meter, closeMeter, err := openMeter(cfg)
	if err != nil {
		return err
	}
	defer closeMeter()

	if _, err := meter.RecordScenario(prompt, s); err != nil {
		return err
	}

	summary := forecast.Summarize(s)
	months := forecast.ProjectMonths(s)
	var annualNet float64
	profitable := 0
	for _, p := range months {
		annualNet += p.NetIncome
		if p.Profitable() {
			profitable++
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SCENARIO ANALYSIS"))
	fmt.Printf("\n  %q\n\n", prompt)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Net Income", cli.RenderMoney(summary.NetIncome) + "/mo"},
			{"Runway", summary.RunwayLabel},
			{"---"},
			{"12 Month Net", cli.RenderMoney(annualNet)},
			{"Profitable Months", fmt.Sprintf("%d of %d", profitable, len(months))},
		},
	}))

	fmt.Println()
	for _, f := range forecast.Recommend(s, s.NetIncome()) {
		fmt.Println(cli.RenderFlag(f))
	}

	fmt.Println()
	fmt.Println("  Outlook")
	for _, line := range forecast.ReportRecommendations(s) {
		fmt.Printf("    • %s\n", line)
	}

	if bill, err := meter.Bill(); err == nil && !flagQuiet {
		fmt.Printf("\n  Usage: %d scenario analyzed · %s %s\n\n", bill.Scenarios, bill.Total.StringFixed(2), bill.Currency)
	}
	return nil
}
