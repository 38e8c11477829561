package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cfohelper/cfohelper/internal/report"
)

var (
	flagReportFormat string
	flagReportOut    string
	flagReportPrompt string
	flagReportCopy   bool
	flagReportStdout bool
	flagReportNoWait bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a financial report (JSON or YAML)",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportFormat, "format", "f", "", "Report format: json or yaml (default from config)")
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "", "Directory to write the report into (default from config)")
	reportCmd.Flags().StringVar(&flagReportPrompt, "prompt", "", "Prompt recorded with the report")
	reportCmd.Flags().BoolVar(&flagReportCopy, "copy", false, "Copy the report to the clipboard")
	reportCmd.Flags().BoolVar(&flagReportStdout, "stdout", false, "Print the report instead of writing a file")
	reportCmd.Flags().BoolVar(&flagReportNoWait, "no-wait", false, "Skip the simulated generation delay")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg, s, _, err := currentScenario()
	if err != nil {
		return err
	}

	formatName := cfg.Report.Format
	if flagReportFormat != "" {
		formatName = flagReportFormat
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	prompt := flagReportPrompt
	if prompt == "" {
		prompt = cfg.Report.DefaultPrompt
	}

	delay := time.Duration(cfg.Report.DelayMS) * time.Millisecond
	if flagReportNoWait {
		delay = 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !flagQuiet && delay > 0 {
		fmt.Fprintf(os.Stderr, "  Generating report...\n")
	}
	r, err := report.Generate(ctx, s, report.Options{Prompt: prompt, Delay: delay})
	if err != nil {
		return err
	}

	meter, closeMeter, err := openMeter(cfg)
	if err != nil {
		return err
	}
	defer closeMeter()
	if _, err := meter.RecordReport(r.Prompt, s); err != nil {
		return err
	}

	if flagReportStdout {
		data, err := report.Encode(r, format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		if err != nil {
			return err
		}
	} else {
		dir := cfg.Report.OutputDir
		if flagReportOut != "" {
			dir = flagReportOut
		}
		path, err := report.Write(dir, r, format)
		if err != nil {
			return err
		}
		fmt.Printf("  Report %s written to %s\n", r.ID, path)
	}

	if flagReportCopy {
		if err := report.Share(r, format); err != nil {
			return err
		}
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Copied to clipboard\n")
		}
	}

	if bill, err := meter.Bill(); err == nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Usage: %d report generated · %s %s\n", bill.Reports, bill.Total.StringFixed(2), bill.Currency)
	}
	return nil
}
