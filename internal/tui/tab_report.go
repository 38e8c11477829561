package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/cli"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/report"
	"github.com/cfohelper/cfohelper/internal/tui/components"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

// reportState tracks report generation on the Report tab.
type reportState struct {
	format     report.Format
	generating bool
	started    time.Time
	current    *report.Report
	savedPath  string
	err        error
}

// reportDoneMsg carries a finished report back to the UI loop.
type reportDoneMsg struct {
	report report.Report
	err    error
}

func (a App) reportDelay() time.Duration {
	return time.Duration(a.cfg.Report.DelayMS) * time.Millisecond
}

func (a App) reportPrompt() string {
	if a.analysis != nil {
		return a.analysis.Prompt
	}
	if p := strings.TrimSpace(a.cfg.Report.DefaultPrompt); p != "" {
		return p
	}
	return model.DefaultReportPrompt
}

func generateReportCmd(s model.Scenario, opts report.Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Delay+30*time.Second)
		defer cancel()
		r, err := report.Generate(ctx, s, opts)
		return reportDoneMsg{report: r, err: err}
	}
}

func (a App) startReport() (App, tea.Cmd) {
	if a.rep.generating {
		return a, nil
	}
	a.rep.generating = true
	a.rep.started = time.Now()
	a.rep.err = nil
	a.rep.savedPath = ""
	a.notice = "Generating report..."

	opts := report.Options{Prompt: a.reportPrompt(), Delay: a.reportDelay()}
	return a, tea.Batch(generateReportCmd(a.scenario, opts), a.spinner.Tick)
}

func (a App) finishReport(msg reportDoneMsg) App {
	a.rep.generating = false
	if msg.err != nil {
		a.rep.err = msg.err
		a.notice = "Report failed"
		return a
	}
	r := msg.report
	a.rep.current = &r
	a.notice = "Report ready"
	if a.meter != nil {
		if _, err := a.meter.RecordReport(r.Prompt, r.Scenario); err != nil {
			a.rep.err = err
		}
		a.refreshCounts()
	}
	return a
}

func (a App) updateReportKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "g", "enter":
		m, cmd := a.startReport()
		return m, cmd, true
	case "m":
		if a.rep.format == report.FormatJSON {
			a.rep.format = report.FormatYAML
		} else {
			a.rep.format = report.FormatJSON
		}
		return a, nil, true
	case "w":
		if a.rep.current == nil {
			a.notice = "Generate a report first"
			return a, nil, true
		}
		path, err := report.Write(a.cfg.Report.OutputDir, *a.rep.current, a.rep.format)
		if err != nil {
			a.rep.err = err
			return a, nil, true
		}
		a.rep.savedPath = path
		a.notice = "Saved " + path
		return a, nil, true
	case "c":
		if a.rep.current == nil {
			a.notice = "Generate a report first"
			return a, nil, true
		}
		if err := report.Share(*a.rep.current, a.rep.format); err != nil {
			a.rep.err = err
			return a, nil, true
		}
		a.notice = "Report copied to clipboard"
		return a, nil, true
	}
	return a, nil, false
}

func (a App) renderReportTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var status strings.Builder
	status.WriteString(labelStyle.Render("Prompt  "))
	status.WriteString(valueStyle.Render(truncStr(a.reportPrompt(), innerW-8)))
	status.WriteString("\n")
	status.WriteString(labelStyle.Render("Format  "))
	status.WriteString(accentStyle.Render(string(a.rep.format)))
	status.WriteString("\n\n")

	switch {
	case a.rep.generating:
		pct := 1.0
		if d := a.reportDelay(); d > 0 {
			pct = float64(time.Since(a.rep.started)) / float64(d)
		}
		status.WriteString(a.spinner.View())
		status.WriteString(labelStyle.Render(" Generating report..."))
		status.WriteString("\n")
		status.WriteString(components.ProgressBar(pct, min(40, innerW-6)))
	case a.rep.current != nil:
		r := a.rep.current
		status.WriteString(accentStyle.Render("Report " + r.ID[:8]))
		status.WriteString(dimStyle.Render(" · generated " + since(r.Timestamp, time.Now())))
		if a.rep.savedPath != "" {
			status.WriteString("\n")
			status.WriteString(labelStyle.Render("Saved to " + a.rep.savedPath))
		}
	default:
		status.WriteString(dimStyle.Render("No report yet."))
	}
	if a.rep.err != nil {
		status.WriteString("\n")
		status.WriteString(errStyle.Render(a.rep.err.Error()))
	}
	status.WriteString("\n\n")
	status.WriteString(dimStyle.Render("g generate · m json/yaml · w save · c copy"))

	out := components.FocusCard("Financial Report", status.String(), cw)
	if a.rep.current == nil {
		return out
	}

	r := a.rep.current
	var body strings.Builder
	fmt.Fprintf(&body, "%s %s\n", labelStyle.Render("Net income"),
		lipgloss.NewStyle().Foreground(t.MoneyColor(r.NetIncome)).Background(t.Surface).Bold(true).Render(cli.FormatMoney(r.NetIncome)))
	fmt.Fprintf(&body, "%s %s\n\n", labelStyle.Render("Runway    "), valueStyle.Render(r.Runway))
	for _, line := range r.Recommendations {
		body.WriteString(valueStyle.Render("• " + truncStr(line, innerW-2)))
		body.WriteString("\n")
	}
	return out + "\n" + components.ContentCard("Summary", strings.TrimSuffix(body.String(), "\n"), cw)
}
