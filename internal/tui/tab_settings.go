package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/report"
	"github.com/cfohelper/cfohelper/internal/tui/components"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldDerivation
	settingsFieldFormat
	settingsFieldOutputDir
	settingsFieldDelay
	settingsFieldPrompt
	settingsFieldCount
)

// settingsState tracks the settings tab.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
}

func (a App) updateSettingsKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
	case "k", "up":
		a.settings.cursor = max(a.settings.cursor-1, 0)
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) settingsStartEdit() (App, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldDerivation:
		ti.Placeholder = "pure or incremental"
		ti.SetValue(string(a.mode))
	case settingsFieldFormat:
		ti.Placeholder = "json or yaml"
		ti.SetValue(string(a.rep.format))
	case settingsFieldOutputDir:
		ti.Placeholder = ". (current directory)"
		ti.SetValue(a.cfg.Report.OutputDir)
	case settingsFieldDelay:
		ti.Placeholder = "2000"
		ti.SetValue(strconv.Itoa(a.cfg.Report.DelayMS))
	case settingsFieldPrompt:
		ti.Placeholder = "default report prompt"
		ti.SetValue(a.cfg.Report.DefaultPrompt)
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsApply(strings.TrimSpace(a.settings.input.Value()))
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsApply validates val for the selected field, applies it to the
// running dashboard and persists the config.
func (a *App) settingsApply(val string) {
	a.settings.saveErr = nil

	switch a.settings.cursor {
	case settingsFieldTheme:
		if theme.ByName(val).Name != val {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		a.cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldDerivation:
		mode, err := forecast.ParseMode(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		a.cfg.Scenario.Derivation = string(mode)
		a.mode = mode
	case settingsFieldFormat:
		f, err := report.ParseFormat(val)
		if err != nil {
			a.settings.saveErr = err
			return
		}
		a.cfg.Report.Format = string(f)
		a.rep.format = f
	case settingsFieldOutputDir:
		a.cfg.Report.OutputDir = val
	case settingsFieldDelay:
		ms, err := strconv.Atoi(val)
		if err != nil || ms < 0 {
			a.settings.saveErr = fmt.Errorf("delay must be a non-negative number of milliseconds")
			return
		}
		a.cfg.Report.DelayMS = ms
	case settingsFieldPrompt:
		a.cfg.Report.DefaultPrompt = val
	}

	if a.configPath != "" {
		a.settings.saveErr = config.SaveTo(a.configPath, a.cfg)
	}
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Highlight).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Highlight).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Highlight)
	okStyle := lipgloss.NewStyle().Foreground(t.Profit).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Loss).Background(t.Surface)

	orNone := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}

	fields := []struct{ label, value string }{
		{"Theme", theme.Active.Name},
		{"Derivation", string(a.mode)},
		{"Report format", string(a.rep.format)},
		{"Report directory", orNone(a.cfg.Report.OutputDir)},
		{"Report delay", fmt.Sprintf("%dms", a.cfg.Report.DelayMS)},
		{"Default prompt", orNone(a.cfg.Report.DefaultPrompt)},
	}

	var form strings.Builder
	for i, f := range fields {
		switch {
		case a.settings.editing && i == a.settings.cursor:
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			form.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			row := markerStyle.Render("▸ ") +
				selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")) +
				selectedStyle.Render(f.value)
			form.WriteString(row)
			if pad := innerW - lipgloss.Width(row); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.Highlight).Render(strings.Repeat(" ", pad)))
			}
		default:
			form.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		form.WriteString("\n")
		form.WriteString(errStyle.Render("Not saved: " + a.settings.saveErr.Error()))
		form.WriteString("\n")
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(okStyle.Render("Saved"))
		form.WriteString("\n")
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(orNone(a.configPath)) + "\n")
	info.WriteString(labelStyle.Render("Default dials: ") + valueStyle.Render(fmt.Sprintf("spending %.0f%% · hiring %d · pricing %.0f%%",
		a.cfg.Scenario.SpendingPct, a.cfg.Scenario.HiringCount, a.cfg.Scenario.PricingPct)) + "\n")
	info.WriteString(labelStyle.Render("Billing:       ") + valueStyle.Render(fmt.Sprintf("%s per scenario · %s per report",
		a.bill.ScenarioRate.StringFixed(2), a.bill.ReportRate.StringFixed(2))))

	return components.ContentCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("General", info.String(), cw)
}
