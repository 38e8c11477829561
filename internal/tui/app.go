// Package tui provides the interactive Bubble Tea dashboard for cfohelper.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/report"
	"github.com/cfohelper/cfohelper/internal/tui/components"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
	"github.com/cfohelper/cfohelper/internal/usage"
)

// Tab indexes, matching components.Tabs.
const (
	tabScenario = iota
	tabForecast
	tabBreakdown
	tabInsights
	tabReport
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160
	minContentHeight = 5

	coarseSteps = 10 // shift+arrow moves a dial this many steps
)

// Options configures a new dashboard.
type Options struct {
	Config   config.Config
	Scenario model.Scenario
	Mode     forecast.Mode
	// Meter records analyses and reports. Nil disables usage tracking.
	Meter *usage.Meter
	// ConfigPath is where settings changes are saved. Empty keeps them in memory.
	ConfigPath string
	// NeedSetup shows the first-run form before the dashboard.
	NeedSetup bool
}

// App is the root Bubble Tea model.
type App struct {
	cfg        config.Config
	configPath string
	mode       forecast.Mode
	meter      *usage.Meter

	// Scenario and everything derived from it.
	scenario  model.Scenario
	months    []model.MonthlyPoint
	summary   model.Summary
	breakdown model.Breakdown
	recs      []model.Recommendation

	counts   model.UsageCounts
	bill     usage.Bill
	analysis *model.Analysis

	// UI state
	width     int
	height    int
	activeTab int
	dialIdx   int
	showHelp  bool
	notice    string

	spinner spinner.Model
	rep     reportState

	settings settingsState

	promptForm *huh.Form
	promptVals *promptValues

	setupForm *huh.Form
	setupVals *setupValues
}

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	mode := opts.Mode
	if mode == "" {
		mode = forecast.ModePure
	}

	format, err := report.ParseFormat(opts.Config.Report.Format)
	if err != nil {
		format = report.FormatJSON
	}

	a := App{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		mode:       mode,
		meter:      opts.Meter,
		scenario:   opts.Scenario,
		spinner:    sp,
		rep:        reportState{format: format},
	}
	if a.scenario == (model.Scenario{}) {
		a.scenario = forecast.DefaultScenario()
	}
	if opts.NeedSetup {
		a.setupVals = newSetupValues(opts.Config)
		a.setupForm = newSetupForm(a.setupVals)
	}
	a.recompute()
	a.refreshCounts()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// recompute refreshes every view of the current scenario.
func (a *App) recompute() {
	a.months = forecast.ProjectMonths(a.scenario)
	a.summary = forecast.Summarize(a.scenario)
	a.breakdown = forecast.Breakdown(a.scenario)
	a.recs = forecast.Recommendations(a.scenario)
}

func (a *App) refreshCounts() {
	if a.meter == nil {
		return
	}
	if bill, err := a.meter.Bill(); err == nil {
		a.bill = bill
		a.counts = model.UsageCounts{Scenarios: bill.Scenarios, Reports: bill.Reports}
	}
}

// moveDial shifts the selected dial by steps and re-derives the scenario.
// A move that does not change the clamped value is ignored, matching a
// slider that stops at its end.
func (a *App) moveDial(steps int) {
	dial := model.Dials[a.dialIdx]
	current := a.scenario.Value(dial)
	target := forecast.Clamp(dial, current+float64(steps)*model.Ranges[dial].Step)
	if target == current {
		return
	}
	s, err := forecast.DeriveScenario(dial, target, a.scenario, a.mode)
	if err != nil {
		a.notice = err.Error()
		return
	}
	a.scenario = s
	a.notice = ""
	a.recompute()
}

func (a *App) resetScenario() {
	a.scenario = forecast.Derive(a.cfg.Scenario.SpendingPct, a.cfg.Scenario.HiringCount, a.cfg.Scenario.PricingPct)
	a.notice = "Scenario reset to defaults"
	a.recompute()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.promptForm != nil {
			a.promptForm = a.promptForm.WithWidth(min(msg.Width, 72))
		}
		return a, nil

	case reportDoneMsg:
		return a.finishReport(msg), nil

	case spinner.TickMsg:
		if !a.rep.generating {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.promptForm != nil {
		return a.updatePromptForm(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return a.updateMouse(msg), nil
	case tea.KeyMsg:
		return a.updateKey(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) App {
	if a.showHelp {
		return a
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabScenario {
			a.dialIdx = max(a.dialIdx-1, 0)
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabScenario {
			a.dialIdx = min(a.dialIdx+1, len(model.Dials)-1)
		}
	}
	return a
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "a":
		a.promptVals = &promptValues{}
		a.promptForm = newPromptForm(a.promptVals)
		if a.width > 0 {
			a.promptForm = a.promptForm.WithWidth(min(a.width, 72))
		}
		return a, a.promptForm.Init()
	}

	switch a.activeTab {
	case tabScenario:
		if m, cmd, handled := a.updateScenarioKey(key); handled {
			return m, cmd
		}
	case tabReport:
		if m, cmd, handled := a.updateReportKey(key); handled {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, handled := a.updateSettingsKey(key); handled {
			return m, cmd
		}
	}

	switch key {
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateScenarioKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.dialIdx = min(a.dialIdx+1, len(model.Dials)-1)
	case "k", "up":
		a.dialIdx = max(a.dialIdx-1, 0)
	case "left", "h":
		a.moveDial(-1)
	case "right", "l":
		a.moveDial(1)
	case "shift+left", "H":
		a.moveDial(-coarseSteps)
	case "shift+right", "L":
		a.moveDial(coarseSteps)
	case "d":
		a.resetScenario()
	default:
		return a, nil, false
	}
	return a, nil, true
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.promptForm != nil {
		return a.viewPromptForm()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  cfohelper needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"s f b i r x", "Jump to tab"},
			{"tab ⇧tab", "Next / Previous tab"},
			{"← →", "Previous / Next tab (outside Scenario)"},
		}},
		{"Scenario", [][2]string{
			{"j k", "Select dial"},
			{"← →", "Move dial one step"},
			{"H L", "Move dial ten steps"},
			{"d", "Reset to default dials"},
		}},
		{"Actions", [][2]string{
			{"a", "Analyze the scenario"},
			{"g", "Generate report (Report tab)"},
			{"w c", "Save / Copy report"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, string(a.mode), a.counts, a.notice)

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabScenario:
		content = a.renderScenarioTab(cw)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	case tabInsights:
		content = a.renderInsightsTab(cw)
	case tabReport:
		content = a.renderReportTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabAtX returns the tab under column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

// since formats an elapsed duration for notices.
func since(t time.Time, now time.Time) string {
	d := now.Sub(t).Round(time.Second)
	if d < time.Minute {
		return "just now"
	}
	return d.String() + " ago"
}
