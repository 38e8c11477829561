package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/cfohelper/cfohelper/internal/config"
	"github.com/cfohelper/cfohelper/internal/forecast"
	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/report"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

// setupValues backs the first-run form. huh writes through these pointers,
// so the struct is held by pointer on App.
type setupValues struct {
	spending   string
	hiring     string
	pricing    string
	derivation string
	format     string
	theme      string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		spending:   strconv.FormatFloat(cfg.Scenario.SpendingPct, 'f', -1, 64),
		hiring:     strconv.Itoa(cfg.Scenario.HiringCount),
		pricing:    strconv.FormatFloat(cfg.Scenario.PricingPct, 'f', -1, 64),
		derivation: orDefault(cfg.Scenario.Derivation, string(forecast.ModePure)),
		format:     orDefault(cfg.Report.Format, string(report.FormatJSON)),
		theme:      orDefault(cfg.Appearance.Theme, theme.FlexokiDark.Name),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// dialValidator checks that s parses to a value inside d's range.
func dialValidator(d model.Dial) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("enter a number")
		}
		r := model.Ranges[d]
		if v < r.Min || v > r.Max {
			return fmt.Errorf("must be between %.0f and %.0f", r.Min, r.Max)
		}
		return nil
	}
}

func newSetupForm(v *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cfohelper").
				Description("Pick the scenario you start from. Everything can be changed later with `cfohelper setup`."),
			huh.NewInput().
				Title(model.DialSpending.Label()+" (%)").
				Description(model.DialSpending.Description()).
				Value(&v.spending).
				Validate(dialValidator(model.DialSpending)),
			huh.NewInput().
				Title(model.DialHiring.Label()).
				Description(model.DialHiring.Description()).
				Value(&v.hiring).
				Validate(dialValidator(model.DialHiring)),
			huh.NewInput().
				Title(model.DialPricing.Label()+" (%)").
				Description(model.DialPricing.Description()).
				Value(&v.pricing).
				Validate(dialValidator(model.DialPricing)),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Scenario derivation").
				Description("Pure recomputes from all dials; incremental replays the legacy slider order.").
				Options(
					huh.NewOption("Pure (recommended)", string(forecast.ModePure)),
					huh.NewOption("Incremental", string(forecast.ModeIncremental)),
				).
				Value(&v.derivation),
			huh.NewSelect[string]().
				Title("Report format").
				Options(
					huh.NewOption("JSON", string(report.FormatJSON)),
					huh.NewOption("YAML", string(report.FormatYAML)),
				).
				Value(&v.format),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// apply copies the form values onto cfg. Values were validated by the form.
func (v *setupValues) apply(cfg *config.Config) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(v.spending), 64); err == nil {
		cfg.Scenario.SpendingPct = forecast.Clamp(model.DialSpending, f)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v.hiring), 64); err == nil {
		cfg.Scenario.HiringCount = int(forecast.Clamp(model.DialHiring, f))
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v.pricing), 64); err == nil {
		cfg.Scenario.PricingPct = forecast.Clamp(model.DialPricing, f)
	}
	cfg.Scenario.Derivation = v.derivation
	cfg.Report.Format = v.format
	cfg.Appearance.Theme = v.theme
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.setupForm = nil
		a.setupVals = nil
		return a, nil
	case huh.StateAborted:
		a.setupForm = nil
		a.setupVals = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) saveSetupConfig() {
	a.setupVals.apply(&a.cfg)

	theme.SetActive(a.cfg.Appearance.Theme)
	if mode, err := forecast.ParseMode(a.cfg.Scenario.Derivation); err == nil {
		a.mode = mode
	}
	if f, err := report.ParseFormat(a.cfg.Report.Format); err == nil {
		a.rep.format = f
	}
	a.scenario = forecast.Derive(a.cfg.Scenario.SpendingPct, a.cfg.Scenario.HiringCount, a.cfg.Scenario.PricingPct)
	a.recompute()

	if a.configPath == "" {
		return
	}
	if err := config.SaveTo(a.configPath, a.cfg); err != nil {
		a.notice = "Could not save config: " + err.Error()
		return
	}
	a.notice = "Saved " + a.configPath
}

// RunSetup runs the setup form on its own and writes the answers into cfg.
func RunSetup(cfg *config.Config) error {
	v := newSetupValues(*cfg)
	if err := newSetupForm(v).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	v.apply(cfg)
	return nil
}
