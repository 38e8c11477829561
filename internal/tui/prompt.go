package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/tui/theme"
)

type promptValues struct {
	prompt string
}

func newPromptForm(v *promptValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What would you like to analyze?").
				Placeholder("e.g. Can we afford five more engineers next quarter?").
				CharLimit(500).
				Lines(3).
				Value(&v.prompt).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return model.ErrEmptyPrompt
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

func (a App) updatePromptForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.promptForm = nil
		a.promptVals = nil
		return a, nil
	}

	form, cmd := a.promptForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.promptForm = f
	}

	switch a.promptForm.State {
	case huh.StateCompleted:
		a.submitAnalysis(a.promptVals.prompt, time.Now())
		a.promptForm = nil
		a.promptVals = nil
		return a, nil
	case huh.StateAborted:
		a.promptForm = nil
		a.promptVals = nil
		return a, nil
	}
	return a, cmd
}

// submitAnalysis records an analysis of the current scenario and shows the
// Insights tab.
func (a *App) submitAnalysis(prompt string, now time.Time) {
	an, err := model.NewAnalysis(a.scenario, prompt, model.KindAnalysis, now)
	if err != nil {
		a.notice = err.Error()
		return
	}
	if a.meter != nil {
		if _, err := a.meter.Record(an); err != nil {
			a.notice = "Could not record analysis: " + err.Error()
			return
		}
		a.refreshCounts()
	}
	a.analysis = &an
	a.activeTab = tabInsights
	a.notice = "Analysis recorded"
}

func (a App) viewPromptForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.promptForm.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
