// Package wizard collects a learner profile interactively.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
)

// ErrAborted is returned when the learner cancels the form.
var ErrAborted = errors.New("setup aborted")

// Answers holds the raw form values.
type Answers struct {
	Name       string
	Script     string
	Juz        string
	Page       string
	Pace       string
	ActiveDays string
}

// AnswersFrom pre-fills the form from an existing profile.
func AnswersFrom(p model.Profile) Answers {
	progress := p.Progress
	if progress.ScriptLinesPerPage == 0 {
		progress = projection.DefaultProgress()
	}
	return Answers{
		Name:       p.Name,
		Script:     strconv.Itoa(progress.ScriptLinesPerPage),
		Juz:        strconv.Itoa(progress.CurrentJuz),
		Page:       strconv.Itoa(progress.CurrentPage),
		Pace:       strconv.FormatFloat(progress.BaseLinesPerDay, 'f', -1, 64),
		ActiveDays: strconv.Itoa(progress.ActiveDaysPerWeek),
	}
}

func theme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	t.Focused.Description = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	t.Blurred.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	return t
}

// NewForm builds the profile form bound to a.
func NewForm(a *Answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Yusuf").
				Value(&a.Name).
				Validate(ValidateName),
			huh.NewSelect[string]().
				Title("Script standard").
				Description("Lines per page of the mushaf you memorize from").
				Options(
					huh.NewOption("13 lines (Indo-Pak)", "13"),
					huh.NewOption("15 lines (Madani)", "15"),
					huh.NewOption("16 lines", "16"),
				).
				Value(&a.Script),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Current juz").
				Placeholder("1").
				Value(&a.Juz).
				Validate(ValidateJuz),
			huh.NewInput().
				Title("Page within juz").
				Placeholder("1").
				Value(&a.Page).
				Validate(ValidatePage),
			huh.NewInput().
				Title("New lines per day").
				Placeholder("10").
				Value(&a.Pace).
				Validate(ValidatePace),
			huh.NewInput().
				Title("Study days per week").
				Placeholder("5").
				Value(&a.ActiveDays).
				Validate(ValidateActiveDays),
		),
	).WithTheme(theme())
}

// Run shows the form and returns the collected profile.
func Run(ctx context.Context, initial model.Profile) (model.Profile, error) {
	answers := AnswersFrom(initial)
	if err := NewForm(&answers).RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return model.Profile{}, ErrAborted
		}
		return model.Profile{}, fmt.Errorf("failed to run setup form: %w", err)
	}
	return answers.Profile()
}

// Profile converts the answers to a validated profile.
func (a Answers) Profile() (model.Profile, error) {
	for _, check := range []struct {
		value string
		fn    func(string) error
	}{
		{a.Name, ValidateName},
		{a.Script, ValidateScript},
		{a.Juz, ValidateJuz},
		{a.Page, ValidatePage},
		{a.Pace, ValidatePace},
		{a.ActiveDays, ValidateActiveDays},
	} {
		if err := check.fn(check.value); err != nil {
			return model.Profile{}, err
		}
	}
	script, _ := strconv.Atoi(strings.TrimSpace(a.Script))
	juz, _ := strconv.Atoi(strings.TrimSpace(a.Juz))
	page, _ := strconv.Atoi(strings.TrimSpace(a.Page))
	pace, _ := strconv.ParseFloat(strings.TrimSpace(a.Pace), 64)
	days, _ := strconv.Atoi(strings.TrimSpace(a.ActiveDays))
	progress := model.StudentProgress{
		ScriptLinesPerPage: script,
		CurrentJuz:         juz,
		CurrentPage:        page,
		BaseLinesPerDay:    pace,
		ActiveDaysPerWeek:  days,
	}
	if err := projection.ValidateProgress(progress); err != nil {
		return model.Profile{}, err
	}
	return model.Profile{Name: strings.TrimSpace(a.Name), Progress: progress}, nil
}

// ValidateName requires a non-blank name.
func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// ValidateScript accepts the supported script standards.
func ValidateScript(s string) error {
	switch strings.TrimSpace(s) {
	case "13", "15", "16":
		return nil
	}
	return fmt.Errorf("choose 13, 15 or 16 lines per page")
}

// ValidateJuz accepts 1..30.
func ValidateJuz(s string) error {
	return intInRange(s, 1, model.TotalJuz, "juz")
}

// ValidatePage accepts 1..20.
func ValidatePage(s string) error {
	return intInRange(s, 1, model.PagesPerJuz, "page")
}

// ValidateActiveDays accepts 1..7.
func ValidateActiveDays(s string) error {
	return intInRange(s, 1, 7, "days per week")
}

// ValidatePace accepts a positive number of lines.
func ValidatePace(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(v > 0) {
		return fmt.Errorf("enter a positive number of lines")
	}
	return projection.ValidatePace(v)
}

func intInRange(s string, lo, hi int, what string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < lo || v > hi {
		return fmt.Errorf("%s must be between %d and %d", what, lo, hi)
	}
	return nil
}
