package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
)

func testEngine() projection.Engine {
	return projection.Engine{
		HorizonDays: projection.DefaultHorizonDays,
		SampleEvery: projection.DefaultSampleEvery,
		Now: func() time.Time {
			return time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
		},
	}
}

func beginner() model.StudentProgress {
	return model.StudentProgress{
		ScriptLinesPerPage: 15,
		CurrentJuz:         1,
		CurrentPage:        1,
		BaseLinesPerDay:    10,
		ActiveDaysPerWeek:  7,
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(testEngine(), beginner(), model.Calendar{}, nil)
	require.Empty(t, m.errMsg)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_Computes(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 905, m.Result().DaysNeeded)
	assert.Equal(t, Settings{Pace: 10, ActiveDays: 7}, m.Settings())
	assert.NotEmpty(t, m.Result().Series)
}

func TestUpdate_PaceKeysRecompute(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("="))
	assert.Equal(t, 11.0, m.Settings().Pace)
	assert.Equal(t, 823, m.Result().DaysNeeded)

	m.Update(key("-"))
	assert.Equal(t, 905, m.Result().DaysNeeded)

	for i := 0; i < 20; i++ {
		m.Update(key("-"))
	}
	assert.Equal(t, 1.0, m.Settings().Pace)
}

func TestUpdate_TabsWrap(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("left"))
	assert.Equal(t, tabTimeline, m.activeTab)
	m.Update(key("right"))
	assert.Equal(t, tabOverview, m.activeTab)
	m.Update(key("l"))
	assert.Equal(t, tabChart, m.activeTab)
}

func TestView_Tabs(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	assert.Equal(t, 30, strings.Count(out, "\n")+1)
	for _, want := range []string{"Overview", "Chart", "Timeline", "Settings: pace=10 lines/day", "Wed, 25 Aug 2027", "Quit: q"} {
		assert.Contains(t, out, want)
	}

	m.Update(key("right"))
	assert.Contains(t, m.View(), "Projected juz completed")

	m.Update(key("right"))
	out = m.View()
	assert.Contains(t, out, "Date")
	assert.Contains(t, out, "2025-03-03")
}

func TestSettingsForm_Apply(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("/"))
	require.True(t, m.settingsMode)
	assert.Equal(t, "10", m.settingsInputs[inputPace].Value())
	assert.Contains(t, m.View(), "Settings (enter to apply, esc to cancel)")

	m.settingsInputs[inputPace].SetValue("15")
	m.settingsInputs[inputBuffer].SetValue("")
	m.Update(key("enter"))
	assert.False(t, m.settingsMode)
	assert.Equal(t, 15.0, m.Settings().Pace)
	assert.Equal(t, 603, m.Result().DaysNeeded)
}

func TestSettingsForm_ValidationInline(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("/"))
	m.settingsInputs[inputActiveDays].SetValue("9")
	m.Update(key("enter"))
	assert.True(t, m.settingsMode)
	assert.Equal(t, "invalid active days (use 1-7)", m.settingsError)
	assert.Contains(t, m.View(), "invalid active days")
	assert.Equal(t, 7, m.Settings().ActiveDays)

	m.settingsInputs[inputActiveDays].SetValue("7")
	m.settingsInputs[inputPace].SetValue("fast")
	m.Update(key("enter"))
	assert.Equal(t, "invalid pace (use a number > 0)", m.settingsError)

	m.Update(key("esc"))
	assert.False(t, m.settingsMode)
	assert.Empty(t, m.settingsError)
	assert.Equal(t, 10.0, m.Settings().Pace)
}

func TestSettingsForm_QTypesInsteadOfQuitting(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("/"))
	m.Update(key("q"))
	assert.True(t, m.settingsMode)
	assert.Contains(t, m.settingsInputs[inputPace].Value(), "q")
}

func TestSettingsForm_FieldCycle(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("/"))
	assert.Equal(t, inputPace, m.settingsIndex)
	m.Update(key("tab"))
	assert.Equal(t, inputActiveDays, m.settingsIndex)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, inputBuffer, m.settingsIndex)
}

func TestComplete_NoTimeline(t *testing.T) {
	progress := beginner()
	progress.CurrentJuz, progress.CurrentPage = 30, 20
	m := NewModel(testEngine(), progress, model.Calendar{}, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, model.OutcomeComplete, m.Result().Outcome)
	m.Update(key("left"))
	assert.Contains(t, m.View(), "No timeline: nothing left to project.")
}

func TestInvalidProgress_ShowsError(t *testing.T) {
	progress := beginner()
	progress.ScriptLinesPerPage = 14
	m := NewModel(testEngine(), progress, model.Calendar{}, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.Contains(t, m.errMsg, "script standard")
	assert.Contains(t, m.View(), "script standard must be 13, 15 or 16")
}

func TestFitLines(t *testing.T) {
	out := fitLines("ab\ncdef\ngh", 4, 2)
	assert.Equal(t, "ab  \ncdef", out)
	assert.Equal(t, "ab  \n    \n    ", fitLines("ab", 4, 3))
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abc...", truncateLine("abcdefghij", 6))
	assert.Equal(t, "short", truncateLine("short", 6))
	assert.Equal(t, "ab", truncateLine("abcdef", 2))
	// Wide runes take two cells each.
	assert.Equal(t, "حفظ", truncateLine("حفظ", 3))
	assert.Equal(t, "日本...", truncateLine("日本語のテキスト", 7))
	assert.LessOrEqual(t, runewidth.StringWidth(truncateLine("日本語のテキスト", 7)), 7)
}
