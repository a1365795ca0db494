package slider

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
)

func newTestModel() *Model {
	engine := projection.Engine{
		HorizonDays: projection.DefaultHorizonDays,
		Now: func() time.Time {
			return time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)
		},
	}
	return NewModel(engine, model.StudentProgress{
		ScriptLinesPerPage: 15,
		CurrentJuz:         1,
		CurrentPage:        1,
		BaseLinesPerDay:    10,
		ActiveDaysPerWeek:  7,
	})
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func TestNewModel_InitialEstimate(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, 10.0, m.Pace())
	assert.Equal(t, 905, m.Result().DaysNeeded)
	assert.False(t, m.buffer)
}

func TestUpdate_PaceKeys(t *testing.T) {
	m := newTestModel()
	press(m, "right")
	assert.Equal(t, 11.0, m.Pace())
	// 9045 / 11 = 822.3
	assert.Equal(t, 823, m.Result().DaysNeeded)

	press(m, "L")
	assert.Equal(t, 16.0, m.Pace())
	press(m, "H")
	press(m, "h")
	assert.Equal(t, 10.0, m.Pace())
	press(m, "l")
	press(m, "left")
	assert.Equal(t, 905, m.Result().DaysNeeded)
}

func TestUpdate_PaceFloor(t *testing.T) {
	m := newTestModel()
	for i := 0; i < 5; i++ {
		press(m, "H")
	}
	assert.Equal(t, 1.0, m.Pace())
	assert.Empty(t, m.errMsg)
}

func TestUpdate_ActiveDaysClamped(t *testing.T) {
	m := newTestModel()
	press(m, "up")
	assert.Equal(t, 7, m.progress.ActiveDaysPerWeek)

	press(m, "down")
	press(m, "down")
	assert.Equal(t, 5, m.progress.ActiveDaysPerWeek)
	assert.Equal(t, 1267, m.Result().DaysNeeded)

	for i := 0; i < 10; i++ {
		press(m, "down")
	}
	assert.Equal(t, 1, m.progress.ActiveDaysPerWeek)
}

func TestUpdate_BufferToggle(t *testing.T) {
	m := newTestModel()
	press(m, "b")
	assert.True(t, m.buffer)
	assert.Equal(t, 1041, m.Result().DaysNeeded)
	press(m, "b")
	assert.False(t, m.buffer)
	assert.Equal(t, 905, m.Result().DaysNeeded)
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_ShowsEstimate(t *testing.T) {
	m := newTestModel()
	out := m.View()
	for _, want := range []string{"10 lines/day", "7/week", "Buffer", "off", "Wed, 25 Aug 2027", "129.3", "0%", "Remaining 9045 lines", "q quit"} {
		assert.Contains(t, out, want)
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	sized := m.View()
	assert.Equal(t, 30, strings.Count(sized, "\n")+1)
}

func TestView_Complete(t *testing.T) {
	m := newTestModel()
	m.progress.CurrentJuz, m.progress.CurrentPage = 30, 20
	m.recompute()
	assert.Contains(t, m.View(), "Khatam reached")
	assert.Contains(t, m.View(), "complete, khatam reached")
}
