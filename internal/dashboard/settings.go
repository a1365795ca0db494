package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputPace = iota
	inputActiveDays
	inputSickDays
	inputBuffer
)

func (m *Model) initInputs() {
	m.settingsInputs = []textinput.Model{
		newSettingsInput("Pace (lines/day): "),
		newSettingsInput("Active days/week: "),
		newSettingsInput("Sick days/year: "),
		newSettingsInput("Retention buffer %: "),
	}
	m.setInputsFromSettings()
}

func newSettingsInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 8
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromSettings() {
	if len(m.settingsInputs) == 0 {
		return
	}
	m.settingsInputs[inputPace].SetValue(formatNumber(m.settings.Pace))
	m.settingsInputs[inputActiveDays].SetValue(strconv.Itoa(m.settings.ActiveDays))
	m.settingsInputs[inputSickDays].SetValue(formatNumber(m.settings.SickDaysPerYear))
	m.settingsInputs[inputBuffer].SetValue(formatNumber(m.settings.BufferPercent))
}

func (m *Model) startSettings() (tea.Model, tea.Cmd) {
	m.settingsMode = true
	m.settingsError = ""
	m.setInputsFromSettings()
	return m, m.setSettingsIndex(0)
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsMode = false
		m.settingsError = ""
		return m, nil
	case tea.KeyEnter:
		settings, err := m.parseSettings()
		if err != nil {
			m.settingsError = err.Error()
			return m, nil
		}
		m.settingsMode = false
		m.settingsError = ""
		m.settings = settings
		m.recompute()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setSettingsIndex(m.settingsIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setSettingsIndex(m.settingsIndex - 1)
	}
	var cmd tea.Cmd
	m.settingsInputs[m.settingsIndex], cmd = m.settingsInputs[m.settingsIndex].Update(msg)
	return m, cmd
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	count := len(m.settingsInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.settingsIndex = idx
	var cmd tea.Cmd
	for i := range m.settingsInputs {
		if i == m.settingsIndex {
			cmd = m.settingsInputs[i].Focus()
		} else {
			m.settingsInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) parseSettings() (Settings, error) {
	out := m.settings

	pace, err := strconv.ParseFloat(strings.TrimSpace(m.settingsInputs[inputPace].Value()), 64)
	if err != nil || pace <= 0 {
		return Settings{}, fmt.Errorf("invalid pace (use a number > 0)")
	}
	out.Pace = pace

	days, err := strconv.Atoi(strings.TrimSpace(m.settingsInputs[inputActiveDays].Value()))
	if err != nil || days < 1 || days > 7 {
		return Settings{}, fmt.Errorf("invalid active days (use 1-7)")
	}
	out.ActiveDays = days

	sick, err := strconv.ParseFloat(strings.TrimSpace(m.settingsInputs[inputSickDays].Value()), 64)
	if err != nil || sick < 0 || sick > 365 {
		return Settings{}, fmt.Errorf("invalid sick days (use 0-365)")
	}
	out.SickDaysPerYear = sick

	bufferInput := strings.TrimSpace(m.settingsInputs[inputBuffer].Value())
	buffer := 0.0
	if bufferInput != "" {
		buffer, err = strconv.ParseFloat(bufferInput, 64)
		if err != nil || buffer < 0 {
			return Settings{}, fmt.Errorf("invalid retention buffer (use a number >= 0)")
		}
	}
	out.BufferPercent = buffer
	return out, nil
}

func (m *Model) renderSettingsForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.settingsInputs {
		lines = append(lines, input.View())
	}
	if m.settingsError != "" {
		lines = append(lines, errorStyle.Render(m.settingsError))
	}
	return strings.Join(lines, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
