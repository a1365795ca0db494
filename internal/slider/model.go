// Package slider provides the Bubble Tea pace slider.
package slider

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
	"github.com/verte-zerg/hifzpace/internal/report"
)

const (
	smallStep = 1.0
	largeStep = 5.0
	minPace   = 1.0
	barWidth  = 40
)

// Model implements the Bubble Tea slider UI. Every key recomputes the quick
// estimate synchronously.
type Model struct {
	engine   projection.Engine
	progress model.StudentProgress
	pace     float64
	buffer   bool

	width  int
	height int

	result model.ProjectionResult
	errMsg string
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a slider seeded from the learner's saved pace. The
// engine's retention buffer decides the initial buffer toggle.
func NewModel(engine projection.Engine, progress model.StudentProgress) *Model {
	m := &Model{
		engine:   engine,
		progress: progress,
		pace:     progress.BaseLinesPerDay,
		buffer:   engine.Features.RetentionBufferPercent > 0,
	}
	if m.pace < minPace {
		m.pace = minPace
	}
	m.recompute()
	return m
}

// Pace returns the pace currently selected.
func (m *Model) Pace() float64 {
	return m.pace
}

// Result returns the latest estimate.
func (m *Model) Result() model.ProjectionResult {
	return m.result
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyLeft:
			m.adjustPace(-smallStep)
		case tea.KeyRight:
			m.adjustPace(smallStep)
		case tea.KeyUp:
			m.adjustActiveDays(1)
		case tea.KeyDown:
			m.adjustActiveDays(-1)
		case tea.KeyRunes:
			switch string(msg.Runes) {
			case "q":
				return m, tea.Quit
			case "h":
				m.adjustPace(-smallStep)
			case "l":
				m.adjustPace(smallStep)
			case "H":
				m.adjustPace(-largeStep)
			case "L":
				m.adjustPace(largeStep)
			case "k":
				m.adjustActiveDays(1)
			case "j":
				m.adjustActiveDays(-1)
			case "b":
				m.buffer = !m.buffer
				m.recompute()
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) adjustPace(delta float64) {
	m.pace += delta
	if m.pace < minPace {
		m.pace = minPace
	}
	m.recompute()
}

func (m *Model) adjustActiveDays(delta int) {
	days := m.progress.ActiveDaysPerWeek + delta
	m.progress.ActiveDaysPerWeek = min(max(days, 1), 7)
	m.recompute()
}

func (m *Model) recompute() {
	engine := m.engine
	engine.Features.RetentionBufferPercent = 0
	if m.buffer {
		engine.Features.RetentionBufferPercent = projection.DefaultRetentionBufferPercent
	}
	result, err := engine.Quick(m.progress, m.pace)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.result = result
}

func (m *Model) renderBody() string {
	lines := []string{
		titleStyle.Render("Hifz pace"),
		"",
		fmt.Sprintf("%s %s", labelStyle.Render("Pace       "), valueStyle.Render(fmt.Sprintf("%.0f lines/day", m.pace))),
		fmt.Sprintf("%s %s", labelStyle.Render("Active days"), valueStyle.Render(fmt.Sprintf("%d/week", m.progress.ActiveDaysPerWeek))),
		fmt.Sprintf("%s %s", labelStyle.Render("Buffer     "), valueStyle.Render(bufferLabel(m.buffer))),
		"",
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
		return strings.Join(lines, "\n")
	}
	lines = append(lines,
		fmt.Sprintf("%s %s", labelStyle.Render("Finish     "), valueStyle.Render(report.FinishLabel(m.result))),
		fmt.Sprintf("%s %s", labelStyle.Render("Weeks      "), valueStyle.Render(fmt.Sprintf("%.1f", projection.WeeksNeeded(m.result.DaysNeeded)))),
		"",
		fmt.Sprintf("%s %d%%", barStyle.Render(report.ProgressBar(m.result.ProgressPercent, barWidth)), m.result.ProgressPercent),
	)
	if m.result.Outcome == model.OutcomeBeyondHorizon {
		lines = append(lines, "", warningStyle.Render("Raise the pace or add study days to finish within the horizon."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{
		"←/→ pace ±1",
		"H/L ±5",
		"↑/↓ days",
		"b buffer",
		"q quit",
	}
	if m.result.Outcome == model.OutcomeComplete {
		segments = append([]string{"Khatam reached"}, segments...)
	} else if m.result.RemainingLines > 0 {
		segments = append([]string{fmt.Sprintf("Remaining %d lines", m.result.RemainingLines)}, segments...)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func bufferLabel(on bool) string {
	if on {
		return fmt.Sprintf("on (+%.0f%%)", projection.DefaultRetentionBufferPercent)
	}
	return "off"
}
