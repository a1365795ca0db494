// Package dashboard provides the Bubble Tea projection dashboard.
package dashboard

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
)

const (
	tabOverview = iota
	tabChart
	tabTimeline
)

const (
	plotHeight = 10
	paceStep   = 1.0
	minPace    = 1.0
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Settings are the knobs the dashboard lets the learner turn.
type Settings struct {
	Pace            float64
	ActiveDays      int
	SickDaysPerYear float64
	BufferPercent   float64
}

// Model implements the Bubble Tea dashboard UI. Every change reruns the full
// simulation synchronously.
type Model struct {
	engine   projection.Engine
	progress model.StudentProgress
	calendar model.Calendar
	phases   []model.VelocityPhase
	settings Settings

	result model.ProjectionResult
	errMsg string

	tabs          []string
	activeTab     int
	viewports     []viewport.Model
	timeline      table.Model
	timelineShape tableLayout

	width  int
	height int

	settingsMode   bool
	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a dashboard for a learner. The engine's features and
// the calendar seed the settings form.
func NewModel(engine projection.Engine, progress model.StudentProgress, cal model.Calendar, phases []model.VelocityPhase) *Model {
	m := &Model{
		engine:   engine,
		progress: progress,
		calendar: cal,
		phases:   phases,
		settings: Settings{
			Pace:            progress.BaseLinesPerDay,
			ActiveDays:      progress.ActiveDaysPerWeek,
			SickDaysPerYear: cal.SickDaysPerYear,
			BufferPercent:   engine.Features.RetentionBufferPercent,
		},
		tabs: []string{"Overview", "Chart", "Timeline"},
	}
	m.initInputs()
	m.initTimeline()
	m.initViewports()
	m.recompute()
	return m
}

// Settings returns the values currently applied.
func (m *Model) Settings() Settings {
	return m.settings
}

// Result returns the latest projection.
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsMode {
			return m.updateSettings(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabTimeline {
			m.timeline.Focus()
		} else {
			m.timeline.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.settings.Pace += paceStep
			m.recompute()
			return m, nil
		case "-":
			m.settings.Pace = max(m.settings.Pace-paceStep, minPace)
			m.recompute()
			return m, nil
		case "/":
			return m.startSettings()
		case "g", "home":
			if m.activeTab == tabTimeline {
				m.timeline.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTimeline {
				m.timeline.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTimeline {
				var cmd tea.Cmd
				m.timeline, cmd = m.timeline.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initTimeline() {
	m.timeline = table.New(
		table.WithColumns(timelineColumns()),
		table.WithHeight(1),
	)
	m.timeline.SetStyles(timelineStyles())
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.settingsMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTimelineSize(m.width, vpHeight)
	for i := range m.settingsInputs {
		promptWidth := lipgloss.Width(m.settingsInputs[i].Prompt)
		m.settingsInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabTimeline {
		m.timeline.Focus()
	} else {
		m.timeline.Blur()
	}
}

func (m *Model) recompute() {
	progress := m.progress
	progress.ActiveDaysPerWeek = m.settings.ActiveDays
	cal := m.calendar
	cal.SickDaysPerYear = m.settings.SickDaysPerYear
	engine := m.engine
	engine.Features.RetentionBufferPercent = m.settings.BufferPercent

	result, err := engine.Compute(progress, m.settings.Pace, cal, m.phases)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.result = result
	m.applyTimeline()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.result, m.settings, width))
	m.viewports[tabChart].SetContent(renderChart(m.result, width))
}
