package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
	"github.com/verte-zerg/hifzpace/internal/report"
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSettingsSummary(), m.width)
	return tabs + "\n" + summary
}

func (m *Model) renderSettingsSummary() string {
	summary := fmt.Sprintf("Settings: pace=%.0f lines/day  days=%d/week  sick=%.0f/year  buffer=%.0f%%",
		m.settings.Pace, m.settings.ActiveDays, m.settings.SickDaysPerYear, m.settings.BufferPercent)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Pace: -/=  Settings: /  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderSettingsHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

func (m *Model) renderFooter() string {
	if m.settingsMode {
		return m.renderSettingsHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.settingsMode {
		return fitLines(m.renderSettingsForm(), m.width, height)
	}
	if m.activeTab == tabTimeline {
		if len(m.result.Series) == 0 {
			return fitLines("No timeline: nothing left to project.", m.width, height)
		}
		view := tableMutedStyle.Render(m.timeline.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderOverview(result model.ProjectionResult, settings Settings, width int) string {
	cards := []string{
		metricCard("Progress", fmt.Sprintf("%d%%", result.ProgressPercent)),
		metricCard("Finish", report.FinishLabel(result)),
		metricCard("Weeks", fmt.Sprintf("%.1f", projection.WeeksNeeded(result.DaysNeeded))),
		metricCard("Study days", fmt.Sprintf("%d", result.ActiveDaysNeeded)),
		metricCard("Break days", fmt.Sprintf("%d", result.BreakDays)),
		metricCard("Remaining", fmt.Sprintf("%d lines", result.RemainingLines)),
	}
	var body string
	if width < 80 {
		body = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		body = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	lines := []string{body, ""}
	barWidth := max(10, min(width-10, 60))
	lines = append(lines, fmt.Sprintf("%s %d%%", report.ProgressBar(result.ProgressPercent, barWidth), result.ProgressPercent))
	if trend := trendLine(result.Series, barWidth); trend != "" {
		lines = append(lines, headerStyle.Render("Trend ")+trend)
	}
	if result.Outcome == model.OutcomeBeyondHorizon {
		lines = append(lines, warningStyle.Render(fmt.Sprintf("Pace %.0f lines/day does not finish within the horizon.", settings.Pace)))
	}
	for _, w := range result.Warnings {
		lines = append(lines, warningStyle.Render("warning: "+w))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// trendLine condenses the juz curve into a sparkline at most width cells wide.
func trendLine(series []model.ChartPoint, width int) string {
	if len(series) < 2 || width <= 0 {
		return ""
	}
	step := (len(series) + width - 1) / width
	values := make([]float64, 0, width)
	for i := 0; i < len(series); i += step {
		values = append(values, series[i].JuzCompleted)
	}
	return report.Sparkline(values)
}

func renderChart(result model.ProjectionResult, width int) string {
	var buf bytes.Buffer
	plotWidth := report.PlotWidthFor(width, 2)
	if err := report.RenderChart(&buf, result, plotWidth, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func timelineColumns() []table.Column {
	return []table.Column{
		{Title: report.TimelineHeaders[0], Width: 10},
		{Title: report.TimelineHeaders[1], Width: 6},
		{Title: report.TimelineHeaders[2], Width: 14},
		{Title: report.TimelineHeaders[3], Width: 6},
	}
}

func timelineRows(series []model.ChartPoint) []table.Row {
	src := report.TimelineRows(series)
	rows := make([]table.Row, len(src))
	for i, r := range src {
		rows[i] = table.Row(r)
	}
	return rows
}

func timelineStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) applyTimeline() {
	rows := timelineRows(m.result.Series)
	m.timeline.SetRows(rows)
	m.timeline.GotoTop()
	m.timelineShape.rowCount = len(rows)
	if m.width > 0 && m.height > 0 {
		_, bodyHeight, _ := m.layoutHeights()
		m.timelineShape.width = 0
		m.setTimelineSize(m.width, bodyHeight)
	}
}

func (m *Model) setTimelineSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.timelineShape.width == width && m.timelineShape.height == viewportHeight {
		return
	}
	m.timelineShape.width = width
	m.timelineShape.height = viewportHeight
	m.timeline.SetWidth(width)
	m.timeline.SetHeight(viewportHeight)
	viewportHeight = m.adjustTimelineHeight(height)
	if m.timelineShape.height != viewportHeight {
		m.timelineShape.height = viewportHeight
		m.timeline.SetHeight(viewportHeight)
	}
}

func (m *Model) adjustTimelineHeight(bodyHeight int) int {
	target := max(1, bodyHeight)
	height := m.timeline.Height()
	viewHeight := lipgloss.Height(m.timeline.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.timeline.SetHeight(height)
	viewHeight = lipgloss.Height(m.timeline.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}
