package report

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// ChartSeries expands sampled chart points onto a daily grid: the juz curve
// is interpolated between samples, and the break series is 1 on days between
// a break's entry and exit samples.
func ChartSeries(points []model.ChartPoint) []Series {
	if len(points) == 0 {
		return nil
	}
	first, last := points[0].Date, points[len(points)-1].Date
	days := int(last.Sub(first).Hours()/24+0.5) + 1
	juz := make([]float64, 0, days)
	breaks := make([]float64, 0, days)

	idx := 0
	for d := 0; d < days; d++ {
		date := first.AddDate(0, 0, d)
		for idx < len(points)-1 && !points[idx+1].Date.After(date) {
			idx++
		}
		cur := points[idx]
		if idx == len(points)-1 || !date.After(cur.Date) {
			juz = append(juz, cur.JuzCompleted)
			breaks = append(breaks, boolValue(cur.IsBreak))
			continue
		}
		next := points[idx+1]
		span := next.Date.Sub(cur.Date).Hours()
		frac := date.Sub(cur.Date).Hours() / span
		juz = append(juz, cur.JuzCompleted+(next.JuzCompleted-cur.JuzCompleted)*frac)
		breaks = append(breaks, boolValue(cur.IsBreak && next.IsBreak))
	}

	series := []Series{{Name: "Juz", Values: juz, Range: &Range{Min: 0, Max: model.TotalJuz}}}
	for _, b := range breaks {
		if b > 0 {
			series = append(series, Series{Name: "Break", Values: breaks, Range: &Range{Min: 0, Max: 1}})
			break
		}
	}
	return series
}

// RenderChart plots the projected juz curve with break spans.
func RenderChart(w io.Writer, result model.ProjectionResult, width, height int, forceColor bool) error {
	if len(result.Series) == 0 {
		_, err := fmt.Fprintln(w, "No chart: nothing left to project.")
		return err
	}
	series := ChartSeries(result.Series)
	if err := PlotSeriesWithColor(w, "Projected juz completed", series, width, height, forceColor); err != nil {
		return err
	}
	first := result.Series[0].Date
	last := result.Series[len(result.Series)-1].Date
	if _, err := fmt.Fprintln(w, dateAxis(formatDate(first), formatDate(last), width)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func dateAxis(left, right string, width int) string {
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), 2)
	}
	// Align with the plot column: two label cells plus the separator.
	indent := 2 + runewidth.StringWidth(axisSeparator)
	gap := max(width-runewidth.StringWidth(left)-runewidth.StringWidth(right), 1)
	return runewidth.FillLeft("", indent) + left + runewidth.FillLeft("", gap) + right
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
