package report

import (
	"fmt"
	"io"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// TimelineRows formats chart points as table rows: date, juz, phase, break.
func TimelineRows(series []model.ChartPoint) [][]string {
	rows := make([][]string, 0, len(series))
	for _, p := range series {
		mark := ""
		if p.IsBreak {
			mark = "break"
		}
		rows = append(rows, []string{
			formatDate(p.Date),
			fmt.Sprintf("%.2f", p.JuzCompleted),
			p.Phase,
			mark,
		})
	}
	return rows
}

// TimelineHeaders names the TimelineRows columns.
var TimelineHeaders = []string{"Date", "Juz", "Phase", "Break"}

// RenderTimeline prints the projected series as an aligned table.
func RenderTimeline(w io.Writer, series []model.ChartPoint) error {
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No timeline: nothing left to project.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Timeline"); err != nil {
		return err
	}
	for _, line := range formatTable(TimelineHeaders, TimelineRows(series), map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
