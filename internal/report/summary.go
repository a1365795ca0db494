package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
)

// DateLayout is how dates are printed across reports.
const DateLayout = "2006-01-02"

// RenderSummary prints the headline figures of a projection.
func RenderSummary(w io.Writer, result model.ProjectionResult) error {
	rows := [][]string{
		{"Progress", fmt.Sprintf("%d%% %s", result.ProgressPercent, ProgressBar(result.ProgressPercent, 20))},
		{"Lines", fmt.Sprintf("%d of %d memorized, %d remaining", result.CurrentLines, result.TotalLines, result.RemainingLines)},
		{"Finish", FinishLabel(result)},
	}
	if result.Outcome != model.OutcomeComplete {
		rows = append(rows,
			[]string{"Calendar days", fmt.Sprintf("%d (%.1f weeks)", result.DaysNeeded, projection.WeeksNeeded(result.DaysNeeded))},
			[]string{"Study days", fmt.Sprintf("%d", result.ActiveDaysNeeded)},
			[]string{"Break days", fmt.Sprintf("%d", result.BreakDays)},
		)
	}
	if _, err := fmt.Fprintln(w, "Projection"); err != nil {
		return err
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	for _, warning := range result.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FinishLabel describes the finish date for people.
func FinishLabel(result model.ProjectionResult) string {
	switch result.Outcome {
	case model.OutcomeComplete:
		return "complete, khatam reached"
	case model.OutcomeBeyondHorizon:
		return fmt.Sprintf("not within %.0f years at this pace", float64(result.DaysNeeded)/365)
	default:
		return result.FinishDate.Format("Mon, 02 Jan 2006")
	}
}

// ProgressBar draws a fixed-width bar for a 0..100 percentage.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}

// RenderEstimate prints a quick estimate, which has no calendar breakdown.
func RenderEstimate(w io.Writer, result model.ProjectionResult) error {
	rows := [][]string{
		{"Progress", fmt.Sprintf("%d%% %s", result.ProgressPercent, ProgressBar(result.ProgressPercent, 20))},
		{"Finish", FinishLabel(result)},
	}
	if result.Outcome != model.OutcomeComplete {
		rows = append(rows,
			[]string{"Weeks", fmt.Sprintf("%.1f", projection.WeeksNeeded(result.DaysNeeded))},
			[]string{"Study days", fmt.Sprintf("%d", result.ActiveDaysNeeded)},
		)
	}
	if _, err := fmt.Fprintln(w, "Estimate"); err != nil {
		return err
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	return nil
}
