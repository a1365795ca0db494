package report

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// HistoryStore is the slice of the store that history needs.
type HistoryStore interface {
	GetProfile(ctx context.Context, name string) (model.Profile, error)
	ListProgress(ctx context.Context, profileID string, since *time.Time) ([]model.ProgressLog, error)
	ListSnapshots(ctx context.Context, profileID string, last int) ([]model.Snapshot, error)
}

// History contains precomputed data for history rendering.
type History struct {
	Profile   model.Profile
	Logs      []model.ProgressLog
	Snapshots []model.Snapshot
}

// BuildHistory loads a profile with its logged positions and its most
// recent snapshots (all when last <= 0).
func BuildHistory(ctx context.Context, st HistoryStore, name string, last int) (History, error) {
	profile, err := st.GetProfile(ctx, name)
	if err != nil {
		return History{}, err
	}
	logs, err := st.ListProgress(ctx, profile.ID, nil)
	if err != nil {
		return History{}, fmt.Errorf("failed to list progress: %w", err)
	}
	snaps, err := st.ListSnapshots(ctx, profile.ID, last)
	if err != nil {
		return History{}, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return History{Profile: profile, Logs: logs, Snapshots: snaps}, nil
}

// ObservedPace is the average lines per calendar day between the first and
// last logged positions. It reports false with fewer than two logs a day apart.
func ObservedPace(logs []model.ProgressLog, linesPerPage int) (float64, bool) {
	if len(logs) < 2 {
		return 0, false
	}
	first, last := logs[0], logs[len(logs)-1]
	days := last.LoggedAt.Sub(first.LoggedAt).Hours() / 24
	if days < 1 {
		return 0, false
	}
	pages := logPage(last) - logPage(first)
	return float64(pages*linesPerPage) / days, true
}

// FinishDrift is how many days the projected finish moved between the first
// and last snapshots that have one. Positive means later.
func FinishDrift(snaps []model.Snapshot) (int, bool) {
	var first, last time.Time
	for _, s := range snaps {
		if s.FinishDate.IsZero() {
			continue
		}
		if first.IsZero() {
			first = s.FinishDate
		}
		last = s.FinishDate
	}
	if first.IsZero() {
		return 0, false
	}
	return int(math.Round(last.Sub(first).Hours() / 24)), true
}

// trendWindow is the moving-average window over snapshot day counts.
const trendWindow = 3

// RenderHistory prints snapshot drift and logged progress for a profile.
func RenderHistory(w io.Writer, h History, width, height int, forceColor bool) error {
	if _, err := fmt.Fprintf(w, "History for %s\n", h.Profile.Name); err != nil {
		return err
	}
	if len(h.Logs) > 0 {
		juz := make([]float64, len(h.Logs))
		for i, l := range h.Logs {
			juz[i] = float64(logPage(l)) / model.PagesPerJuz
		}
		if _, err := fmt.Fprintf(w, "Logged juz: %s (%d entries)\n", Sparkline(juz), len(h.Logs)); err != nil {
			return err
		}
		if pace, ok := ObservedPace(h.Logs, h.Profile.Progress.ScriptLinesPerPage); ok {
			if _, err := fmt.Fprintf(w, "Observed pace: %.1f lines/day (planned %.1f)\n", pace, h.Profile.Progress.BaseLinesPerDay); err != nil {
				return err
			}
		}
	}
	if len(h.Snapshots) == 0 {
		_, err := fmt.Fprintf(w, "No snapshots yet. Run: hifzpace project --profile %s --save\n", h.Profile.Name)
		return err
	}

	headers := []string{"Computed", "Pace", "Finish", "Days", "Progress", "Outcome"}
	rows := make([][]string, 0, len(h.Snapshots))
	days := make([]float64, 0, len(h.Snapshots))
	for _, s := range h.Snapshots {
		rows = append(rows, []string{
			formatDate(s.ComputedAt),
			fmt.Sprintf("%.1f", s.Pace),
			formatDate(s.FinishDate),
			fmt.Sprintf("%d", s.DaysNeeded),
			fmt.Sprintf("%d%%", s.ProgressPercent),
			string(s.Outcome),
		})
		days = append(days, float64(s.DaysNeeded))
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 3: true, 4: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if drift, ok := FinishDrift(h.Snapshots); ok {
		if _, err := fmt.Fprintf(w, "Finish drift: %+d days\n", drift); err != nil {
			return err
		}
	}
	if len(days) > 1 {
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
		series := []Series{{Name: "Days", Values: days}}
		if len(days) >= trendWindow {
			series = append(series, Series{Name: "Trend", Values: MovingAverage(days, trendWindow)})
		}
		return PlotSeriesWithColor(w, "Days to finish per snapshot", series, width, height, forceColor)
	}
	return nil
}

// RenderProfiles prints saved profiles as a table.
func RenderProfiles(w io.Writer, profiles []model.Profile) error {
	if len(profiles) == 0 {
		_, err := fmt.Fprintln(w, "No profiles saved. Run: hifzpace init")
		return err
	}
	headers := []string{"Name", "Script", "Juz", "Page", "Lines/day", "Days/week", "Updated"}
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.Name,
			fmt.Sprintf("%d", p.Progress.ScriptLinesPerPage),
			fmt.Sprintf("%d", p.Progress.CurrentJuz),
			fmt.Sprintf("%d", p.Progress.CurrentPage),
			fmt.Sprintf("%.1f", p.Progress.BaseLinesPerDay),
			fmt.Sprintf("%d", p.Progress.ActiveDaysPerWeek),
			formatDate(p.UpdatedAt),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func logPage(l model.ProgressLog) int {
	return model.StudentProgress{CurrentJuz: l.Juz, CurrentPage: l.Page}.AbsolutePage()
}
