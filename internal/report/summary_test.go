package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hifzpace/internal/model"
)

func projected() model.ProjectionResult {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	return model.ProjectionResult{
		TotalLines:       9060,
		CurrentLines:     4530,
		RemainingLines:   4530,
		DaysNeeded:       500,
		ActiveDaysNeeded: 453,
		BreakDays:        47,
		FinishDate:       start.AddDate(0, 0, 500),
		ProgressPercent:  50,
		Outcome:          model.OutcomeProjected,
		Series: []model.ChartPoint{
			{Date: start, JuzCompleted: 15, Phase: "Base"},
			{Date: start.AddDate(0, 0, 2), JuzCompleted: 16, Phase: "Base", IsBreak: true},
			{Date: start.AddDate(0, 0, 4), JuzCompleted: 16, Phase: "Base", IsBreak: true},
			{Date: start.AddDate(0, 0, 6), JuzCompleted: 18, Phase: "Fast"},
		},
		Warnings: []string{"velocity phases cover 80.0% of the remaining material, not 100%"},
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, projected()))
	out := buf.String()
	assert.Contains(t, out, "50% ██████████░░░░░░░░░░")
	assert.Contains(t, out, "4530 of 9060 memorized, 4530 remaining")
	assert.Contains(t, out, "Thu, 16 Jul 2026")
	assert.Contains(t, out, "500 (71.4 weeks)")
	assert.Contains(t, out, "Break days    47")
	assert.Contains(t, out, "warning: velocity phases cover 80.0%")
}

func TestRenderSummary_Complete(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, model.ProjectionResult{
		TotalLines:      9060,
		CurrentLines:    9060,
		ProgressPercent: 100,
		Outcome:         model.OutcomeComplete,
	}))
	assert.Contains(t, buf.String(), "khatam reached")
	assert.NotContains(t, buf.String(), "Study days")
}

func TestFinishLabel_BeyondHorizon(t *testing.T) {
	label := FinishLabel(model.ProjectionResult{DaysNeeded: 3650, Outcome: model.OutcomeBeyondHorizon})
	assert.Equal(t, "not within 10 years at this pace", label)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "░░░░", ProgressBar(-3, 4))
	assert.Equal(t, "████", ProgressBar(120, 4))
	assert.Empty(t, ProgressBar(50, 0))
}

func TestRenderTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTimeline(&buf, projected().Series))
	out := buf.String()
	assert.Contains(t, out, "Date         Juz Phase Break")
	assert.Contains(t, out, "2025-03-05 16.00 Base  break")
	assert.Contains(t, out, "2025-03-09 18.00 Fast")

	buf.Reset()
	require.NoError(t, RenderTimeline(&buf, nil))
	assert.Contains(t, buf.String(), "nothing left")
}

func TestRenderEstimate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderEstimate(&buf, projected()))
	out := buf.String()
	assert.Contains(t, out, "Estimate")
	assert.Contains(t, out, "Weeks      71.4")
	assert.Contains(t, out, "Study days 453")
	assert.NotContains(t, out, "Break days")
}
