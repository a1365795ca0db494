package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/hifzpace/internal/model"
)

func sampleResult() model.ProjectionResult {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	return model.ProjectionResult{
		TotalLines:       9060,
		CurrentLines:     15,
		RemainingLines:   9045,
		DaysNeeded:       905,
		ActiveDaysNeeded: 905,
		FinishDate:       start.AddDate(0, 0, 905),
		Outcome:          model.OutcomeProjected,
		Series: []model.ChartPoint{
			{Date: start, JuzCompleted: 0.05, Phase: "Base"},
			{Date: start.AddDate(0, 0, 7), JuzCompleted: 0.28, Phase: "Base", IsBreak: true},
		},
		Warnings: []string{"velocity phases cover 90.0% of the remaining material, not 100%"},
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleResult(), "amina"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})

	assert.Equal(t, []string{SummarySheet, SeriesSheet}, f.GetSheetList())

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "amina"}, summary[0])
	assert.Equal(t, []string{"Finish date", "2027-08-25"}, summary[2])
	assert.Equal(t, []string{"Calendar days", "905"}, summary[7])
	assert.Equal(t, "Warning", summary[len(summary)-1][0])

	series, err := f.GetRows(SeriesSheet)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, []string{"Date", "Juz completed", "Phase", "Break"}, series[0])
	assert.Equal(t, []string{"2025-03-10", "0.28", "Base", "yes"}, series[2])
}

func TestWriteXLSX_BeyondHorizon(t *testing.T) {
	var buf bytes.Buffer
	result := model.ProjectionResult{Outcome: model.OutcomeBeyondHorizon, DaysNeeded: 3650}
	require.NoError(t, WriteXLSX(&buf, result, "slow"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	value, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "-", value)
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "plan.xlsx")
	require.NoError(t, SaveXLSX(path, sampleResult(), "amina"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()
	value, err := f.GetCellValue(SeriesSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Base", value)
}
