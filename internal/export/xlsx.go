// Package export writes projections to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// Sheet names in the exported workbook.
const (
	SummarySheet = "Summary"
	SeriesSheet  = "Series"
)

const dateLayout = "2006-01-02"

// WriteXLSX writes a workbook with a key/value summary sheet and the chart
// series sheet.
func WriteXLSX(w io.Writer, result model.ProjectionResult, title string) error {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort workbook close.
			_ = cerr
		}
	}()

	for _, name := range []string{SummarySheet, SeriesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}
	summaryIdx, err := f.GetSheetIndex(SummarySheet)
	if err != nil {
		return fmt.Errorf("failed to find summary sheet: %w", err)
	}
	f.SetActiveSheet(summaryIdx)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := writeSummary(f, result, title, bold); err != nil {
		return err
	}
	if err := writeSeries(f, result.Series, bold); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook to path, creating its directory.
func SaveXLSX(path string, result model.ProjectionResult, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := WriteXLSX(file, result, title); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, result model.ProjectionResult, title string, bold int) error {
	finish := "-"
	if !result.FinishDate.IsZero() {
		finish = result.FinishDate.Format(dateLayout)
	}
	rows := [][2]any{
		{"Title", title},
		{"Outcome", string(result.Outcome)},
		{"Finish date", finish},
		{"Progress %", result.ProgressPercent},
		{"Total lines", result.TotalLines},
		{"Memorized lines", result.CurrentLines},
		{"Remaining lines", result.RemainingLines},
		{"Calendar days", result.DaysNeeded},
		{"Study days", result.ActiveDaysNeeded},
		{"Break days", result.BreakDays},
	}
	for _, warning := range result.Warnings {
		rows = append(rows, [2]any{"Warning", warning})
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row[0], row[1]); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 18); err != nil {
		return fmt.Errorf("failed to size summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "B", "B", 40)
}

func writeSeries(f *excelize.File, series []model.ChartPoint, bold int) error {
	if err := setRow(f, SeriesSheet, 1, "Date", "Juz completed", "Phase", "Break"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SeriesSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("failed to style series header: %w", err)
	}
	for i, p := range series {
		breakMark := ""
		if p.IsBreak {
			breakMark = "yes"
		}
		if err := setRow(f, SeriesSheet, i+2, p.Date.Format(dateLayout), p.JuzCompleted, p.Phase, breakMark); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SeriesSheet, "A", "A", 12); err != nil {
		return fmt.Errorf("failed to size series: %w", err)
	}
	return f.SetColWidth(SeriesSheet, "B", "D", 16)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
