// Package model defines shared data structures.
package model

import "time"

// Book geometry shared by every script standard.
const (
	TotalPages  = 604
	TotalJuz    = 30
	PagesPerJuz = 20
)

// StudentProgress captures where a learner is and how fast they move.
type StudentProgress struct {
	ScriptLinesPerPage int     `json:"script_lines_per_page"`
	CurrentJuz         int     `json:"current_juz"`
	CurrentPage        int     `json:"current_page"`
	BaseLinesPerDay    float64 `json:"base_lines_per_day"`
	ActiveDaysPerWeek  int     `json:"active_days_per_week"`
}

// AbsolutePage returns the 1-based page position in the book.
// Juz 30 page 20 is the last page of the book; the final juz is longer
// than twenty pages and its tail is folded into that position.
func (p StudentProgress) AbsolutePage() int {
	if p.CurrentJuz >= TotalJuz && p.CurrentPage >= PagesPerJuz {
		return TotalPages
	}
	page := (p.CurrentJuz-1)*PagesPerJuz + p.CurrentPage
	if page < 1 {
		return 1
	}
	if page > TotalPages {
		return TotalPages
	}
	return page
}

// AllocationUnit says how a phase's share of the book is measured.
type AllocationUnit string

// Allocation units.
const (
	AllocatePercent AllocationUnit = "percent"
	AllocateJuz     AllocationUnit = "juz"
)

// IntensityUnit says how a phase's pace is expressed.
type IntensityUnit string

// Intensity units.
const (
	IntensityMultiplier  IntensityUnit = "multiplier"
	IntensityLinesPerDay IntensityUnit = "lines-per-day"
)

// Allocation is a phase's share of the material.
type Allocation struct {
	Unit  AllocationUnit `json:"unit"`
	Value float64        `json:"value"`
}

// Intensity is a phase's pace.
type Intensity struct {
	Unit  IntensityUnit `json:"unit"`
	Value float64       `json:"value"`
}

// VelocityPhase is a named stretch of the book with its own pace.
type VelocityPhase struct {
	Name       string     `json:"name"`
	Allocation Allocation `json:"allocation"`
	Intensity  Intensity  `json:"intensity"`
}

// HolidayPeriod is a month/day range with no progress.
// Year anchors a non-recurring period; zero means the projection's start year.
type HolidayPeriod struct {
	Name       string `json:"name"`
	StartMonth int    `json:"start_month"`
	StartDay   int    `json:"start_day"`
	EndMonth   int    `json:"end_month"`
	EndDay     int    `json:"end_day"`
	Recurring  bool   `json:"recurring"`
	Year       int    `json:"year,omitempty"`
}

// CrossesYear reports whether the period wraps past December 31.
func (h HolidayPeriod) CrossesYear() bool {
	if h.EndMonth != h.StartMonth {
		return h.EndMonth < h.StartMonth
	}
	return h.EndDay < h.StartDay
}

// Calendar groups the calendar constraints of a projection.
type Calendar struct {
	Holidays        []HolidayPeriod `json:"holidays"`
	SickDaysPerYear float64         `json:"sick_days_per_year"`
}

// Features toggles the optional parts of the projection engine.
type Features struct {
	UseHolidays            bool    `json:"use_holidays"`
	UsePhases              bool    `json:"use_phases"`
	UseSickDayBuffer       bool    `json:"use_sick_day_buffer"`
	RetentionBufferPercent float64 `json:"retention_buffer_percent"`
}

// Outcome classifies a projection.
type Outcome string

// Projection outcomes.
const (
	OutcomeComplete      Outcome = "complete"
	OutcomeProjected     Outcome = "projected"
	OutcomeBeyondHorizon Outcome = "beyond-horizon"
)

// ChartPoint is one sample of projected progress.
type ChartPoint struct {
	Date         time.Time `json:"date"`
	JuzCompleted float64   `json:"juz_completed"`
	Phase        string    `json:"phase"`
	IsBreak      bool      `json:"is_break"`
}

// ProjectionResult is the engine's forecast.
//
// FinishDate is the first day with nothing left to memorize: the start day
// plus DaysNeeded. The final Series point carries the same date. It is zero
// when the outcome is beyond-horizon.
type ProjectionResult struct {
	TotalLines       int          `json:"total_lines"`
	CurrentLines     int          `json:"current_lines"`
	RemainingLines   int          `json:"remaining_lines"`
	DaysNeeded       int          `json:"days_needed"`
	ActiveDaysNeeded int          `json:"active_days_needed"`
	BreakDays        int          `json:"break_days"`
	FinishDate       time.Time    `json:"finish_date"`
	ProgressPercent  int          `json:"progress_percent"`
	Outcome          Outcome      `json:"outcome"`
	Series           []ChartPoint `json:"series"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// Profile is a saved learner.
type Profile struct {
	ID        string
	Name      string
	Progress  StudentProgress
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProgressLog records a learner's position at a point in time.
type ProgressLog struct {
	ID        int64
	ProfileID string
	LoggedAt  time.Time
	Juz       int
	Page      int
}

// Snapshot records the outcome of a projection run.
type Snapshot struct {
	ID               int64
	ProfileID        string
	ComputedAt       time.Time
	Pace             float64
	FinishDate       time.Time
	DaysNeeded       int
	ActiveDaysNeeded int
	BreakDays        int
	ProgressPercent  int
	Outcome          Outcome
}
