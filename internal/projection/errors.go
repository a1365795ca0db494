package projection

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// Validation errors returned by the engine. Match them with errors.Is.
var (
	ErrInvalidProgress = errors.New("invalid progress")
	ErrInvalidPace     = errors.New("invalid pace")
	ErrInvalidCalendar = errors.New("invalid calendar")
)

// ValidateProgress checks a learner's position and cadence.
func ValidateProgress(p model.StudentProgress) error {
	switch p.ScriptLinesPerPage {
	case 13, 15, 16:
	default:
		return fmt.Errorf("%w: script standard must be 13, 15 or 16 lines per page, got %d", ErrInvalidProgress, p.ScriptLinesPerPage)
	}
	if p.CurrentJuz < 1 || p.CurrentJuz > model.TotalJuz {
		return fmt.Errorf("%w: juz must be between 1 and %d, got %d", ErrInvalidProgress, model.TotalJuz, p.CurrentJuz)
	}
	if p.CurrentPage < 1 || p.CurrentPage > model.PagesPerJuz {
		return fmt.Errorf("%w: page within juz must be between 1 and %d, got %d", ErrInvalidProgress, model.PagesPerJuz, p.CurrentPage)
	}
	if p.ActiveDaysPerWeek < 1 || p.ActiveDaysPerWeek > 7 {
		return fmt.Errorf("%w: active days per week must be between 1 and 7, got %d", ErrInvalidProgress, p.ActiveDaysPerWeek)
	}
	if !(p.BaseLinesPerDay > 0) || math.IsInf(p.BaseLinesPerDay, 0) {
		return fmt.Errorf("%w: base lines per day must be > 0, got %v", ErrInvalidProgress, p.BaseLinesPerDay)
	}
	return nil
}

// ValidatePace rejects non-positive and non-finite paces.
func ValidatePace(pace float64) error {
	if math.IsNaN(pace) || math.IsInf(pace, 0) {
		return fmt.Errorf("%w: pace must be a finite number, got %v", ErrInvalidPace, pace)
	}
	if pace <= 0 {
		return fmt.Errorf("%w: pace must be > 0 lines per day, got %v", ErrInvalidPace, pace)
	}
	return nil
}

// ValidateHoliday checks that a holiday names real calendar days.
func ValidateHoliday(h model.HolidayPeriod) error {
	if err := validateMonthDay(h.StartMonth, h.StartDay); err != nil {
		return fmt.Errorf("%w: holiday %q start: %v", ErrInvalidCalendar, h.Name, err)
	}
	if err := validateMonthDay(h.EndMonth, h.EndDay); err != nil {
		return fmt.Errorf("%w: holiday %q end: %v", ErrInvalidCalendar, h.Name, err)
	}
	if h.Year < 0 {
		return fmt.Errorf("%w: holiday %q year must be >= 0, got %d", ErrInvalidCalendar, h.Name, h.Year)
	}
	return nil
}

func validateCalendar(cal model.Calendar, features model.Features) error {
	if cal.SickDaysPerYear < 0 || cal.SickDaysPerYear > daysPerYear || math.IsNaN(cal.SickDaysPerYear) {
		return fmt.Errorf("%w: sick days per year must be between 0 and 365, got %v", ErrInvalidCalendar, cal.SickDaysPerYear)
	}
	if features.RetentionBufferPercent < 0 || math.IsNaN(features.RetentionBufferPercent) || math.IsInf(features.RetentionBufferPercent, 0) {
		return fmt.Errorf("%w: retention buffer must be >= 0%%, got %v", ErrInvalidCalendar, features.RetentionBufferPercent)
	}
	for _, h := range cal.Holidays {
		if err := ValidateHoliday(h); err != nil {
			return err
		}
	}
	return nil
}

func validateMonthDay(month, day int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	// Leap year so that Feb 29 is accepted.
	last := time.Date(2024, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day < 1 || day > last {
		return fmt.Errorf("day must be between 1 and %d, got %d", last, day)
	}
	return nil
}
