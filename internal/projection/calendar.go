package projection

import (
	"time"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// HolidayContains reports whether date falls inside h. Recurring periods are
// re-anchored to the date's own year; startYear anchors non-recurring periods
// that carry no explicit year.
func HolidayContains(h model.HolidayPeriod, date time.Time, startYear int) bool {
	md := monthDay(int(date.Month()), date.Day())
	start := monthDay(h.StartMonth, h.StartDay)
	end := monthDay(h.EndMonth, h.EndDay)

	if h.Recurring {
		if !h.CrossesYear() {
			return md >= start && md <= end
		}
		// Dec 20 -> Jan 2 is [Dec 20, Dec 31] plus [Jan 1, Jan 2].
		lateYear := md >= start && md <= monthDay(12, 31)
		earlyYear := md >= monthDay(1, 1) && md <= end
		return lateYear || earlyYear
	}

	year := h.Year
	if year == 0 {
		year = startYear
	}
	loc := date.Location()
	from := time.Date(year, time.Month(h.StartMonth), h.StartDay, 0, 0, 0, 0, loc)
	endYear := year
	if h.CrossesYear() {
		endYear++
	}
	to := time.Date(endYear, time.Month(h.EndMonth), h.EndDay, 0, 0, 0, 0, loc)
	day := startOfDay(date)
	return !day.Before(from) && !day.After(to)
}

func onHoliday(holidays []model.HolidayPeriod, date time.Time, startYear int) bool {
	for _, h := range holidays {
		if HolidayContains(h, date, startYear) {
			return true
		}
	}
	return false
}

// IsActiveDay reports whether date is a study day for a learner who studies
// activeDays days a week, counted from Monday.
func IsActiveDay(date time.Time, activeDays int) bool {
	offset := (int(date.Weekday()) + 6) % 7
	return offset < activeDays
}

func monthDay(month, day int) int {
	return month*100 + day
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
