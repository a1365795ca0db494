// Package holidays imports holiday periods from iCalendar files.
package holidays

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/verte-zerg/hifzpace/internal/model"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
)

// ParseICS converts VEVENTs into holiday periods. Events without a summary or
// a start date, and events longer than a year, are skipped. recurring marks
// every period as repeating yearly; otherwise only events with a yearly
// RRULE repeat.
func ParseICS(r io.Reader, recurring bool) ([]model.HolidayPeriod, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}
	var out []model.HolidayPeriod
	for _, evt := range cal.Events() {
		h, ok := parseEvent(evt, recurring)
		if !ok {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// LoadICSFile reads and parses an .ics file.
func LoadICSFile(path string, recurring bool) ([]model.HolidayPeriod, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	return ParseICS(f, recurring)
}

func parseEvent(evt *ics.VEvent, recurring bool) (model.HolidayPeriod, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.HolidayPeriod{}, false
	}
	rawStart, _, err := eventDate(evt, ics.ComponentPropertyDtStart)
	if err != nil {
		return model.HolidayPeriod{}, false
	}
	start := dateOf(rawStart)

	end := start
	if rawEnd, allDay, err := eventDate(evt, ics.ComponentPropertyDtEnd); err == nil {
		end = dateOf(rawEnd)
		// DTEND is exclusive: a DATE value or a midnight DATE-TIME ends the day before.
		if allDay || rawEnd.After(rawStart) && rawEnd.Equal(time.Date(rawEnd.Year(), rawEnd.Month(), rawEnd.Day(), 0, 0, 0, 0, rawEnd.Location())) {
			end = end.AddDate(0, 0, -1)
		}
	}
	if end.Before(start) {
		end = start
	}
	if !end.Before(start.AddDate(1, 0, 0)) {
		return model.HolidayPeriod{}, false
	}

	h := model.HolidayPeriod{
		Name:       strings.TrimSpace(summary.Value),
		StartMonth: int(start.Month()),
		StartDay:   start.Day(),
		EndMonth:   int(end.Month()),
		EndDay:     end.Day(),
		Recurring:  recurring || yearly(evt),
	}
	if !h.Recurring {
		h.Year = start.Year()
	}
	return h, true
}

// eventDate parses a DATE or DATE-TIME property and reports whether it was a
// plain DATE value.
func eventDate(evt *ics.VEvent, name ics.ComponentProperty) (time.Time, bool, error) {
	prop := evt.GetProperty(name)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", name)
	}
	value := strings.TrimSpace(prop.Value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, true, nil
	}
	loc := time.UTC
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if tz, err := time.LoadLocation(v[0]); err == nil {
				loc = tz
			}
		}
	}
	if t, err := time.Parse(utcLayout, value); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(dateTimeLayout, value, loc); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date %q", value)
}

func yearly(evt *ics.VEvent) bool {
	prop := evt.GetProperty(ics.ComponentPropertyRrule)
	if prop == nil {
		return false
	}
	for _, part := range strings.Split(prop.Value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "FREQ") {
			return strings.EqualFold(kv[1], "YEARLY")
		}
	}
	return false
}

// dateOf keeps the wall-clock date of t.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
