// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Profile    ProfileConfig    `toml:"profile"`
	Projection ProjectionConfig `toml:"projection"`
	Holidays   []HolidayConfig  `toml:"holidays"`
	Phases     []PhaseConfig    `toml:"phases"`
	Log        LogConfig        `toml:"log"`
	Server     ServerConfig     `toml:"server"`
}

// ProfileConfig maps the learner's position and cadence.
type ProfileConfig struct {
	Name        *string  `toml:"name"`
	ScriptLines *int     `toml:"script-lines"`
	Juz         *int     `toml:"juz"`
	Page        *int     `toml:"page"`
	LinesPerDay *float64 `toml:"lines-per-day"`
	ActiveDays  *int     `toml:"active-days"`
}

// ProjectionConfig maps engine feature toggles and calendar tunables.
type ProjectionConfig struct {
	UseHolidays     *bool    `toml:"use-holidays"`
	UsePhases       *bool    `toml:"use-phases"`
	UseSickDays     *bool    `toml:"use-sick-days"`
	RetentionBuffer *float64 `toml:"retention-buffer"`
	SickDaysPerYear *float64 `toml:"sick-days-per-year"`
	HorizonYears    *int     `toml:"horizon-years"`
}

// HolidayConfig is one [[holidays]] entry. Start and end are "MM-DD".
type HolidayConfig struct {
	Name      string `toml:"name"`
	Start     string `toml:"start"`
	End       string `toml:"end"`
	Recurring *bool  `toml:"recurring"`
	Year      int    `toml:"year"`
}

// PhaseConfig is one [[phases]] entry. Exactly one of Percent/Juz and one of
// Multiplier/LinesPerDay must be set.
type PhaseConfig struct {
	Name        string   `toml:"name"`
	Percent     *float64 `toml:"percent"`
	Juz         *float64 `toml:"juz"`
	Multiplier  *float64 `toml:"multiplier"`
	LinesPerDay *float64 `toml:"lines-per-day"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// ServerConfig maps HTTP API settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// ToHolidays converts [[holidays]] entries. Recurring defaults to true.
// It returns nil when the file declares no holidays.
func (c FileConfig) ToHolidays() ([]model.HolidayPeriod, error) {
	if len(c.Holidays) == 0 {
		return nil, nil
	}
	out := make([]model.HolidayPeriod, 0, len(c.Holidays))
	for i, h := range c.Holidays {
		sm, sd, err := ParseMonthDay(h.Start)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d] start: %w", i, err)
		}
		em, ed, err := ParseMonthDay(h.End)
		if err != nil {
			return nil, fmt.Errorf("holidays[%d] end: %w", i, err)
		}
		recurring := true
		if h.Recurring != nil {
			recurring = *h.Recurring
		}
		if h.Year < 0 {
			return nil, fmt.Errorf("holidays[%d] year must be >= 0", i)
		}
		name := h.Name
		if name == "" {
			name = fmt.Sprintf("Holiday %d", i+1)
		}
		out = append(out, model.HolidayPeriod{
			Name:       name,
			StartMonth: sm,
			StartDay:   sd,
			EndMonth:   em,
			EndDay:     ed,
			Recurring:  recurring,
			Year:       h.Year,
		})
	}
	return out, nil
}

// ToPhases converts [[phases]] entries. It returns nil when the file
// declares no phases.
func (c FileConfig) ToPhases() ([]model.VelocityPhase, error) {
	if len(c.Phases) == 0 {
		return nil, nil
	}
	out := make([]model.VelocityPhase, 0, len(c.Phases))
	for i, p := range c.Phases {
		var alloc model.Allocation
		switch {
		case p.Percent != nil && p.Juz != nil:
			return nil, fmt.Errorf("phases[%d]: set percent or juz, not both", i)
		case p.Percent != nil:
			alloc = model.Allocation{Unit: model.AllocatePercent, Value: *p.Percent}
		case p.Juz != nil:
			alloc = model.Allocation{Unit: model.AllocateJuz, Value: *p.Juz}
		default:
			return nil, fmt.Errorf("phases[%d]: percent or juz is required", i)
		}

		var intensity model.Intensity
		switch {
		case p.Multiplier != nil && p.LinesPerDay != nil:
			return nil, fmt.Errorf("phases[%d]: set multiplier or lines-per-day, not both", i)
		case p.Multiplier != nil:
			intensity = model.Intensity{Unit: model.IntensityMultiplier, Value: *p.Multiplier}
		case p.LinesPerDay != nil:
			intensity = model.Intensity{Unit: model.IntensityLinesPerDay, Value: *p.LinesPerDay}
		default:
			return nil, fmt.Errorf("phases[%d]: multiplier or lines-per-day is required", i)
		}

		if !(alloc.Value > 0) {
			return nil, fmt.Errorf("phases[%d]: allocation must be > 0", i)
		}
		if !(intensity.Value > 0) {
			return nil, fmt.Errorf("phases[%d]: intensity must be > 0", i)
		}
		out = append(out, model.VelocityPhase{Name: p.Name, Allocation: alloc, Intensity: intensity})
	}
	return out, nil
}

// ParseMonthDay parses "MM-DD" (also "M-D") into month and day.
func ParseMonthDay(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected MM-DD, got %q", value)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q", value)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day in %q", value)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12 in %q", value)
	}
	if day < 1 || day > daysIn(month) {
		return 0, 0, fmt.Errorf("day out of range in %q", value)
	}
	return month, day, nil
}

func daysIn(month int) int {
	switch month {
	case 2:
		return 29
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
