package projection

import "github.com/verte-zerg/hifzpace/internal/model"

// Compiled-in defaults used when the config file says nothing.
const (
	DefaultSickDaysPerYear        = 10.0
	DefaultRetentionBufferPercent = 15.0
	DefaultScriptLinesPerPage     = 15
	DefaultLinesPerDay            = 10.0
	DefaultActiveDaysPerWeek      = 5
)

// DefaultFeatures enables calendar awareness and sick-day derating. Phases
// and the retention buffer are opt-in.
func DefaultFeatures() model.Features {
	return model.Features{
		UseHolidays:      true,
		UseSickDayBuffer: true,
	}
}

// DefaultHolidays is the built-in school-year break calendar.
func DefaultHolidays() []model.HolidayPeriod {
	return []model.HolidayPeriod{
		{Name: "Winter Break", StartMonth: 12, StartDay: 20, EndMonth: 1, EndDay: 2, Recurring: true},
		{Name: "Spring Break", StartMonth: 4, StartDay: 1, EndMonth: 4, EndDay: 7, Recurring: true},
		{Name: "Summer Break", StartMonth: 7, StartDay: 15, EndMonth: 8, EndDay: 15, Recurring: true},
	}
}

// DefaultPhases is the built-in three-stage velocity curve.
func DefaultPhases() []model.VelocityPhase {
	return []model.VelocityPhase{
		{
			Name:       "Warm-up",
			Allocation: model.Allocation{Unit: model.AllocatePercent, Value: 10},
			Intensity:  model.Intensity{Unit: model.IntensityMultiplier, Value: 0.7},
		},
		{
			Name:       "Flow State",
			Allocation: model.Allocation{Unit: model.AllocatePercent, Value: 60},
			Intensity:  model.Intensity{Unit: model.IntensityMultiplier, Value: 1.0},
		},
		{
			Name:       "Acceleration",
			Allocation: model.Allocation{Unit: model.AllocatePercent, Value: 30},
			Intensity:  model.Intensity{Unit: model.IntensityMultiplier, Value: 1.3},
		},
	}
}

// DefaultCalendar pairs the default holidays with the default sick-day rate.
func DefaultCalendar() model.Calendar {
	return model.Calendar{
		Holidays:        DefaultHolidays(),
		SickDaysPerYear: DefaultSickDaysPerYear,
	}
}

// DefaultProgress is a learner at the very start of the book.
func DefaultProgress() model.StudentProgress {
	return model.StudentProgress{
		ScriptLinesPerPage: DefaultScriptLinesPerPage,
		CurrentJuz:         1,
		CurrentPage:        1,
		BaseLinesPerDay:    DefaultLinesPerDay,
		ActiveDaysPerWeek:  DefaultActiveDaysPerWeek,
	}
}
