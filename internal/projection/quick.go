package projection

import (
	"math"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// Quick returns a closed-form estimate: remaining lines over a flat weekly
// rate, inflated by the retention buffer. It ignores holidays, phases and
// sick days and produces no series, so it is cheap enough to rerun on every
// slider tick.
func (e *Engine) Quick(progress model.StudentProgress, pace float64) (model.ProjectionResult, error) {
	if err := ValidateProgress(progress); err != nil {
		return model.ProjectionResult{}, err
	}
	if err := ValidatePace(pace); err != nil {
		return model.ProjectionResult{}, err
	}
	if err := validateCalendar(model.Calendar{}, e.Features); err != nil {
		return model.ProjectionResult{}, err
	}

	now := e.now()
	result := baseResult(progress)
	if result.RemainingLines == 0 {
		return completeResult(result, now), nil
	}

	buffer := 1 + e.Features.RetentionBufferPercent/100
	remaining := float64(result.RemainingLines)
	weeks := remaining / (pace * float64(progress.ActiveDaysPerWeek)) * buffer

	result.DaysNeeded = int(math.Ceil(weeks * 7))
	result.ActiveDaysNeeded = int(math.Ceil(remaining * buffer / pace))
	result.FinishDate = startOfDay(now).AddDate(0, 0, result.DaysNeeded)
	result.Outcome = model.OutcomeProjected
	if result.DaysNeeded > e.horizonDays() {
		result.Outcome = model.OutcomeBeyondHorizon
	}
	return result, nil
}

// WeeksNeeded converts a day count to weeks for display.
func WeeksNeeded(days int) float64 {
	return float64(days) / 7
}
