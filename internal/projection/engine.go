// Package projection forecasts when a learner will finish memorizing the book.
package projection

import (
	"math"
	"time"

	"github.com/verte-zerg/hifzpace/internal/model"
)

const (
	// DefaultHorizonDays caps the simulation at ten years.
	DefaultHorizonDays = 3650
	// DefaultSampleEvery is the chart sampling interval in days.
	DefaultSampleEvery = 7

	daysPerYear = 365.0
)

// Engine computes projections. The zero value is usable; DefaultEngine
// returns one with the default feature set.
type Engine struct {
	// Features toggles holidays, phases, sick-day derating and the retention buffer.
	Features model.Features
	// HorizonDays is the longest simulation before giving up.
	HorizonDays int
	// SampleEvery is how often, in simulated days, a chart point is recorded.
	SampleEvery int
	// Now returns the reference instant. Nil means time.Now.
	Now func() time.Time
}

// DefaultEngine returns an engine with the default features and limits.
func DefaultEngine() *Engine {
	return &Engine{
		Features:    DefaultFeatures(),
		HorizonDays: DefaultHorizonDays,
		SampleEvery: DefaultSampleEvery,
		Now:         time.Now,
	}
}

// Compute simulates progress day by day and returns the projected finish.
// pace overrides progress.BaseLinesPerDay; pass the base value for no override.
func (e *Engine) Compute(progress model.StudentProgress, pace float64, cal model.Calendar, phases []model.VelocityPhase) (model.ProjectionResult, error) {
	if err := ValidateProgress(progress); err != nil {
		return model.ProjectionResult{}, err
	}
	if err := ValidatePace(pace); err != nil {
		return model.ProjectionResult{}, err
	}
	if err := validateCalendar(cal, e.Features); err != nil {
		return model.ProjectionResult{}, err
	}

	now := e.now()
	result := baseResult(progress)
	if result.RemainingLines == 0 {
		return completeResult(result, now), nil
	}

	linesPerPage := float64(progress.ScriptLinesPerPage)
	linesPerJuz := linesPerPage * model.PagesPerJuz
	total := float64(result.TotalLines)
	current := float64(result.CurrentLines)

	if e.Features.UsePhases && len(phases) > 0 {
		result.Warnings = ValidatePhases(phases)
	} else {
		phases = nil
	}
	sim := &simulation{
		linesPerJuz: linesPerJuz,
		done:        current,
		segments:    buildSegments(phases, pace, current, total, linesPerJuz),
	}

	sickFactor := 1.0
	if e.Features.UseSickDayBuffer {
		sickFactor = 1 - cal.SickDaysPerYear/daysPerYear
	}
	bufferFactor := 1 + e.Features.RetentionBufferPercent/100
	horizon := e.horizonDays()
	every := e.sampleEvery()

	start := startOfDay(now)
	startYear := start.Year()
	sim.sample(start, false)

	inBreak := false
	for day := 0; day < horizon; day++ {
		date := start.AddDate(0, 0, day)
		if e.Features.UseHolidays && onHoliday(cal.Holidays, date, startYear) {
			result.BreakDays++
			if !inBreak {
				sim.sample(date, true)
				inBreak = true
			}
			continue
		}
		if inBreak {
			sim.sample(date.AddDate(0, 0, -1), true)
			inBreak = false
		}
		sampleDue := (day+1)%every == 0
		if !IsActiveDay(date, progress.ActiveDaysPerWeek) {
			if sampleDue {
				sim.sample(date, false)
			}
			continue
		}

		prevJuz, prevSeg := sim.wholeJuz(), sim.seg
		sim.study(sickFactor / bufferFactor)
		result.ActiveDaysNeeded++

		if sim.done >= total {
			sim.done = total
			result.DaysNeeded = day + 1
			result.FinishDate = start.AddDate(0, 0, day+1)
			sim.sample(result.FinishDate, false)
			result.Outcome = model.OutcomeProjected
			result.Series = sim.series
			return result, nil
		}
		if sampleDue || sim.wholeJuz() != prevJuz || sim.seg != prevSeg {
			sim.sample(date, false)
		}
	}

	sim.sample(start.AddDate(0, 0, horizon-1), inBreak)
	result.DaysNeeded = horizon
	result.Outcome = model.OutcomeBeyondHorizon
	result.Series = sim.series
	return result, nil
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) horizonDays() int {
	if e.HorizonDays <= 0 {
		return DefaultHorizonDays
	}
	return e.HorizonDays
}

func (e *Engine) sampleEvery() int {
	if e.SampleEvery <= 0 {
		return DefaultSampleEvery
	}
	return e.SampleEvery
}

type simulation struct {
	linesPerJuz float64
	done        float64
	segments    []segment
	seg         int
	series      []model.ChartPoint
}

func (s *simulation) juz() float64 {
	return math.Min(s.done/s.linesPerJuz, model.TotalJuz)
}

func (s *simulation) wholeJuz() int {
	return int(s.juz())
}

// study spends one active day. A day that reaches a segment boundary spends
// only the fraction needed at the current pace and carries the rest into the
// next segment.
func (s *simulation) study(factor float64) {
	budget := 1.0
	for budget > 0 {
		cur := s.segments[s.seg]
		rate := cur.pace * factor
		if s.seg == len(s.segments)-1 {
			s.done += rate * budget
			return
		}
		need := (cur.end - s.done) / rate
		if need > budget {
			s.done += rate * budget
			return
		}
		if need > 0 {
			budget -= need
		}
		s.done = math.Max(s.done, cur.end)
		s.seg++
	}
}

// sample records the state at the end of date. A second sample on the same
// date replaces the first so dates stay strictly increasing.
func (s *simulation) sample(date time.Time, isBreak bool) {
	p := model.ChartPoint{
		Date:         date,
		JuzCompleted: s.juz(),
		Phase:        s.segments[s.seg].name,
		IsBreak:      isBreak,
	}
	if n := len(s.series); n > 0 && !s.series[n-1].Date.Before(date) {
		s.series[n-1] = p
		return
	}
	s.series = append(s.series, p)
}

func baseResult(progress model.StudentProgress) model.ProjectionResult {
	lines := progress.ScriptLinesPerPage
	total := model.TotalPages * lines
	current := progress.AbsolutePage() * lines
	remaining := total - current
	if remaining < 0 {
		remaining = 0
	}
	return model.ProjectionResult{
		TotalLines:      total,
		CurrentLines:    current,
		RemainingLines:  remaining,
		ProgressPercent: progressPercent(current, total),
	}
}

func completeResult(result model.ProjectionResult, now time.Time) model.ProjectionResult {
	result.RemainingLines = 0
	result.ProgressPercent = 100
	result.DaysNeeded = 0
	result.FinishDate = now
	result.Outcome = model.OutcomeComplete
	result.Series = []model.ChartPoint{}
	return result
}

func progressPercent(current, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(current) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
