package projection

import (
	"fmt"
	"math"

	"github.com/verte-zerg/hifzpace/internal/model"
)

// BasePhaseName labels stretches of the book not covered by any phase.
const BasePhaseName = "Base"

const coverageTolerance = 0.01

type segment struct {
	name  string
	start float64
	end   float64
	pace  float64
}

// ValidatePhases returns human-readable warnings about a phase plan: unusable
// phases, mixed allocation units, and coverage other than the whole book.
func ValidatePhases(phases []model.VelocityPhase) []string {
	if len(phases) == 0 {
		return nil
	}
	var warnings []string
	unit := planUnit(phases)
	covered := 0.0
	for i, ph := range phases {
		if reason := unusableReason(ph, unit); reason != "" {
			warnings = append(warnings, fmt.Sprintf("phase %s skipped: %s", phaseLabel(ph, i), reason))
			continue
		}
		covered += ph.Allocation.Value
	}
	switch unit {
	case model.AllocatePercent:
		if math.Abs(covered-100) > coverageTolerance {
			warnings = append(warnings, fmt.Sprintf("velocity phases cover %.1f%% of the remaining material, not 100%%", covered))
		}
	case model.AllocateJuz:
		if math.Abs(covered-model.TotalJuz) > coverageTolerance {
			warnings = append(warnings, fmt.Sprintf("velocity phases cover %.1f juz, not %d", covered, model.TotalJuz))
		}
	default:
		warnings = append(warnings, "no velocity phase has a usable allocation unit; using flat pacing")
	}
	return warnings
}

// buildSegments lays phases over the book as line ranges starting at the
// learner's position. Juz allocations are laid from the first line and
// clipped; percent allocations share out the remaining lines. A juz plan
// covering all thirty juz stretches its last phase over the pages past
// juz 30 page 20.
func buildSegments(phases []model.VelocityPhase, pace, currentLines, totalLines, linesPerJuz float64) []segment {
	unit := planUnit(phases)
	cursor := currentLines
	if unit == model.AllocateJuz {
		cursor = 0
	}
	remaining := totalLines - currentLines

	last := -1
	covered := 0.0
	for i, ph := range phases {
		if unusableReason(ph, unit) == "" {
			last = i
			covered += ph.Allocation.Value
		}
	}
	wholeBook := unit == model.AllocateJuz && covered >= model.TotalJuz-coverageTolerance

	var segments []segment
	for i, ph := range phases {
		if unusableReason(ph, unit) != "" {
			continue
		}
		var span float64
		if unit == model.AllocateJuz {
			span = ph.Allocation.Value * linesPerJuz
		} else {
			span = ph.Allocation.Value / 100 * remaining
		}
		start, end := cursor, cursor+span
		cursor = end
		if i == last && wholeBook {
			end = math.Max(end, totalLines)
		}
		start = math.Max(start, currentLines)
		end = math.Min(end, totalLines)
		if end <= start {
			continue
		}
		segments = append(segments, segment{
			name:  ph.Name,
			start: start,
			end:   end,
			pace:  phasePace(ph.Intensity, pace),
		})
	}

	tailStart := currentLines
	if len(segments) > 0 {
		tailStart = segments[len(segments)-1].end
	}
	if totalLines-tailStart > 1e-6 {
		segments = append(segments, segment{
			name:  BasePhaseName,
			start: tailStart,
			end:   totalLines,
			pace:  pace,
		})
	}
	if len(segments) == 0 {
		segments = append(segments, segment{name: BasePhaseName, start: currentLines, end: totalLines, pace: pace})
	}
	return segments
}

func planUnit(phases []model.VelocityPhase) model.AllocationUnit {
	for _, ph := range phases {
		switch ph.Allocation.Unit {
		case model.AllocatePercent, model.AllocateJuz:
			return ph.Allocation.Unit
		}
	}
	return ""
}

func unusableReason(ph model.VelocityPhase, unit model.AllocationUnit) string {
	switch ph.Allocation.Unit {
	case model.AllocatePercent, model.AllocateJuz:
	default:
		return fmt.Sprintf("unknown allocation unit %q", ph.Allocation.Unit)
	}
	if ph.Allocation.Unit != unit {
		return fmt.Sprintf("allocation in %s while the plan uses %s", ph.Allocation.Unit, unit)
	}
	if !(ph.Allocation.Value > 0) {
		return fmt.Sprintf("allocation must be > 0, got %v", ph.Allocation.Value)
	}
	switch ph.Intensity.Unit {
	case model.IntensityMultiplier, model.IntensityLinesPerDay:
	default:
		return fmt.Sprintf("unknown intensity unit %q", ph.Intensity.Unit)
	}
	if !(ph.Intensity.Value > 0) || math.IsInf(ph.Intensity.Value, 0) {
		return fmt.Sprintf("intensity must be > 0, got %v", ph.Intensity.Value)
	}
	return ""
}

func phasePace(in model.Intensity, pace float64) float64 {
	if in.Unit == model.IntensityLinesPerDay {
		return in.Value
	}
	return pace * in.Value
}

func phaseLabel(ph model.VelocityPhase, idx int) string {
	if ph.Name != "" {
		return fmt.Sprintf("%q", ph.Name)
	}
	return fmt.Sprintf("#%d", idx+1)
}
