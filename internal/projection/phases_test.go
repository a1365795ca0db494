package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hifzpace/internal/model"
)

func juzPhase(name string, juz, linesPerDay float64) model.VelocityPhase {
	return model.VelocityPhase{
		Name:       name,
		Allocation: model.Allocation{Unit: model.AllocateJuz, Value: juz},
		Intensity:  model.Intensity{Unit: model.IntensityLinesPerDay, Value: linesPerDay},
	}
}

func TestBuildSegments_JuzPlanClippedToPosition(t *testing.T) {
	phases := []model.VelocityPhase{
		juzPhase("Early", 10, 5),
		juzPhase("Late", 20, 20),
	}
	// Juz 15 page 1 at 15 lines per page.
	current := float64((14*20 + 1) * 15)
	segments := buildSegments(phases, 10, current, 9060, 300)

	require.Len(t, segments, 1)
	assert.Equal(t, "Late", segments[0].name)
	assert.InDelta(t, current, segments[0].start, 1e-9)
	assert.InDelta(t, 9060, segments[0].end, 1e-9)
	assert.InDelta(t, 20, segments[0].pace, 1e-9)
}

func TestBuildSegments_FullJuzPlanReachesLastPage(t *testing.T) {
	phases := []model.VelocityPhase{
		{Name: "A", Allocation: model.Allocation{Unit: model.AllocateJuz, Value: 10}, Intensity: model.Intensity{Unit: model.IntensityMultiplier, Value: 1}},
		juzPhase("B", 20, 2),
	}
	require.Empty(t, ValidatePhases(phases))

	segments := buildSegments(phases, 100, 15, 9060, 300)
	require.Len(t, segments, 2)
	assert.Equal(t, segment{name: "A", start: 15, end: 3000, pace: 100}, segments[0])
	assert.Equal(t, segment{name: "B", start: 3000, end: 9060, pace: 2}, segments[1])

	// Inside the four pages past juz 30 page 20.
	tail := buildSegments(phases, 100, 9015, 9060, 300)
	require.Len(t, tail, 1)
	assert.Equal(t, "B", tail[0].name)
	assert.InDelta(t, 2, tail[0].pace, 1e-9)
}

func TestBuildSegments_PartialJuzPlanKeepsBaseTail(t *testing.T) {
	phases := []model.VelocityPhase{juzPhase("Half", 15, 4)}
	segments := buildSegments(phases, 10, 0, 9060, 300)
	require.Len(t, segments, 2)
	assert.InDelta(t, 4500, segments[0].end, 1e-9)
	assert.Equal(t, segment{name: BasePhaseName, start: 4500, end: 9060, pace: 10}, segments[1])
}

func TestBuildSegments_PercentOfRemaining(t *testing.T) {
	segments := buildSegments(DefaultPhases(), 10, 1060, 9060, 300)
	require.Len(t, segments, 3)
	assert.InDelta(t, 1060, segments[0].start, 1e-9)
	assert.InDelta(t, 1860, segments[0].end, 1e-9)
	assert.InDelta(t, 7, segments[0].pace, 1e-9)
	assert.InDelta(t, 6660, segments[1].end, 1e-9)
	assert.InDelta(t, 9060, segments[2].end, 1e-6)
	assert.InDelta(t, 13, segments[2].pace, 1e-9)
}

func TestBuildSegments_NoPhases(t *testing.T) {
	segments := buildSegments(nil, 12, 100, 9060, 300)
	require.Len(t, segments, 1)
	assert.Equal(t, segment{name: BasePhaseName, start: 100, end: 9060, pace: 12}, segments[0])
}

func TestBuildSegments_SkipsUnusable(t *testing.T) {
	phases := []model.VelocityPhase{
		juzPhase("A", 15, 10),
		{Name: "Mixed", Allocation: model.Allocation{Unit: model.AllocatePercent, Value: 50}, Intensity: model.Intensity{Unit: model.IntensityMultiplier, Value: 2}},
		juzPhase("B", 15, 0),
		juzPhase("C", 15, 30),
	}
	segments := buildSegments(phases, 10, 0, 9060, 300)
	names := make([]string, 0, len(segments))
	for _, s := range segments {
		names = append(names, s.name)
	}
	assert.Equal(t, []string{"A", "C"}, names)
	assert.InDelta(t, 9060, segments[len(segments)-1].end, 1e-9)
}

func TestValidatePhases(t *testing.T) {
	assert.Empty(t, ValidatePhases(nil))
	assert.Empty(t, ValidatePhases(DefaultPhases()))

	under := []model.VelocityPhase{juzPhase("Half", 15, 10)}
	warnings := ValidatePhases(under)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "15.0 juz")

	mixed := []model.VelocityPhase{
		juzPhase("A", 30, 10),
		{Name: "B", Allocation: model.Allocation{Unit: model.AllocatePercent, Value: 10}, Intensity: model.Intensity{Unit: model.IntensityMultiplier, Value: 1}},
	}
	warnings = ValidatePhases(mixed)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], `phase "B" skipped`)

	unknown := []model.VelocityPhase{{Allocation: model.Allocation{Unit: "pages", Value: 3}}}
	warnings = ValidatePhases(unknown)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "phase #1 skipped")
	assert.Contains(t, warnings[1], "flat pacing")
}
