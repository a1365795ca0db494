package projection

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hifzpace/internal/model"
)

var scripts = []int{13, 15, 16}

func randomProgress(rng *rand.Rand) model.StudentProgress {
	return model.StudentProgress{
		ScriptLinesPerPage: scripts[rng.Intn(len(scripts))],
		CurrentJuz:         1 + rng.Intn(model.TotalJuz),
		CurrentPage:        1 + rng.Intn(model.PagesPerJuz),
		BaseLinesPerDay:    1 + rng.Float64()*30,
		ActiveDaysPerWeek:  1 + rng.Intn(7),
	}
}

func TestProperty_LineConservationAndPercent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := fixedEngine(DefaultFeatures())
	for i := 0; i < 200; i++ {
		progress := randomProgress(rng)
		result, err := e.Compute(progress, progress.BaseLinesPerDay, DefaultCalendar(), nil)
		require.NoError(t, err)

		assert.Equal(t, result.TotalLines, result.CurrentLines+result.RemainingLines)
		assert.Equal(t, model.TotalPages*progress.ScriptLinesPerPage, result.TotalLines)
		want := int(math.Round(float64(result.CurrentLines) / float64(result.TotalLines) * 100))
		if result.RemainingLines == 0 {
			want = 100
		}
		assert.Equal(t, want, result.ProgressPercent)
		assert.GreaterOrEqual(t, result.ProgressPercent, 0)
		assert.LessOrEqual(t, result.ProgressPercent, 100)
	}
}

func TestProperty_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := fixedEngine(model.Features{UseHolidays: true, UsePhases: true, UseSickDayBuffer: true, RetentionBufferPercent: 10})
	for i := 0; i < 50; i++ {
		progress := randomProgress(rng)
		first, err := e.Compute(progress, progress.BaseLinesPerDay, DefaultCalendar(), DefaultPhases())
		require.NoError(t, err)
		second, err := e.Compute(progress, progress.BaseLinesPerDay, DefaultCalendar(), DefaultPhases())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func percentPhase(name string, percent, multiplier float64) model.VelocityPhase {
	return model.VelocityPhase{
		Name:       name,
		Allocation: model.Allocation{Unit: model.AllocatePercent, Value: percent},
		Intensity:  model.Intensity{Unit: model.IntensityMultiplier, Value: multiplier},
	}
}

func TestProperty_FasterPaceNeverFinishesLater(t *testing.T) {
	plans := map[string][]model.VelocityPhase{
		"flat":    nil,
		"default": DefaultPhases(),
		"slowing": {percentPhase("Sprint", 50, 5), percentPhase("Crawl", 50, 0.2)},
		"juz": {
			juzPhase("Fast", 12, 40),
			{Name: "Steady", Allocation: model.Allocation{Unit: model.AllocateJuz, Value: 18}, Intensity: model.Intensity{Unit: model.IntensityMultiplier, Value: 0.5}},
		},
	}
	features := DefaultFeatures()
	features.UsePhases = true
	e := fixedEngine(features)

	for name, phases := range plans {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(2024))
			for i := 0; i < 100; i++ {
				progress := randomProgress(rng)
				slow := 1 + rng.Float64()*40
				fast := slow + rng.Float64()*10

				a, err := e.Compute(progress, slow, DefaultCalendar(), phases)
				require.NoError(t, err)
				b, err := e.Compute(progress, fast, DefaultCalendar(), phases)
				require.NoError(t, err)
				assert.LessOrEqual(t, b.DaysNeeded, a.DaysNeeded, "juz %d page %d pace %.3f vs %.3f",
					progress.CurrentJuz, progress.CurrentPage, fast, slow)
			}
		})
	}
}

func TestCompute_DaySplitsAcrossPhaseBoundary(t *testing.T) {
	phases := []model.VelocityPhase{percentPhase("Sprint", 50, 5), percentPhase("Crawl", 50, 0.2)}
	progress := beginner()
	progress.CurrentJuz = 30
	progress.CurrentPage = 1
	e := fixedEngine(model.Features{UsePhases: true})

	// 345 lines left: 172.5 at five times the pace, 172.5 at a fifth of it.
	slow, err := e.Compute(progress, 34.117, model.Calendar{}, phases)
	require.NoError(t, err)
	fast, err := e.Compute(progress, 35.518, model.Calendar{}, phases)
	require.NoError(t, err)

	assert.Equal(t, 27, slow.DaysNeeded)
	assert.Equal(t, 26, fast.DaysNeeded)
}

func TestProperty_ActiveDaysPerWeek(t *testing.T) {
	e := fixedEngine(model.Features{})
	e.HorizonDays = 70
	for active := 1; active <= 7; active++ {
		progress := beginner()
		progress.ActiveDaysPerWeek = active
		// Too slow to finish in ten weeks.
		result, err := e.Compute(progress, 0.5, model.Calendar{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 10*active, result.ActiveDaysNeeded, "active=%d", active)
	}
}
