package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/hifzpace/internal/config"
	"github.com/verte-zerg/hifzpace/internal/holidays"
	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
)

const (
	defaultHorizonYears = 10
	dateLayout          = "2006-01-02"
)

// planOptions are the flags shared by every command that runs the engine.
type planOptions struct {
	profile      string
	script       int
	juz          int
	page         int
	pace         float64
	activeDays   int
	sickDays     float64
	buffer       float64
	noHolidays   bool
	phases       bool
	ics          string
	icsRecurring bool
	now          string
	horizonYears int
}

// plan is everything the engine needs for one run.
type plan struct {
	profile  *model.Profile
	progress model.StudentProgress
	pace     float64
	calendar model.Calendar
	phases   []model.VelocityPhase
	engine   projection.Engine
}

type profileGetter interface {
	GetProfile(ctx context.Context, name string) (model.Profile, error)
}

func (o *planOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.profile, "profile", "", "saved profile to project")
	flags.IntVar(&o.script, "script", projection.DefaultScriptLinesPerPage, "script standard in lines per page (13, 15 or 16)")
	flags.IntVar(&o.juz, "juz", 1, "current juz (1-30)")
	flags.IntVar(&o.page, "page", 1, "current page within the juz (1-20)")
	flags.Float64Var(&o.pace, "pace", projection.DefaultLinesPerDay, "new lines memorized per study day")
	flags.IntVar(&o.activeDays, "active-days", projection.DefaultActiveDaysPerWeek, "study days per week (1-7)")
	flags.Float64Var(&o.sickDays, "sick-days", projection.DefaultSickDaysPerYear, "expected sick days per year")
	flags.Float64Var(&o.buffer, "buffer", 0, "retention buffer in percent (review time)")
	flags.BoolVar(&o.noHolidays, "no-holidays", false, "ignore holiday periods")
	flags.BoolVar(&o.phases, "phases", false, "apply velocity phases")
	flags.StringVar(&o.ics, "ics", "", "import holidays from an .ics calendar")
	flags.BoolVar(&o.icsRecurring, "ics-recurring", false, "treat imported holidays as recurring every year")
	flags.StringVar(&o.now, "now", "", "project from this date (YYYY-MM-DD) instead of today")
	flags.IntVar(&o.horizonYears, "horizon-years", defaultHorizonYears, "give up after this many years")
}

// applyConfig fills unset flags from the config file.
func (o *planOptions) applyConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "profile", &o.profile, fileCfg.Profile.Name)
	applyIntConfig(cmd, "script", &o.script, fileCfg.Profile.ScriptLines)
	applyIntConfig(cmd, "juz", &o.juz, fileCfg.Profile.Juz)
	applyIntConfig(cmd, "page", &o.page, fileCfg.Profile.Page)
	applyFloatConfig(cmd, "pace", &o.pace, fileCfg.Profile.LinesPerDay)
	applyIntConfig(cmd, "active-days", &o.activeDays, fileCfg.Profile.ActiveDays)
	applyFloatConfig(cmd, "sick-days", &o.sickDays, fileCfg.Projection.SickDaysPerYear)
	applyFloatConfig(cmd, "buffer", &o.buffer, fileCfg.Projection.RetentionBuffer)
	applyBoolConfig(cmd, "phases", &o.phases, fileCfg.Projection.UsePhases)
	applyIntConfig(cmd, "horizon-years", &o.horizonYears, fileCfg.Projection.HorizonYears)
	if v := fileCfg.Projection.UseHolidays; v != nil && !cmd.Flags().Changed("no-holidays") {
		o.noHolidays = !*v
	}
}

// applyProfile overrides progress fields the user did not pass as flags.
func (o *planOptions) applyProfile(cmd *cobra.Command, p model.Profile) {
	progress := p.Progress
	applyIntConfig(cmd, "script", &o.script, &progress.ScriptLinesPerPage)
	applyIntConfig(cmd, "juz", &o.juz, &progress.CurrentJuz)
	applyIntConfig(cmd, "page", &o.page, &progress.CurrentPage)
	applyFloatConfig(cmd, "pace", &o.pace, &progress.BaseLinesPerDay)
	applyIntConfig(cmd, "active-days", &o.activeDays, &progress.ActiveDaysPerWeek)
}

// resolve builds the plan. st may be nil when no profile is requested.
func (o *planOptions) resolve(ctx context.Context, cmd *cobra.Command, fileCfg config.FileConfig, st profileGetter, logger *zap.Logger) (plan, error) {
	var p plan
	if name := strings.TrimSpace(o.profile); name != "" {
		if st == nil {
			return plan{}, fmt.Errorf("profile %q requested but no store is open", name)
		}
		profile, err := st.GetProfile(ctx, name)
		if err != nil {
			return plan{}, profileError(name, err)
		}
		o.applyProfile(cmd, profile)
		p.profile = &profile
	}

	p.progress = model.StudentProgress{
		ScriptLinesPerPage: o.script,
		CurrentJuz:         o.juz,
		CurrentPage:        o.page,
		BaseLinesPerDay:    o.pace,
		ActiveDaysPerWeek:  o.activeDays,
	}
	p.pace = o.pace

	features := projection.DefaultFeatures()
	features.UseHolidays = !o.noHolidays
	features.UsePhases = o.phases
	features.RetentionBufferPercent = o.buffer
	if v := fileCfg.Projection.UseSickDays; v != nil {
		features.UseSickDayBuffer = *v
	}
	if o.horizonYears <= 0 {
		return plan{}, fmt.Errorf("--horizon-years must be > 0")
	}
	p.engine = projection.Engine{
		Features:    features,
		HorizonDays: o.horizonYears * 365,
		SampleEvery: projection.DefaultSampleEvery,
		Now:         time.Now,
	}
	if o.now != "" {
		start, err := time.ParseInLocation(dateLayout, o.now, time.Local)
		if err != nil {
			return plan{}, fmt.Errorf("invalid --now value (expected YYYY-MM-DD): %w", err)
		}
		p.engine.Now = func() time.Time { return start }
	}

	hols, err := fileCfg.ToHolidays()
	if err != nil {
		return plan{}, fmt.Errorf("invalid config: %w", err)
	}
	if hols == nil {
		hols = projection.DefaultHolidays()
	}
	if o.ics != "" {
		imported, err := holidays.LoadICSFile(o.ics, o.icsRecurring)
		if err != nil {
			return plan{}, err
		}
		logger.Info("imported holidays", zap.String("path", o.ics), zap.Int("count", len(imported)))
		hols = append(hols, imported...)
	}
	p.calendar = model.Calendar{Holidays: hols, SickDaysPerYear: o.sickDays}

	if features.UsePhases {
		phases, err := fileCfg.ToPhases()
		if err != nil {
			return plan{}, fmt.Errorf("invalid config: %w", err)
		}
		if phases == nil {
			phases = projection.DefaultPhases()
		}
		p.phases = phases
	}
	return p, nil
}

// needsStore reports whether resolving requires the database.
func (o *planOptions) needsStore() bool {
	return strings.TrimSpace(o.profile) != ""
}
