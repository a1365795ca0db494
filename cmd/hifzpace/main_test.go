package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/hifzpace/internal/config"
	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/store"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var flatArgs = []string{"--now", "2025-03-03", "--pace", "10", "--active-days", "7", "--no-holidays", "--sick-days", "0"}

func TestApplyConfigHelpers(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var s string
	var i int
	var f float64
	var b bool
	cmd.Flags().StringVar(&s, "s", "flag", "")
	cmd.Flags().IntVar(&i, "i", 1, "")
	cmd.Flags().Float64Var(&f, "f", 1, "")
	cmd.Flags().BoolVar(&b, "b", false, "")
	require.NoError(t, cmd.Flags().Set("i", "7"))

	cfgS, cfgI, cfgF, cfgB := "config", 3, 2.5, true
	applyStringConfig(cmd, "s", &s, &cfgS)
	applyIntConfig(cmd, "i", &i, &cfgI)
	applyFloatConfig(cmd, "f", &f, &cfgF)
	applyBoolConfig(cmd, "b", &b, &cfgB)
	applyFloatConfig(cmd, "f", &f, nil)

	assert.Equal(t, "config", s)
	assert.Equal(t, 7, i)
	assert.Equal(t, 2.5, f)
	assert.True(t, b)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hifzpace", "config.toml")
	require.NoError(t, writeConfigTemplate(path))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Profile.Name)
	assert.Empty(t, cfg.Holidays)

	require.NoError(t, os.WriteFile(path, []byte("[profile]\njuz = 3\n"), 0o644))
	require.NoError(t, writeConfigTemplate(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[profile]\njuz = 3\n", string(body))
}

func TestPlanResolve_Precedence(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var o planOptions
	o.register(cmd)
	require.NoError(t, cmd.Flags().Set("pace", "20"))

	juz, lines, buffer, useHolidays := 4, 13, 15.0, false
	fileCfg := config.FileConfig{
		Profile:    config.ProfileConfig{Juz: &juz, ScriptLines: &lines},
		Projection: config.ProjectionConfig{RetentionBuffer: &buffer, UseHolidays: &useHolidays},
	}
	o.applyConfig(cmd, fileCfg)
	p, err := o.resolve(context.Background(), cmd, fileCfg, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Nil(t, p.profile)
	assert.Equal(t, 20.0, p.pace)
	assert.Equal(t, 4, p.progress.CurrentJuz)
	assert.Equal(t, 13, p.progress.ScriptLinesPerPage)
	assert.False(t, p.engine.Features.UseHolidays)
	assert.True(t, p.engine.Features.UseSickDayBuffer)
	assert.Equal(t, 15.0, p.engine.Features.RetentionBufferPercent)
	assert.Equal(t, 3650, p.engine.HorizonDays)
	assert.Len(t, p.calendar.Holidays, 3)
	assert.Nil(t, p.phases)
}

func TestPlanResolve_ProfileAndPhases(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "hifzpace.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	_, err = st.SaveProfile(ctx, model.Profile{Name: "amina", Progress: model.StudentProgress{
		ScriptLinesPerPage: 16, CurrentJuz: 9, CurrentPage: 4, BaseLinesPerDay: 8, ActiveDaysPerWeek: 6,
	}})
	require.NoError(t, err)

	cmd := &cobra.Command{Use: "x"}
	var o planOptions
	o.register(cmd)
	require.NoError(t, cmd.Flags().Set("profile", "amina"))
	require.NoError(t, cmd.Flags().Set("page", "10"))
	require.NoError(t, cmd.Flags().Set("phases", "true"))
	require.NoError(t, cmd.Flags().Set("now", "2025-03-03"))

	p, err := o.resolve(ctx, cmd, config.FileConfig{}, st, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, p.profile)
	assert.Equal(t, model.StudentProgress{
		ScriptLinesPerPage: 16, CurrentJuz: 9, CurrentPage: 10, BaseLinesPerDay: 8, ActiveDaysPerWeek: 6,
	}, p.progress)
	assert.Len(t, p.phases, 3)
	assert.Equal(t, "2025-03-03", p.engine.Now().Format(dateLayout))

	require.NoError(t, cmd.Flags().Set("profile", "nobody"))
	_, err = o.resolve(ctx, cmd, config.FileConfig{}, st, zap.NewNop())
	assert.ErrorContains(t, err, `profile "nobody" not found`)
}

func TestPlanResolve_BadInput(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var o planOptions
	o.register(cmd)
	require.NoError(t, cmd.Flags().Set("now", "03/03/2025"))
	_, err := o.resolve(context.Background(), cmd, config.FileConfig{}, nil, zap.NewNop())
	assert.ErrorContains(t, err, "invalid --now value")

	o.now = ""
	o.ics = filepath.Join(t.TempDir(), "missing.ics")
	_, err = o.resolve(context.Background(), cmd, config.FileConfig{}, nil, zap.NewNop())
	assert.ErrorContains(t, err, "failed to open calendar")
}

func TestProjectCmd_FlatScenario(t *testing.T) {
	isolate(t)
	out, err := run(t, append([]string{"project", "--timeline", "--chart"}, flatArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wed, 25 Aug 2027")
	assert.Contains(t, out, "905 (129.3 weeks)")
	assert.Contains(t, out, "Projected juz completed")
	assert.Contains(t, out, "Timeline")
}

func TestRootRunsProjection(t *testing.T) {
	isolate(t)
	out, err := run(t, flatArgs...)
	require.NoError(t, err)
	assert.Contains(t, out, "Projection")
	assert.Contains(t, out, "905 (129.3 weeks)")
}

func TestProjectCmd_XLSX(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	out, err := run(t, append([]string{"project", "--xlsx=" + path}, flatArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	out, err = run(t, append([]string{"project", "--xlsx"}, flatArgs...)...)
	require.NoError(t, err)
	auto := filepath.Join(config.DefaultExportDir(), "projection-20250303.xlsx")
	assert.Contains(t, out, "Wrote "+auto)
}

func TestProjectCmd_SaveNeedsProfile(t *testing.T) {
	isolate(t)
	_, err := run(t, append([]string{"project", "--save"}, flatArgs...)...)
	assert.EqualError(t, err, "--save requires --profile")
}

func TestProjectCmd_InvalidPace(t *testing.T) {
	isolate(t)
	_, err := run(t, "project", "--pace", "0")
	assert.ErrorContains(t, err, "invalid progress")
}

func TestEstimateCmd(t *testing.T) {
	isolate(t)
	out, err := run(t, "estimate", "--pace", "10", "--active-days", "7", "--buffer", "15", "--now", "2025-03-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Estimate")
	// 9045 * 1.15 / 10 = 1040.2 days.
	assert.Contains(t, out, "148.7")
}

func TestProfileWorkflow(t *testing.T) {
	isolate(t)
	out, err := run(t, "init", "--name", "amina", "--juz", "2", "--page", "1", "--pace", "10", "--active-days", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved profile amina (juz 2 page 1, 10 lines/day, 7 days/week)")

	out, err = run(t, "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "amina")

	out, err = run(t, "log", "--profile", "amina", "--juz", "2", "--page", "6", "--at", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged juz 2 page 6 for amina on 2025-03-01")

	for _, now := range []string{"2025-03-03", "2025-03-10"} {
		out, err = run(t, "project", "--profile", "amina", "--save", "--no-holidays", "--sick-days", "0", "--now", now)
		require.NoError(t, err)
		assert.Contains(t, out, "Saved snapshot for amina")
	}

	out, err = run(t, "history", "--profile", "amina")
	require.NoError(t, err)
	assert.Contains(t, out, "History for amina")
	assert.Contains(t, out, "Finish drift: +7 days")
	assert.Equal(t, 1, strings.Count(out, "Days to finish per snapshot"))

	_, err = run(t, "log", "--profile", "amina", "--juz", "31", "--page", "1")
	assert.ErrorContains(t, err, "juz must be between 1 and 30")

	_, err = run(t, "history", "--profile", "ghost")
	assert.ErrorContains(t, err, `profile "ghost" not found`)
}

func TestInitCmd_RequiresName(t *testing.T) {
	isolate(t)
	_, err := run(t, "init", "--juz", "3")
	assert.EqualError(t, err, "--name is required")
}

func TestConfigProfileDefault(t *testing.T) {
	isolate(t)
	path := config.DefaultConfigPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[profile]\nname = \"bilal\"\n"), 0o644))

	_, err := run(t, "init", "--juz", "5")
	require.NoError(t, err)
	out, err := run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "History for bilal")
}

func TestInteractiveCommandsNeedTerminal(t *testing.T) {
	isolate(t)
	_, err := run(t, "slider")
	assert.EqualError(t, err, "this command needs an interactive terminal")
	_, err = run(t, "dashboard")
	assert.EqualError(t, err, "this command needs an interactive terminal")
}
