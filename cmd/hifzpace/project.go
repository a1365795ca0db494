package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/hifzpace/internal/config"
	"github.com/verte-zerg/hifzpace/internal/export"
	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/report"
	"github.com/verte-zerg/hifzpace/internal/store"
)

const (
	chartHeight = 10
	// autoXLSX is the --xlsx value used when the flag is given without a path.
	autoXLSX = "auto"
)

var (
	projectOpts     planOptions
	projectTimeline bool
	projectChart    bool
	projectXLSX     string
	projectSave     bool

	estimateOpts planOptions
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run the day-by-day projection",
		Args:  cobra.NoArgs,
		RunE:  runProjectCmd,
	}
	registerProjectFlags(cmd)
	return cmd
}

func registerProjectFlags(cmd *cobra.Command) {
	projectOpts.register(cmd)
	flags := cmd.Flags()
	flags.BoolVar(&projectTimeline, "timeline", false, "print the sampled timeline")
	flags.BoolVar(&projectChart, "chart", false, "plot projected juz over time")
	flags.StringVar(&projectXLSX, "xlsx", "", "export to an .xlsx workbook (--xlsx=PATH; bare --xlsx writes to the export dir)")
	flags.Lookup("xlsx").NoOptDefVal = autoXLSX
	flags.BoolVar(&projectSave, "save", false, "record a snapshot for --profile")
}

func runProjectCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(fileCfg, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	projectOpts.applyConfig(cmd, fileCfg)
	if projectSave && !projectOpts.needsStore() {
		return fmt.Errorf("--save requires --profile")
	}

	var st *store.Store
	if projectOpts.needsStore() {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := resolvePlan(ctx, cmd, &projectOpts, fileCfg, st, logger)
	if err != nil {
		return err
	}
	result, err := p.engine.Compute(p.progress, p.pace, p.calendar, p.phases)
	if err != nil {
		return err
	}
	logger.Debug("projection computed",
		zap.Int("days", result.DaysNeeded),
		zap.Int("active_days", result.ActiveDaysNeeded),
		zap.Int("break_days", result.BreakDays),
		zap.String("outcome", string(result.Outcome)),
	)

	out := cmd.OutOrStdout()
	if err := writeProjection(out, result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if projectXLSX != "" {
		path := xlsxPath(projectXLSX, p, result)
		if err := export.SaveXLSX(path, result, planTitle(p)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Wrote %s\n", path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if projectSave {
		snap := snapshotOf(*p.profile, p, result)
		if _, err := st.InsertSnapshot(ctx, snap); err != nil {
			return err
		}
		logger.Info("snapshot saved", zap.String("profile", p.profile.Name))
		if _, err := fmt.Fprintf(out, "Saved snapshot for %s\n", p.profile.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeProjection(w io.Writer, result model.ProjectionResult) error {
	if err := report.RenderSummary(w, result); err != nil {
		return err
	}
	if projectChart {
		if err := report.RenderChart(w, result, 0, chartHeight, false); err != nil {
			return err
		}
	}
	if projectTimeline {
		if err := report.RenderTimeline(w, result.Series); err != nil {
			return err
		}
	}
	return nil
}

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Closed-form estimate without holidays or phases",
		Args:  cobra.NoArgs,
		RunE:  runEstimateCmd,
	}
	estimateOpts.register(cmd)
	return cmd
}

func runEstimateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(fileCfg, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	estimateOpts.applyConfig(cmd, fileCfg)
	var st *store.Store
	if estimateOpts.needsStore() {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer closeStore(st)
	}
	p, err := resolvePlan(cmd.Context(), cmd, &estimateOpts, fileCfg, st, logger)
	if err != nil {
		return err
	}
	result, err := p.engine.Quick(p.progress, p.pace)
	if err != nil {
		return err
	}
	if err := report.RenderEstimate(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// resolvePlan hides the typed-nil store from the interface check in resolve.
func resolvePlan(ctx context.Context, cmd *cobra.Command, o *planOptions, fileCfg config.FileConfig, st *store.Store, logger *zap.Logger) (plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if st == nil {
		return o.resolve(ctx, cmd, fileCfg, nil, logger)
	}
	return o.resolve(ctx, cmd, fileCfg, st, logger)
}

func planTitle(p plan) string {
	if p.profile != nil {
		return fmt.Sprintf("Hifz projection for %s", p.profile.Name)
	}
	return "Hifz projection"
}

func xlsxPath(flagValue string, p plan, result model.ProjectionResult) string {
	if flagValue != autoXLSX {
		return flagValue
	}
	name := "projection"
	if p.profile != nil {
		name = strings.ReplaceAll(strings.ToLower(p.profile.Name), " ", "-")
	}
	stamp := p.engine.Now().Format("20060102")
	if result.Outcome == model.OutcomeComplete {
		stamp += "-complete"
	}
	return filepath.Join(config.DefaultExportDir(), fmt.Sprintf("%s-%s.xlsx", name, stamp))
}

func snapshotOf(profile model.Profile, p plan, result model.ProjectionResult) model.Snapshot {
	return model.Snapshot{
		ProfileID:        profile.ID,
		ComputedAt:       p.engine.Now(),
		Pace:             p.pace,
		FinishDate:       result.FinishDate,
		DaysNeeded:       result.DaysNeeded,
		ActiveDaysNeeded: result.ActiveDaysNeeded,
		BreakDays:        result.BreakDays,
		ProgressPercent:  result.ProgressPercent,
		Outcome:          result.Outcome,
	}
}
