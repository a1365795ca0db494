package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/hifzpace/internal/model"
	"github.com/verte-zerg/hifzpace/internal/projection"
	"github.com/verte-zerg/hifzpace/internal/report"
	"github.com/verte-zerg/hifzpace/internal/store"
	"github.com/verte-zerg/hifzpace/internal/wizard"
)

const defaultHistoryLast = 10

var (
	initName       string
	initScript     int
	initJuz        int
	initPage       int
	initPace       float64
	initActiveDays int

	logProfile string
	logJuz     int
	logPage    int
	logAt      string

	historyProfile string
	historyLast    int
)

// progressFlags are the init flags that describe a learner.
var progressFlags = []string{"name", "script", "juz", "page", "pace", "active-days"}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or update a learner profile",
		Args:  cobra.NoArgs,
		RunE:  runInitCmd,
	}
	cmd.Flags().StringVar(&initName, "name", "", "profile name")
	cmd.Flags().IntVar(&initScript, "script", projection.DefaultScriptLinesPerPage, "script standard in lines per page (13, 15 or 16)")
	cmd.Flags().IntVar(&initJuz, "juz", 1, "current juz (1-30)")
	cmd.Flags().IntVar(&initPage, "page", 1, "current page within the juz (1-20)")
	cmd.Flags().Float64Var(&initPace, "pace", projection.DefaultLinesPerDay, "new lines memorized per study day")
	cmd.Flags().IntVar(&initActiveDays, "active-days", projection.DefaultActiveDaysPerWeek, "study days per week (1-7)")
	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(fileCfg, "")
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	applyStringConfig(cmd, "name", &initName, fileCfg.Profile.Name)
	applyIntConfig(cmd, "script", &initScript, fileCfg.Profile.ScriptLines)
	applyIntConfig(cmd, "juz", &initJuz, fileCfg.Profile.Juz)
	applyIntConfig(cmd, "page", &initPage, fileCfg.Profile.Page)
	applyFloatConfig(cmd, "pace", &initPace, fileCfg.Profile.LinesPerDay)
	applyIntConfig(cmd, "active-days", &initActiveDays, fileCfg.Profile.ActiveDays)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	profile := initProfile()
	if !anyChanged(cmd, progressFlags) && isatty.IsTerminal(os.Stdin.Fd()) {
		if existing, err := st.GetProfile(ctx, profile.Name); err == nil {
			profile = existing
		}
		profile, err = wizard.Run(ctx, profile)
		if err != nil {
			if errors.Is(err, wizard.ErrAborted) {
				logErrf("Setup aborted, nothing saved.\n")
				return nil
			}
			return err
		}
	}
	saved, err := saveProfile(ctx, st, profile)
	if err != nil {
		return err
	}
	logger.Info("profile saved", zap.String("profile", saved.Name), zap.String("id", saved.ID))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %s (juz %d page %d, %.0f lines/day, %d days/week)\n",
		saved.Name, saved.Progress.CurrentJuz, saved.Progress.CurrentPage,
		saved.Progress.BaseLinesPerDay, saved.Progress.ActiveDaysPerWeek)
	return err
}

func initProfile() model.Profile {
	return model.Profile{
		Name: strings.TrimSpace(initName),
		Progress: model.StudentProgress{
			ScriptLinesPerPage: initScript,
			CurrentJuz:         initJuz,
			CurrentPage:        initPage,
			BaseLinesPerDay:    initPace,
			ActiveDaysPerWeek:  initActiveDays,
		},
	}
}

type profileSaver interface {
	SaveProfile(ctx context.Context, p model.Profile) (model.Profile, error)
}

func saveProfile(ctx context.Context, st profileSaver, p model.Profile) (model.Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return model.Profile{}, fmt.Errorf("--name is required")
	}
	if err := projection.ValidateProgress(p.Progress); err != nil {
		return model.Profile{}, err
	}
	return st.SaveProfile(ctx, p)
}

func anyChanged(cmd *cobra.Command, names []string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record current memorization progress",
		Args:  cobra.NoArgs,
		RunE:  runLogCmd,
	}
	cmd.Flags().StringVar(&logProfile, "profile", "", "profile name")
	cmd.Flags().IntVar(&logJuz, "juz", 0, "current juz (1-30)")
	cmd.Flags().IntVar(&logPage, "page", 0, "current page within the juz (1-20)")
	cmd.Flags().StringVar(&logAt, "at", "", "date of the entry (YYYY-MM-DD, default now)")
	_ = cmd.MarkFlagRequired("juz")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

func runLogCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "profile", &logProfile, fileCfg.Profile.Name)
	if strings.TrimSpace(logProfile) == "" {
		return fmt.Errorf("--profile is required")
	}
	at := time.Now()
	if logAt != "" {
		parsed, err := time.ParseInLocation(dateLayout, logAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at value (expected YYYY-MM-DD): %w", err)
		}
		at = parsed
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	entry, err := logProgress(cmd.Context(), st, logProfile, logJuz, logPage, at)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged juz %d page %d for %s on %s\n",
		entry.Juz, entry.Page, strings.TrimSpace(logProfile), at.Format(dateLayout))
	return err
}

func logProgress(ctx context.Context, st *store.Store, name string, juz, page int, at time.Time) (model.ProgressLog, error) {
	profile, err := st.GetProfile(ctx, name)
	if err != nil {
		return model.ProgressLog{}, profileError(name, err)
	}
	progress := profile.Progress
	progress.CurrentJuz, progress.CurrentPage = juz, page
	if err := projection.ValidateProgress(progress); err != nil {
		return model.ProgressLog{}, err
	}
	return st.LogProgress(ctx, profile.ID, juz, page, at)
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show logged progress and finish-date drift",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyProfile, "profile", "", "profile name")
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to the last N snapshots (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "profile", &historyProfile, fileCfg.Profile.Name)
	if strings.TrimSpace(historyProfile) == "" {
		return fmt.Errorf("--profile is required")
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	h, err := report.BuildHistory(cmd.Context(), st, historyProfile, historyLast)
	if err != nil {
		return profileError(historyProfile, err)
	}
	return report.RenderHistory(cmd.OutOrStdout(), h, 0, chartHeight, false)
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfilesCmd,
	}
}

func runProfilesCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	profiles, err := st.ListProfiles(cmd.Context())
	if err != nil {
		return err
	}
	return report.RenderProfiles(cmd.OutOrStdout(), profiles)
}

func profileError(name string, err error) error {
	if errors.Is(err, store.ErrProfileNotFound) {
		return fmt.Errorf("profile %q not found (run: hifzpace init --name %s)", name, name)
	}
	return err
}
