// Package main provides the CLI entrypoint for hifzpace.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/hifzpace/internal/config"
	"github.com/verte-zerg/hifzpace/internal/logging"
	"github.com/verte-zerg/hifzpace/internal/projection"
	"github.com/verte-zerg/hifzpace/internal/store"
)

const defaultAddr = ":8080"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hifzpace",
		Short:         "Forecast when a Quran memorization journey will finish",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runProjectCmd,
	}
	registerProjectFlags(rootCmd)

	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newSliderCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func loadConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

// newLogger builds the command logger from [log], falling back to level.
func newLogger(fileCfg config.FileConfig, level string) (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	if level != "" {
		cfg.Level = level
	}
	if fileCfg.Log.Level != nil {
		cfg.Level = *fileCfg.Log.Level
	}
	if fileCfg.Log.Format != nil {
		cfg.Format = *fileCfg.Log.Format
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush; stderr often rejects sync.
		_ = err
	}
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if st == nil {
		return
	}
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hifzpace configuration
# Uncomment a value to enable it. CLI flags override config values.

[profile]
# name = "yusuf"              # Saved profile used when --profile is not given
# script-lines = %d           # Lines per page: 13, 15 or 16
# juz = 1                     # Current juz (1-30)
# page = 1                    # Current page within the juz (1-20)
# lines-per-day = %.0f         # New lines per study day
# active-days = %d             # Study days per week (1-7)

[projection]
# use-holidays = true         # Skip holiday periods
# use-phases = false          # Apply velocity phases
# use-sick-days = true        # Derate pace by expected sick days
# retention-buffer = 0        # Percent of time kept for review (%.0f is typical)
# sick-days-per-year = %.0f    # Expected sick days per year
# horizon-years = %d          # Give up after this many years

# Holidays replace the built-in school breaks when any are listed.
# [[holidays]]
# name = "Summer Break"
# start = "07-15"             # MM-DD
# end = "08-15"               # MM-DD, may wrap past December
# recurring = true            # false pins the period to year
# year = 2026

# Phases replace the built-in warm-up/flow/acceleration curve.
# [[phases]]
# name = "Warm-up"
# percent = 10                # or juz = 3
# multiplier = 0.7            # or lines-per-day = 7

[log]
# level = "warn"              # debug, info, warn, error
# format = "console"          # console or json

[server]
# addr = %q
`,
		projection.DefaultScriptLinesPerPage,
		projection.DefaultLinesPerDay,
		projection.DefaultActiveDaysPerWeek,
		projection.DefaultRetentionBufferPercent,
		projection.DefaultSickDaysPerYear,
		defaultHorizonYears,
		defaultAddr,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
