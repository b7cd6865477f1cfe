// Package app defines the rotavault command-line interface.
package app

import (
	"github.com/spf13/cobra"

	"github.com/clarvel/rotavault/internal/config"
	"github.com/clarvel/rotavault/internal/logging"
)

var (
	configPath string

	flagSource     string
	flagRoot       string
	flagNameFormat string
	flagLatestName string

	flagTransferCmd  string
	flagTransferArgs []string
	flagExcludeFrom  string
	flagTransferLog  string
	flagVerbose      bool

	flagMode      string
	flagDaily     int
	flagWeekly    int
	flagMonthly   int
	flagWeekStart string

	flagLogLevel  string
	flagLogFormat string
	flagLogFile   string

	flagLockFile string

	RootCmd = &cobra.Command{
		Use:   "rotavault",
		Short: "Incremental backups with calendar-based snapshot rotation",
		Long: `rotavault makes one dated snapshot per run by delegating the copy to an
external synchronization tool (rsync by default), keeps a "latest"
symlink pointing at the newest snapshot, and rotates old snapshots with
daily/weekly/monthly retention tiers.

Configuration comes from a YAML file; command-line flags override it.`,
		Example: `  # One backup run
  rotavault run --config /etc/rotavault.yaml

  # Show what today's run would delete, without touching anything
  rotavault plan --config /etc/rotavault.yaml

  # Long-running mode, driven by the configured cron schedule
  rotavault daemon --config /etc/rotavault.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")

	pf.StringVar(&flagSource, "source", "", "source directory to back up")
	pf.StringVar(&flagRoot, "dest", "", "destination root holding the snapshots")
	pf.StringVar(&flagNameFormat, "name-format", "", "strftime template for snapshot names (default %Y-%m-%d)")
	pf.StringVar(&flagLatestName, "latest-name", "", "name of the latest reference link (default latest)")

	pf.StringVar(&flagTransferCmd, "transfer-command", "", "transfer tool to invoke (default rsync)")
	pf.StringSliceVar(&flagTransferArgs, "transfer-arg", nil, "base transfer argument, repeatable (replaces the configured list)")
	pf.StringVar(&flagExcludeFrom, "exclude-from", "", "exclude file passed to the transfer tool")
	pf.StringVar(&flagTransferLog, "transfer-log", "", "log file passed to the transfer tool")
	pf.BoolVar(&flagVerbose, "verbose", false, "pass --verbose to the transfer tool")

	pf.StringVar(&flagMode, "mode", "", "rotation mode: depth or keep")
	pf.IntVar(&flagDaily, "daily", 0, "daily retention setting")
	pf.IntVar(&flagWeekly, "weekly", 0, "weekly retention setting")
	pf.IntVar(&flagMonthly, "monthly", 0, "monthly retention setting")
	pf.StringVar(&flagWeekStart, "week-start", "", "weekday starting a week in depth mode (default monday)")

	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "", "log format: text or json")
	pf.StringVar(&flagLogFile, "log-file", "", "write logs to this file instead of stderr")

	pf.StringVar(&flagLockFile, "lock-file", "", "lock file serializing concurrent runs")

	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(daemonCmd)
	RootCmd.AddCommand(planCmd)
	RootCmd.AddCommand(listCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// resolve builds the immutable run configuration (defaults, then file,
// then flags) and activates the two-phase logger against it. Messages
// logged before this point are flushed to the resolved sink.
func resolve(log *logging.Log) (config.Config, error) {
	cfg := config.Default()

	if configPath != "" {
		loaded, warnings, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		for _, warn := range warnings {
			log.Warn("config: unknown key", "detail", warn)
		}
		cfg = *loaded
	}

	cfg = cfg.With(overrides())

	if err := log.Activate(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File); err != nil {
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// overrides collects only the flags the user actually set, so a
// flag's zero value never clobbers a file-sourced setting.
func overrides() config.Overrides {
	flags := RootCmd.PersistentFlags()

	o := config.Overrides{
		Source:          flagSource,
		Root:            flagRoot,
		NameFormat:      flagNameFormat,
		LatestName:      flagLatestName,
		TransferCommand: flagTransferCmd,
		ExcludeFile:     flagExcludeFrom,
		TransferLog:     flagTransferLog,
		Mode:            flagMode,
		WeekStart:       flagWeekStart,
		LogLevel:        flagLogLevel,
		LogFormat:       flagLogFormat,
		LogFile:         flagLogFile,
		LockFile:        flagLockFile,
	}

	if flags.Changed("transfer-arg") {
		o.TransferArgs = flagTransferArgs
	}
	if flags.Changed("verbose") {
		o.Verbose = &flagVerbose
	}
	if flags.Changed("daily") {
		o.Daily = &flagDaily
	}
	if flags.Changed("weekly") {
		o.Weekly = &flagWeekly
	}
	if flags.Changed("monthly") {
		o.Monthly = &flagMonthly
	}
	return o
}
