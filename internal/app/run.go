package app

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clarvel/rotavault/internal/logging"
	"github.com/clarvel/rotavault/internal/runner"
	"github.com/clarvel/rotavault/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one backup run: transfer, link update, rotation",
	Long: `Perform one complete backup run.

The run validates its inputs, invokes the transfer tool to materialize
today's snapshot, points the latest link at it, and deletes whatever
snapshot the retention policy declares obsolete. If the transfer fails,
the link and all existing snapshots are left untouched.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.New()

	cfg, err := resolve(log)
	if err != nil {
		// The sink may not be up yet; flush the buffer to stderr so
		// the failure is not silent.
		_ = log.Activate("debug", "text", "")
		log.Error("configuration failed", "error", err)
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New(cfg.Destination.Root, cfg.Destination.LatestName, nil, log)
	r := runner.New(cfg, st, nil, log)

	if err := r.Run(ctx, time.Now()); err != nil {
		log.Error("run failed", "error", err)
		return err
	}
	log.Info("run complete")
	return nil
}
