package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clarvel/rotavault/internal/logging"
	"github.com/clarvel/rotavault/internal/snapshot"
	"github.com/clarvel/rotavault/internal/store"
)

var (
	planDate string

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Show the rotation decision for a run, without running it",
		Long: `Show which snapshot a run would create and which it would delete,
without transferring or deleting anything. Targets that do not exist on
disk are reported as no-ops, matching what the real run would do.`,
		RunE: runPlan,
	}
)

func init() {
	planCmd.Flags().StringVar(&planDate, "date", "", "plan for this date (YYYY-MM-DD) instead of today")
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.New()

	cfg, err := resolve(log)
	if err != nil {
		_ = log.Activate("debug", "text", "")
		log.Error("configuration failed", "error", err)
		return err
	}
	defer log.Close()

	now := time.Now()
	if planDate != "" {
		now, err = time.ParseInLocation("2006-01-02", planDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	snap, err := snapshot.New(now, cfg.Destination.NameFormat)
	if err != nil {
		return err
	}

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	st := store.New(cfg.Destination.Root, cfg.Destination.LatestName, nil, log)

	fmt.Printf("would create: %s\n", snap.Name)
	for _, del := range policy.Plan(now) {
		name, err := snapshot.Name(del.Date, cfg.Destination.NameFormat)
		if err != nil {
			return err
		}
		state := "absent, no-op"
		if st.Exists(name) {
			state = "exists, would delete"
		}
		fmt.Printf("would delete: %s (%s; %s)\n", name, del.Reason, state)
	}
	return nil
}
