package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clarvel/rotavault/internal/logging"
	"github.com/clarvel/rotavault/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	log := logging.New()

	cfg, err := resolve(log)
	if err != nil {
		_ = log.Activate("debug", "text", "")
		log.Error("configuration failed", "error", err)
		return err
	}
	defer log.Close()

	st := store.New(cfg.Destination.Root, cfg.Destination.LatestName, nil, log)

	snapshots, err := st.List()
	if err != nil {
		return err
	}

	latest := ""
	if st.RefState() == store.RefLink {
		latest, _ = st.LatestTarget()
	}

	for _, info := range snapshots {
		marker := ""
		if info.Name == latest {
			marker = "  <- latest"
		}
		fmt.Printf("%s  %s%s\n", info.Name, info.ModTime.Format("2006-01-02 15:04:05"), marker)
	}
	if len(snapshots) == 0 {
		fmt.Println("no snapshots")
	}
	return nil
}
