package app

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/clarvel/rotavault/internal/config"
	"github.com/clarvel/rotavault/internal/confwatch"
	"github.com/clarvel/rotavault/internal/logging"
	"github.com/clarvel/rotavault/internal/mailbox"
	"github.com/clarvel/rotavault/internal/runner"
	"github.com/clarvel/rotavault/internal/store"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run backups continuously on the configured cron schedule",
	Long: `Run rotavault as a long-lived process.

Each firing of the configured cron schedule queues one backup run.
Runs are executed strictly one at a time; if a run is still going when
the schedule fires again, only the newest pending run is kept. The
configuration file is re-read on SIGHUP and, where the filesystem
supports it, on file change.`,
	RunE: runDaemon,
}

// job is one scheduled backup request.
type job struct {
	at time.Time
}

// daemon holds the mutable state shared between the cron trigger, the
// run loop and the config reloader.
type daemon struct {
	mu  sync.RWMutex
	cfg config.Config
	log logging.Logger
	mb  *mailbox.Mailbox[job]
}

func (d *daemon) config() config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

func (d *daemon) apply(cfg *config.Config) {
	d.mu.Lock()
	d.cfg = *cfg
	d.mu.Unlock()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log := logging.New()

	cfg, err := resolve(log)
	if err != nil {
		_ = log.Activate("debug", "text", "")
		log.Error("configuration failed", "error", err)
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := &daemon{cfg: cfg, log: log, mb: mailbox.New[job]()}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Daemon.Schedule, func() {
		d.log.Debug("schedule fired")
		d.mb.Put(job{at: time.Now()})
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()
	log.Info("daemon started", "schedule", cfg.Daemon.Schedule)

	if configPath != "" && cfg.Daemon.Reload.Enabled {
		watcher := confwatch.New(configPath, log, d.apply)
		go func() {
			if err := watcher.Start(ctx, cfg.Daemon.Reload.Mode); err != nil {
				log.Error("config watcher stopped", "error", err)
			}
		}()
	}

	d.loop(ctx)
	log.Info("daemon stopped")
	return nil
}

// loop executes queued runs one at a time until shutdown. Schedule
// changes require a restart; everything else is picked up between
// runs.
func (d *daemon) loop(ctx context.Context) {
	for {
		j, ok := d.mb.Take(ctx)
		if !ok {
			return
		}

		cfg := d.config()
		st := store.New(cfg.Destination.Root, cfg.Destination.LatestName, nil, d.log)
		r := runner.New(cfg, st, nil, d.log)

		if err := r.Run(ctx, j.at); err != nil {
			d.log.Error("scheduled run failed", "error", err)
			continue
		}
		d.log.Info("scheduled run complete")
	}
}
