// Package confwatch reloads the configuration file while the daemon
// runs. Reload triggers are fsnotify events on the file (debounced,
// editors write through temp-file renames) and SIGHUP; which of the
// two is active depends on the configured mode and on whether fsnotify
// actually delivers events for the config directory.
package confwatch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/clarvel/rotavault/internal/config"
	"github.com/clarvel/rotavault/internal/fsprobe"
	"github.com/clarvel/rotavault/internal/logging"
)

// Watcher reloads one config file and hands validated configs to apply.
type Watcher struct {
	path     string
	debounce time.Duration
	log      logging.Logger
	apply    func(*config.Config)
}

func New(path string, log logging.Logger, apply func(*config.Config)) *Watcher {
	return &Watcher{
		path:     path,
		debounce: 500 * time.Millisecond,
		log:      log,
		apply:    apply,
	}
}

// Start blocks until ctx is done. mode is "auto", "fsnotify" or
// "signal"; auto probes the config directory and falls back to
// SIGHUP-only when fsnotify is unreliable there.
func (w *Watcher) Start(ctx context.Context, mode string) error {
	go w.watchSignal(ctx)

	switch mode {
	case "signal":
		<-ctx.Done()
		return nil

	case "fsnotify":
		return w.watchFile(ctx)

	case "", "auto":
		res := fsprobe.Probe(filepath.Dir(w.path))
		if !res.Supported {
			w.log.Warn("config watching disabled, reload via SIGHUP only", "reason", res.Reason)
			<-ctx.Done()
			return nil
		}
		return w.watchFile(ctx)

	default:
		return fmt.Errorf("unknown reload mode %q", mode)
	}
}

func (w *Watcher) watchSignal(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			w.log.Info("SIGHUP received, reloading config")
			w.reload()
		}
	}
}

func (w *Watcher) watchFile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: renames over the file would
	// otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	base := filepath.Base(w.path)
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			// A debounced reload must not fire after shutdown.
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("config watch error", "error", err)
		}
	}
}

// reload loads, validates and applies the config. A broken file keeps
// the previous config active.
func (w *Watcher) reload() {
	cfg, warnings, err := config.Load(w.path)
	if err != nil {
		w.log.Error("config reload failed", "error", err)
		return
	}
	for _, warn := range warnings {
		w.log.Warn("config: unknown key", "detail", warn)
	}
	if err := cfg.Validate(); err != nil {
		w.log.Error("config reload rejected", "error", err)
		return
	}

	w.apply(cfg)
	w.log.Info("config reloaded", "path", w.path)
}
