// Package runner sequences one backup run: validate, transfer, link,
// rotate. A failure anywhere stops the sequence; rotation never runs
// against a backup that did not complete, so a broken transfer can
// never cost the last good snapshot.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/clarvel/rotavault/internal/config"
	"github.com/clarvel/rotavault/internal/logging"
	"github.com/clarvel/rotavault/internal/snapshot"
	"github.com/clarvel/rotavault/internal/store"
	"github.com/clarvel/rotavault/internal/transfer"
)

type Runner struct {
	cfg   config.Config
	store *store.Store
	trans transfer.Runner
	log   logging.Logger
}

// New wires a runner. A nil transfer runner selects the exec-backed
// one.
func New(cfg config.Config, st *store.Store, trans transfer.Runner, log logging.Logger) *Runner {
	if trans == nil {
		trans = transfer.NewExecRunner(log)
	}
	return &Runner{cfg: cfg, store: st, trans: trans, log: log}
}

// Run performs one complete backup dated now.
func (r *Runner) Run(ctx context.Context, now time.Time) error {
	if r.cfg.LockFile != "" {
		release, err := acquireLock(r.cfg.LockFile, r.log)
		if err != nil {
			return err
		}
		defer release()
	}

	snap, err := snapshot.New(now, r.cfg.Destination.NameFormat)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	r.log.Info("starting run", "snapshot", snap.Name)

	linkDest, err := r.validate(snap.Name)
	if err != nil {
		return err
	}

	if err := r.transfer(ctx, snap.Name, linkDest); err != nil {
		return err
	}

	// The snapshot's age is measured from completion, not from
	// whenever the transfer tool last wrote into it.
	if err := r.store.Touch(snap.Name, now); err != nil {
		r.log.Warn("could not normalize snapshot mtime", "error", err)
	}

	if err := r.store.LinkLatest(ctx, snap.Name); err != nil {
		return err
	}

	return r.rotate(ctx, now, snap.Name)
}

// validate checks every precondition of the run and returns the
// link-dest path to hand to the transfer tool, or "" when there is no
// usable previous snapshot.
func (r *Runner) validate(name string) (string, error) {
	if err := r.requireDir(r.cfg.Source, "source"); err != nil {
		return "", err
	}
	if err := r.requireDir(r.cfg.Destination.Root, "destination root"); err != nil {
		return "", err
	}

	if r.store.Exists(name) {
		return "", &ValidationError{Reason: fmt.Sprintf("snapshot %s already exists", name)}
	}

	if ex := r.cfg.Transfer.ExcludeFile; ex != "" {
		if _, err := os.Stat(ex); err != nil {
			return "", &ValidationError{Reason: fmt.Sprintf("exclude file %s: %v", ex, err)}
		}
	}

	switch r.store.RefState() {
	case store.RefWrongKind:
		return "", &ValidationError{
			Reason: fmt.Sprintf("latest path %s exists and is not a symlink", r.store.LatestPath()),
		}
	case store.RefAbsent:
		r.log.Warn("no previous snapshot, transferring without link-dest")
		return "", nil
	}

	target, err := r.store.LatestTarget()
	if err != nil {
		r.log.Warn("latest link unreadable, transferring without link-dest", "error", err)
		return "", nil
	}
	r.log.Debug("using previous snapshot as reference", "target", target)
	return r.store.LatestPath(), nil
}

func (r *Runner) transfer(ctx context.Context, name, linkDest string) error {
	opts := transfer.Options{
		Args:        r.cfg.Transfer.Args,
		Verbose:     r.cfg.Transfer.Verbose,
		ExcludeFile: r.cfg.Transfer.ExcludeFile,
		LogFile:     r.cfg.Transfer.LogFile,
		LinkDest:    linkDest,
	}

	// Trailing slash: copy the source's contents, not the source
	// directory itself, into the snapshot.
	src := r.cfg.Source
	if !strings.HasSuffix(src, "/") {
		src += "/"
	}

	args := transfer.BuildArgs(opts, src, r.store.Path(name))

	code, err := r.trans.Run(ctx, r.cfg.Transfer.Command, args)
	if err != nil {
		return &TransferError{ExitCode: -1, Err: err}
	}
	if code != 0 {
		return &TransferError{ExitCode: code}
	}
	r.log.Info("transfer complete", "snapshot", name)
	return nil
}

// rotate asks the planner which snapshots are obsolete and deletes
// each one that actually exists. The snapshot this run just made is
// never a valid target: a policy with no daily tier can plan a
// deletion dated today on non-boundary days, and honoring it would
// destroy the backup the run exists to produce.
func (r *Runner) rotate(ctx context.Context, now time.Time, created string) error {
	policy, err := r.cfg.Policy()
	if err != nil {
		return err
	}

	for _, del := range policy.Plan(now) {
		name, err := snapshot.Name(del.Date, r.cfg.Destination.NameFormat)
		if err != nil {
			return err
		}
		if name == created {
			r.log.Warn("rotation target is the snapshot just created, skipping", "name", name)
			continue
		}
		r.log.Debug("rotation target", "name", name, "reason", del.Reason)
		if err := r.store.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) requireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("%s %s: %v", what, path, err)}
	}
	if !info.IsDir() {
		return &ValidationError{Reason: fmt.Sprintf("%s %s is not a directory", what, path)}
	}
	return nil
}
