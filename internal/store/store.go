// Package store manages the on-disk collection of dated snapshot
// directories plus the "latest" reference link beside them.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/clarvel/rotavault/internal/fs"
	"github.com/clarvel/rotavault/internal/logging"
)

// RefState classifies what currently occupies the latest-link path.
type RefState int

const (
	// RefAbsent: nothing at the path. Normal on a first run.
	RefAbsent RefState = iota
	// RefLink: a symbolic link, as expected.
	RefLink
	// RefWrongKind: a plain file or directory squats on the path. The
	// store refuses to touch it; this is a configuration error.
	RefWrongKind
)

func (s RefState) String() string {
	switch s {
	case RefAbsent:
		return "absent"
	case RefLink:
		return "link"
	default:
		return "wrong kind"
	}
}

// Store is the filesystem-backed snapshot collection rooted at one
// destination directory.
type Store struct {
	root   string
	latest string
	fs     fs.FS
	log    logging.Logger
}

// New creates a store. latestName is the reference link's file name
// inside root. A nil filesystem selects the OS-backed one.
func New(root, latestName string, filesystem fs.FS, log logging.Logger) *Store {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Store{
		root:   root,
		latest: latestName,
		fs:     filesystem,
		log:    log,
	}
}

// Root returns the destination root directory.
func (s *Store) Root() string { return s.root }

// Path returns the absolute path of a snapshot name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.root, name)
}

// LatestPath returns the absolute path of the latest reference link.
func (s *Store) LatestPath() string {
	return filepath.Join(s.root, s.latest)
}

// Exists reports whether a snapshot directory with this name is
// present.
func (s *Store) Exists(name string) bool {
	_, err := s.fs.Stat(s.Path(name))
	return err == nil
}

// Delete removes a snapshot recursively. Deleting a name that does not
// exist is a no-op, never an error: retention recomputes historical
// names and most of them were already deleted by earlier runs.
func (s *Store) Delete(ctx context.Context, name string) error {
	path := s.Path(name)
	if _, err := s.fs.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			s.log.Debug("snapshot already absent", "name", name)
			return nil
		}
		return fmt.Errorf("checking snapshot %s: %w", name, err)
	}
	if err := s.fs.RemoveAll(ctx, path); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", name, err)
	}
	s.log.Info("snapshot deleted", "name", name)
	return nil
}

// RefState classifies the latest-link path.
func (s *Store) RefState() RefState {
	info, err := s.fs.Lstat(s.LatestPath())
	if err != nil {
		return RefAbsent
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return RefLink
	}
	return RefWrongKind
}

// LatestTarget returns the snapshot name the latest link points at.
func (s *Store) LatestTarget() (string, error) {
	target, err := s.fs.Readlink(s.LatestPath())
	if err != nil {
		return "", fmt.Errorf("reading latest link: %w", err)
	}
	return target, nil
}

// LinkLatest re-points the latest reference at name. An existing link
// is removed first; anything else occupying the path aborts, since
// deleting an operator's stray file or directory is not this tool's
// call to make.
func (s *Store) LinkLatest(ctx context.Context, name string) error {
	link := s.LatestPath()

	switch s.RefState() {
	case RefWrongKind:
		return fmt.Errorf("latest path %s exists and is not a symlink", link)
	case RefLink:
		if err := s.fs.Remove(link); err != nil {
			return fmt.Errorf("removing old latest link: %w", err)
		}
	}

	// Relative target keeps the link valid when the destination root
	// is remounted elsewhere.
	if err := s.fs.Symlink(ctx, name, link); err != nil {
		return fmt.Errorf("linking latest to %s: %w", name, err)
	}
	s.log.Info("latest link updated", "target", name)
	return nil
}

// Touch normalizes a snapshot directory's modification time to the
// run's completion moment, so age arithmetic in later runs is measured
// from when the backup finished rather than whatever the transfer tool
// left behind.
func (s *Store) Touch(name string, now time.Time) error {
	if err := s.fs.Chtimes(s.Path(name), now, now); err != nil {
		return fmt.Errorf("touching snapshot %s: %w", name, err)
	}
	return nil
}

// Info describes one stored snapshot.
type Info struct {
	Name    string
	ModTime time.Time
}

// List returns the stored snapshot directories sorted by name. The
// latest link and hidden entries are skipped.
func (s *Store) List() ([]Info, error) {
	entries, err := s.fs.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading destination root: %w", err)
	}

	var infos []Info
	for _, ent := range entries {
		name := ent.Name()
		if !ent.IsDir() || name == s.latest || name[0] == '.' {
			continue
		}
		fi, err := ent.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{Name: name, ModTime: fi.ModTime()})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
