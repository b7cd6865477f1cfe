// Package fs defines the filesystem abstraction used by rotavault.
// The snapshot store goes through FS so tests can exercise failure
// paths, while production uses the OS-backed implementation.
package fs

import (
	"context"
	"os"
	"time"
)

type FS interface {
	Stat(path string) (os.FileInfo, error)
	Lstat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	MkdirAll(path string) error
	Remove(path string) error
	RemoveAll(ctx context.Context, path string) error
	Symlink(ctx context.Context, target, link string) error
	Readlink(path string) (string, error)
	Chtimes(path string, atime, mtime time.Time) error
}
