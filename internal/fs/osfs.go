package fs

import (
	"context"
	"os"
	"time"
)

// OSFS is the concrete implementation of FS backed by the local OS
// filesystem. Destructive operations retry on transient errors.
type OSFS struct{}

func New() *OSFS {
	return &OSFS{}
}

func (o *OSFS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (o *OSFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

func (o *OSFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) Remove(path string) error {
	return os.Remove(path)
}

func (o *OSFS) RemoveAll(ctx context.Context, path string) error {
	return retry(ctx, "remove", func() error {
		return os.RemoveAll(path)
	})
}

func (o *OSFS) Symlink(ctx context.Context, target, link string) error {
	return retry(ctx, "symlink", func() error {
		return os.Symlink(target, link)
	})
}

func (o *OSFS) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (o *OSFS) Chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
