//go:build unix

package runner

import (
	"errors"
	"syscall"
)

// pidAlive reports whether a process with this pid exists. EPERM means
// the process exists but belongs to someone else, which still counts.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
