//go:build windows

package runner

import "os"

// pidAlive reports whether a process with this pid exists. Windows has
// no signal 0, so FindProcess failing is the best available check.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}
