package runner

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/clarvel/rotavault/internal/logging"
)

// acquireLock takes a pidfile-style exclusive lock so overlapping
// scheduled invocations against the same destination cannot race on
// directory creation and rotation deletion. A lock left behind by a
// dead process is reclaimed.
func acquireLock(path string, log logging.Logger) (release func(), err error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { _ = os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}

		pid, readErr := readLockPid(path)
		if readErr == nil && pidAlive(pid) {
			return nil, &ValidationError{Reason: fmt.Sprintf("another run holds the lock (pid %d)", pid)}
		}

		// Stale lock: owner is gone, remove and try once more.
		log.Warn("removing stale lock file", "path", path, "pid", pid)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("removing stale lock file: %w", rmErr)
		}
	}
	return nil, &ValidationError{Reason: "could not acquire lock: " + path}
}

func readLockPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
