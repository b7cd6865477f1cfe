// Package transfer invokes the external synchronization tool that
// materializes snapshots. The tool is a black box: rotavault assembles
// its argument list and reads back nothing but the exit code.
package transfer

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/clarvel/rotavault/internal/logging"
)

// Runner executes one transfer invocation and returns its exit code.
// A non-nil error means the tool could not be run at all; exit status
// of a tool that did run is reported through the code.
type Runner interface {
	Run(ctx context.Context, command string, args []string) (int, error)
}

// ExecRunner shells out to the configured command.
type ExecRunner struct {
	log    logging.Logger
	stdout io.Writer
	stderr io.Writer
}

func NewExecRunner(log logging.Logger) *ExecRunner {
	return &ExecRunner{log: log, stdout: os.Stdout, stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, command string, args []string) (int, error) {
	r.log.Debug("invoking transfer", "command", command, "args", args)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Options carries everything that shapes the argument list besides the
// source and destination paths.
type Options struct {
	// Args are the base arguments, e.g. ["-a", "--delete"].
	Args []string

	Verbose     bool
	ExcludeFile string
	LogFile     string

	// LinkDest, when non-empty, is the path of the previous snapshot
	// (via the latest link) for unchanged-file detection. The caller
	// only sets it after confirming the link is real.
	LinkDest string
}

// BuildArgs assembles the full argument list for one invocation.
func BuildArgs(opts Options, src, dst string) []string {
	args := append([]string(nil), opts.Args...)

	if opts.Verbose {
		args = append(args, "--verbose")
	}
	if opts.ExcludeFile != "" {
		args = append(args, "--exclude-from="+opts.ExcludeFile)
	}
	if opts.LogFile != "" {
		args = append(args, "--log-file="+opts.LogFile)
	}
	if opts.LinkDest != "" {
		args = append(args, "--link-dest="+opts.LinkDest)
	}

	return append(args, src, dst)
}
