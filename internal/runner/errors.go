package runner

import "fmt"

// Failure kinds. Validation and transfer failures both abort the run
// before any rotation, but operators want to tell them apart in logs.

// ValidationError means a precondition of the run did not hold; the
// transfer was never attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// TransferError means the external transfer tool ran and failed, or
// could not be started. The snapshot directory may be partial; it is
// left as-is and the run performs no link update and no rotation.
type TransferError struct {
	ExitCode int
	Err      error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer: %v", e.Err)
	}
	return fmt.Sprintf("transfer: exit code %d", e.ExitCode)
}

func (e *TransferError) Unwrap() error { return e.Err }
