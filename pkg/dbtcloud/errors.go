package dbtcloud

import "fmt"

// RunFailureError is returned when a waited run reaches a terminal status
// other than success. It carries the terminal status and the diagnostic
// message reported by the API, if any.
type RunFailureError struct {
	RunID   int64
	Status  RunStatus
	Message string
}

func (e *RunFailureError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("run %d finished with status %q: %s", e.RunID, e.Status, e.Message)
	}
	return fmt.Sprintf("run %d finished with status %q", e.RunID, e.Status)
}

// WaitTimeoutError is returned when a run does not reach a terminal status
// within WaitOptions.MaxWait.
type WaitTimeoutError struct {
	RunID      int64
	LastStatus RunStatus
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for run %d, last status %q", e.RunID, e.LastStatus)
}
