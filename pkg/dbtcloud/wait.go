package dbtcloud

import (
	"context"
	"time"

	"github.com/pipelinehq/dbtcloud-go/internal/logger"
)

// sleepWithContext blocks for d or until ctx is done, whichever comes
// first, without leaving the timer running.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WaitForRun polls the status of the given run at a fixed interval until
// it reaches a terminal status.
//
// On success the final run record is returned. A terminal error or
// cancelled status yields a *RunFailureError. If opts.MaxWait is set and
// elapses first, a *WaitTimeoutError is returned. Cancellation of ctx is
// observed at every iteration, including mid-sleep.
func (c *APIClient) WaitForRun(ctx context.Context, runID int64, opts WaitOptions) (*Run, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var deadline time.Time
	if opts.MaxWait > 0 {
		deadline = time.Now().Add(opts.MaxWait)
	}

	var lastStatus RunStatus
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		run, err := c.GetRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		lastStatus = run.Status

		if run.Status.Terminal() {
			if run.Status != RunStatusSuccess {
				return nil, &RunFailureError{
					RunID:   runID,
					Status:  run.Status,
					Message: run.StatusMessage,
				}
			}
			return run, nil
		}

		logger.Debugf("run %d not finished yet, status %q, next check in %s", runID, run.Status, interval)

		if !deadline.IsZero() && time.Now().Add(interval).After(deadline) {
			return nil, &WaitTimeoutError{RunID: runID, LastStatus: lastStatus}
		}

		if err := c.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}
