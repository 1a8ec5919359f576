package client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

// ErrWaitStopped is returned when the backoff gives up before the task is done
var ErrWaitStopped = errors.New("stopped waiting for task")

// UntilStatus returns a predicate matching any of the statuses
func UntilStatus(statuses ...model.TaskStatus) func(*model.Task) bool {
	return func(t *model.Task) bool {
		for _, s := range statuses {
			if t.Status == s {
				return true
			}
		}
		return false
	}
}

// WaitForStatus polls the task until done returns true or the task
// reaches a terminal status, sleeping between polls per b.
// Each observed status must be reachable from the previous one.
func WaitForStatus(ctx context.Context, c Client, taskID uuid.UUID, b backoff.BackOff, done func(*model.Task) bool) (*model.Task, error) {
	b.Reset()
	prev := model.StatusUnknown
	for {
		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if prev != model.StatusUnknown {
			if err = model.ValidateTrace([]model.TaskStatus{prev, task.Status}); err != nil {
				return task, errors.Wrapf(err, "task %s", taskID)
			}
		}
		if task.Status != prev {
			logger.ContextKV(ctx, xlog.DEBUG, "task_id", taskID, "status", task.Status)
		}
		prev = task.Status

		if done(task) || task.Status.IsTerminal() {
			return task, nil
		}

		next := b.NextBackOff()
		if next == backoff.Stop {
			return task, errors.Mark(errors.Newf("task %s is %s", taskID, task.Status), ErrWaitStopped)
		}
		timer := time.NewTimer(next)
		select {
		case <-ctx.Done():
			timer.Stop()
			return task, errors.WithStack(ctx.Err())
		case <-timer.C:
		}
	}
}
