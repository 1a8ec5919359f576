package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TaskStatus is the lifecycle state of a task as reported by Tendem.
//
// The zero value is StatusUnknown and never appears in a decoded task.
type TaskStatus uint8

const (
	StatusUnknown TaskStatus = iota
	StatusDraft
	StatusAwaitingApproval
	StatusProcessing
	StatusCompleted
	StatusCancelled
	StatusFailed
)

// ErrInvalidTransition is returned when an observed status change
// is not allowed by the task lifecycle.
var ErrInvalidTransition = errors.New("invalid task status transition")

// Statuses lists all valid statuses in lifecycle order.
var Statuses = []TaskStatus{
	StatusDraft,
	StatusAwaitingApproval,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
	StatusFailed,
}

var statusNames = map[TaskStatus]string{
	StatusDraft:            "DRAFT",
	StatusAwaitingApproval: "AWAITING_APPROVAL",
	StatusProcessing:       "PROCESSING",
	StatusCompleted:        "COMPLETED",
	StatusCancelled:        "CANCELLED",
	StatusFailed:           "FAILED",
}

// String returns the wire name of the status.
func (s TaskStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseTaskStatus returns the status for the wire name, case-insensitive.
func ParseTaskStatus(name string) (TaskStatus, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range statusNames {
		if n == upper {
			return s, nil
		}
	}
	return StatusUnknown, errors.Newf("unknown task status: %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, errors.Newf("invalid task status: %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *TaskStatus) UnmarshalText(text []byte) error {
	v, err := ParseTaskStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusAwaitingApproval, StatusProcessing,
		StatusCompleted, StatusCancelled, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusFailed:
		return true
	case StatusDraft, StatusAwaitingApproval, StatusProcessing:
		return false
	default:
		return false
	}
}

// CanApprove reports whether approve_task is legal in this status.
func (s TaskStatus) CanApprove() bool {
	return s == StatusAwaitingApproval
}

// CanCancel reports whether cancel_task is legal in this status.
// Cancelling after approval does not refund the cost.
func (s TaskStatus) CanCancel() bool {
	return s.IsValid() && !s.IsTerminal()
}

// CanTransition reports whether the service may move a task
// directly from one status to another.
func CanTransition(from, to TaskStatus) bool {
	if !to.IsValid() {
		return false
	}
	switch from {
	case StatusDraft:
		return to == StatusAwaitingApproval || to == StatusCancelled || to == StatusFailed
	case StatusAwaitingApproval:
		return to == StatusProcessing || to == StatusCancelled || to == StatusFailed
	case StatusProcessing:
		return to == StatusCompleted || to == StatusCancelled || to == StatusFailed
	case StatusCompleted, StatusCancelled, StatusFailed:
		return false
	default:
		return false
	}
}

// CanReach reports whether to is reachable from from through zero or more
// legal transitions. Polling may miss intermediate states, so observers
// should check reachability rather than direct transitions.
func CanReach(from, to TaskStatus) bool {
	if from == to {
		return from.IsValid()
	}
	seen := map[TaskStatus]bool{from: true}
	queue := []TaskStatus{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range Statuses {
			if seen[next] || !CanTransition(cur, next) {
				continue
			}
			if next == to {
				return true
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return false
}

// ValidateTrace checks a sequence of statuses observed by polling one task.
// Repeated observations of the same status are fine; any change must be
// reachable, and nothing may follow a terminal status.
func ValidateTrace(trace []TaskStatus) error {
	for i, s := range trace {
		if !s.IsValid() {
			return errors.Wrapf(ErrInvalidTransition, "observation %d: invalid status %d", i, uint8(s))
		}
		if i == 0 {
			continue
		}
		prev := trace[i-1]
		if prev == s {
			continue
		}
		if prev.IsTerminal() {
			return errors.Wrapf(ErrInvalidTransition, "observation %d: %s is terminal, got %s", i, prev, s)
		}
		if !CanReach(prev, s) {
			return errors.Wrapf(ErrInvalidTransition, "observation %d: %s -> %s", i, prev, s)
		}
	}
	return nil
}
