package tendem

import (
	"fmt"

	"github.com/effective-security/tendem-mcp/model"
)

// Message is a plain text tool output
type Message string

func (m Message) String() string {
	return string(m)
}

// TaskResult is the outcome of get_task_result:
// ResultContent, ResultNotCompleted or ResultNoResults.
type TaskResult interface {
	fmt.Stringer
	// IsSentinel is true when the result reports a condition instead of content
	IsSentinel() bool
}

// ResultContent is the content of the latest canvas
type ResultContent struct {
	Content string
}

func (r ResultContent) String() string { return r.Content }

// IsSentinel implements TaskResult
func (r ResultContent) IsSentinel() bool { return false }

// ResultNotCompleted is returned for a task which is not COMPLETED
type ResultNotCompleted struct {
	Status model.TaskStatus
}

func (r ResultNotCompleted) String() string {
	return fmt.Sprintf("Error: Task is not completed (status: %s)", r.Status)
}

// IsSentinel implements TaskResult
func (r ResultNotCompleted) IsSentinel() bool { return true }

// ResultNoResults is returned for a COMPLETED task without canvases
type ResultNoResults struct{}

func (ResultNoResults) String() string {
	return "Error: No results found for completed task"
}

// IsSentinel implements TaskResult
func (ResultNoResults) IsSentinel() bool { return true }
