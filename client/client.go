package client

import (
	"context"

	"github.com/effective-security/tendem-mcp/model"
	"github.com/google/uuid"
)

//go:generate mockgen -source=client.go -destination=../mocks/mockclient/client_mock.gen.go -package mockclient

// Client performs Tendem task operations.
//
// Every call is a single round trip and returns either a fully decoded
// entity or an error. Implementations must be safe for concurrent use.
type Client interface {
	// ListTasks returns a page of tasks; pageNumber is 0-indexed.
	ListTasks(ctx context.Context, pageNumber, pageSize int) (*model.TaskList, error)
	// CreateTask submits a new task in DRAFT status.
	CreateTask(ctx context.Context, text string) (*model.Task, error)
	// GetTask returns the current snapshot of the task.
	GetTask(ctx context.Context, taskID uuid.UUID) (*model.Task, error)
	// ApproveTask accepts the quoted price, the task must be AWAITING_APPROVAL.
	ApproveTask(ctx context.Context, taskID uuid.UUID) error
	// CancelTask cancels a non-terminal task.
	CancelTask(ctx context.Context, taskID uuid.UUID) error
	// GetTaskResults returns a page of canvases, newest first.
	GetTaskResults(ctx context.Context, taskID uuid.UUID, pageNumber, pageSize int) (*model.TaskResults, error)
	// GetArtifact returns the raw content of an artifact of the task.
	GetArtifact(ctx context.Context, taskID, artifactID uuid.UUID) ([]byte, error)
}
