package model

import "github.com/google/uuid"

// Task is a unit of work submitted to a human expert.
type Task struct {
	TaskID    uuid.UUID  `json:"task_id"`
	Name      string     `json:"name"`
	Status    TaskStatus `json:"status"`
	CreatedAt Time       `json:"created_at"`
	// ApprovalRequestInfo is set once a price has been quoted,
	// and stays as a record after the task moves on.
	ApprovalRequestInfo *ApprovalRequestInfo `json:"approval_request_info,omitempty"`
}

// ApprovalRequestInfo is the price quoted for a task.
type ApprovalRequestInfo struct {
	PriceUSD  Price           `json:"price_usd"`
	CreatedAt Time            `json:"created_at"`
}

// TaskList is a page of tasks.
type TaskList struct {
	Tasks []*Task `json:"tasks"`
	Pagination
}

// Canvas is a versioned result or draft of a task.
type Canvas struct {
	CanvasID  uuid.UUID `json:"canvas_id"`
	VersionID uuid.UUID `json:"version_id"`
	CreatedAt Time      `json:"created_at"`
	// Content may reference artifacts as aba://<artifact_id>
	Content string `json:"content"`
}

// TaskResults is a page of canvases, newest first.
type TaskResults struct {
	Canvases []*Canvas `json:"canvases"`
	Pagination
}

// CanvasResult is the caller-facing view of a canvas, without internal ids.
type CanvasResult struct {
	CreatedAt   Time        `json:"created_at"`
	Content     string      `json:"content"`
	ArtifactIDs []uuid.UUID `json:"artifact_ids,omitempty"`
}

// AllTaskResults is a page of caller-facing canvas results.
type AllTaskResults struct {
	Results []*CanvasResult `json:"results"`
	Pagination
}

// NewCanvasResult returns the caller-facing view of c
func NewCanvasResult(c *Canvas) *CanvasResult {
	return &CanvasResult{
		CreatedAt:   c.CreatedAt,
		Content:     c.Content,
		ArtifactIDs: ArtifactRefs(c.Content),
	}
}

// NewAllTaskResults converts a page of canvases to the caller-facing view.
func NewAllTaskResults(r *TaskResults) *AllTaskResults {
	res := &AllTaskResults{
		Results:    make([]*CanvasResult, 0, len(r.Canvases)),
		Pagination: r.Pagination,
	}
	for _, c := range r.Canvases {
		res.Results = append(res.Results, NewCanvasResult(c))
	}
	return res
}

// Latest returns the newest canvas, or nil if there are none.
func (r *TaskResults) Latest() *Canvas {
	if r == nil || len(r.Canvases) == 0 {
		return nil
	}
	return r.Canvases[0]
}
