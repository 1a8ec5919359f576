package tendem

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/client"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/effective-security/tendem-mcp/pkg/metricskey"
	"github.com/effective-security/tendem-mcp/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tendem-mcp", "tendem")

// Toolset exposes the Tendem task lifecycle as MCP tools.
//
// Arguments are validated before the client is requested from the provider,
// so a call with invalid arguments never needs an API key.
type Toolset struct {
	provider *ClientProvider
	callback tools.Callback
	tools    []tools.IMCPTool
}

// Option configures Toolset
type Option func(*Toolset)

// WithCallback sets the callback of tool events
func WithCallback(cb tools.Callback) Option {
	return func(s *Toolset) {
		s.callback = cb
	}
}

// New returns the toolset using clients from provider
func New(provider *ClientProvider, opts ...Option) (*Toolset, error) {
	s := &Toolset{provider: provider}
	for _, opt := range opts {
		opt(s)
	}

	var errs error
	add := func(t tools.IMCPTool, err error) {
		if err != nil {
			errs = errors.CombineErrors(errs, err)
			return
		}
		s.tools = append(s.tools, t)
	}

	add(newTool(s, ToolListTasks, listTasksDescription, s.ListTasks))
	add(newTool(s, ToolCreateTask, createTaskDescription, s.CreateTask))
	add(newTool(s, ToolGetTask, getTaskDescription, s.GetTask))
	add(newTool(s, ToolApproveTask, approveTaskDescription, s.ApproveTask))
	add(newTool(s, ToolCancelTask, cancelTaskDescription, s.CancelTask))
	add(newTool(s, ToolGetTaskResult, getTaskResultDescription, s.getTaskResultText))
	add(newTool(s, ToolGetAllTaskResults, getAllTaskResultsDescription, s.GetAllTaskResults))
	add(newTool(s, ToolDownloadArtifact, downloadArtifactDescription, s.DownloadArtifact))

	if errs != nil {
		return nil, errs
	}
	return s, nil
}

func newTool[I any, O any](s *Toolset, name, description string, run tools.RunFunc[I, O]) (tools.IMCPTool, error) {
	t, err := tools.NewFuncTool(name, description, run)
	if err != nil {
		return nil, err
	}
	if s.callback != nil {
		t.WithCallback(s.callback)
	}
	return t, nil
}

// Tools returns the tools in registration order
func (s *Toolset) Tools() []tools.IMCPTool {
	return s.tools
}

// ITools returns the tools as a list of ITool
func (s *Toolset) ITools() []tools.ITool {
	list := make([]tools.ITool, len(s.tools))
	for i, t := range s.tools {
		list[i] = t
	}
	return list
}

// Tool returns the tool by name, or nil if not found
func (s *Toolset) Tool(name string) tools.IMCPTool {
	for _, t := range s.tools {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// Register registers all tools with the MCP server
func (s *Toolset) Register(r tools.McpServerRegistrator) error {
	for _, t := range s.tools {
		if err := t.RegisterMCP(r); err != nil {
			return err
		}
		logger.KV(xlog.DEBUG, "status", "registered", "tool", t.Name())
	}
	return nil
}

// ListTasks returns a page of tasks
func (s *Toolset) ListTasks(ctx context.Context, args *ListTasksArgs) (*model.TaskList, error) {
	if err := client.Validate(args); err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}
	return c.ListTasks(ctx, args.PageNumber, args.PageSize)
}

// CreateTask creates a task in DRAFT status
func (s *Toolset) CreateTask(ctx context.Context, args *CreateTaskArgs) (*model.Task, error) {
	if err := client.Validate(args); err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}
	task, err := c.CreateTask(ctx, args.Text)
	if err != nil {
		return nil, err
	}
	logger.ContextKV(ctx, xlog.INFO, "status", "task_created", "task_id", task.TaskID)
	return task, nil
}

// GetTask returns the current task snapshot
func (s *Toolset) GetTask(ctx context.Context, args *TaskArgs) (*model.Task, error) {
	id, err := client.ParseID("task_id", args.TaskID)
	if err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}
	return c.GetTask(ctx, id)
}

// ApproveTask approves the quoted price
func (s *Toolset) ApproveTask(ctx context.Context, args *TaskArgs) (*Message, error) {
	id, err := client.ParseID("task_id", args.TaskID)
	if err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}
	if err = c.ApproveTask(ctx, id); err != nil {
		return nil, err
	}
	logger.ContextKV(ctx, xlog.INFO, "status", "task_approved", "task_id", id)
	msg := Message(fmt.Sprintf("Task %s approved", id))
	return &msg, nil
}

// CancelTask cancels the task
func (s *Toolset) CancelTask(ctx context.Context, args *TaskArgs) (*Message, error) {
	id, err := client.ParseID("task_id", args.TaskID)
	if err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}
	if err = c.CancelTask(ctx, id); err != nil {
		return nil, err
	}
	logger.ContextKV(ctx, xlog.INFO, "status", "task_cancelled", "task_id", id)
	msg := Message(fmt.Sprintf("Task %s cancelled. %s", id, NoRefundNote))
	return &msg, nil
}

// GetTaskResult returns the latest canvas content of a COMPLETED task,
// or a sentinel result when there is none.
func (s *Toolset) GetTaskResult(ctx context.Context, args *TaskArgs) (TaskResult, error) {
	id, err := client.ParseID("task_id", args.TaskID)
	if err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}

	task, err := c.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != model.StatusCompleted {
		return ResultNotCompleted{Status: task.Status}, nil
	}

	res, err := c.GetTaskResults(ctx, id, 0, 1)
	if err != nil {
		return nil, err
	}
	latest := res.Latest()
	if latest == nil {
		return ResultNoResults{}, nil
	}
	return ResultContent{Content: latest.Content}, nil
}

func (s *Toolset) getTaskResultText(ctx context.Context, args *TaskArgs) (*Message, error) {
	res, err := s.GetTaskResult(ctx, args)
	if err != nil {
		return nil, err
	}
	if res.IsSentinel() {
		metricskey.StatsToolCallsSentinel.IncrCounter(1, ToolGetTaskResult)
		logger.ContextKV(ctx, xlog.DEBUG, "task_id", args.TaskID, "sentinel", res.String())
	}
	msg := Message(res.String())
	return &msg, nil
}

// GetAllTaskResults returns a page of canvas results, newest first
func (s *Toolset) GetAllTaskResults(ctx context.Context, args *TaskResultsArgs) (*model.AllTaskResults, error) {
	id, err := client.ParseID("task_id", args.TaskID)
	if err != nil {
		return nil, err
	}
	if err = client.Validate(args); err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}
	res, err := c.GetTaskResults(ctx, id, args.PageNumber, args.PageSize)
	if err != nil {
		return nil, err
	}
	return model.NewAllTaskResults(res), nil
}

// DownloadArtifact saves the artifact to the local path
func (s *Toolset) DownloadArtifact(ctx context.Context, args *DownloadArtifactArgs) (*Message, error) {
	taskID, err := client.ParseID("task_id", args.TaskID)
	if err != nil {
		return nil, err
	}
	artifactID, err := client.ParseID("artifact_id", args.ArtifactID)
	if err != nil {
		return nil, err
	}
	if err = client.Validate(args); err != nil {
		return nil, err
	}
	c, err := s.provider.Client()
	if err != nil {
		return nil, err
	}

	data, err := c.GetArtifact(ctx, taskID, artifactID)
	if err != nil {
		return nil, err
	}
	path, err := saveArtifact(args.Path, data)
	if err != nil {
		return nil, err
	}
	logger.ContextKV(ctx, xlog.INFO, "status", "artifact_saved", "artifact_id", artifactID, "path", path, "size", len(data))
	msg := Message(fmt.Sprintf("Artifact saved to %s (%d bytes)", path, len(data)))
	return &msg, nil
}
