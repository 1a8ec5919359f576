package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/client"
	"github.com/effective-security/tendem-mcp/internal/fakeservice"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "cli-key"

func newFake(t *testing.T) (*fakeservice.Service, string) {
	t.Helper()
	svc := fakeservice.New(testKey)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	t.Setenv("TENDEM_API_KEY", testKey)
	return svc, srv.URL
}

func execute(root *cobra.Command, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestToolsCmd(t *testing.T) {
	t.Setenv("TENDEM_API_KEY", "")
	out, _, err := execute(NewRootCmd("test"), "tools")
	require.NoError(t, err)

	var desc struct {
		Tools []struct {
			Name        string
			Description string
			Parameters  json.RawMessage
			Example     string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	require.Len(t, desc.Tools, 8)
	assert.Equal(t, "list_tasks", desc.Tools[0].Name)
	assert.Empty(t, desc.Tools[0].Parameters)

	out, _, err = execute(NewRootCmd("test"), "tools", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"page_size"`)

	out, _, err = execute(NewRootCmd("test"), "tools", "--examples")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &desc))
	for _, tool := range desc.Tools {
		assert.NotEmpty(t, tool.Example, tool.Name)
	}

	_, _, err = execute(NewRootCmd("test"), "tools", "--examples", "--schema")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(NewRootCmd("1.2.3"), "--version")
	require.NoError(t, err)
	assert.Equal(t, "tendem-mcp version 1.2.3\n", out)
	assert.Equal(t, "1.2.3", client.Version)
}

func TestCallCmd(t *testing.T) {
	svc, url := newFake(t)
	id := svc.AddTask("Translate a press release")
	require.NoError(t, svc.Quote(id, decimal.RequireFromString("9.99")))

	out, _, err := execute(NewRootCmd("test"), "--base-url", url,
		"call", "get_task", `{"task_id":"`+id.String()+`"}`)
	require.NoError(t, err)
	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, id, task.TaskID)
	assert.Equal(t, model.StatusAwaitingApproval, task.Status)

	out, _, err = execute(NewRootCmd("test"), "--base-url", url,
		"call", "list_tasks", `{"page_number":0,"page_size":10}`, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 1\n")
	assert.Contains(t, out, "status: AWAITING_APPROVAL\n")

	out, _, err = execute(NewRootCmd("test"), "--base-url", url,
		"call", "list_tasks", `{"page_number":0,"page_size":10}`, "-o", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "total = 1\n")

	out, errOut, err := execute(NewRootCmd("test"), "--base-url", url,
		"call", "approve_task", `{"task_id":"`+id.String()+`"}`, "-o", "text", "-v")
	require.NoError(t, err)
	assert.Equal(t, "Task "+id.String()+" approved\n", out)
	assert.Contains(t, errOut, "Tool Start: approve_task\n")
	assert.Contains(t, errOut, "Tool End: approve_task\n")
	assert.Equal(t, model.StatusProcessing, svc.Status(id))

	out, _, err = execute(NewRootCmd("test"), "--base-url", url,
		"call", "get_task_result", `{"task_id":"`+id.String()+`"}`, "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "Error: Task is not completed (status: PROCESSING)\n", out)
}

func TestCallCmd_Errors(t *testing.T) {
	_, url := newFake(t)

	_, _, err := execute(NewRootCmd("test"), "--base-url", url,
		"call", "list_tasks", `{"page_number":0,"page_size":0}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolFailed))
	assert.Contains(t, err.Error(), "page_size must be greater than or equal to 1")

	_, _, err = execute(NewRootCmd("test"), "call", "list_tasks", `not json`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arguments must be a JSON object")

	_, _, err = execute(NewRootCmd("test"), "call", "list_tasks", "-o", "xml")
	assert.EqualError(t, err, `unsupported format: "xml", use one of: json, yaml, toml, text`)

	out, _, err := execute(NewRootCmd("test"), "--base-url", url, "call", "unknown_tool", "{}")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.EqualError(t, err, "unknown tool: unknown_tool")
	assert.Empty(t, out)

	t.Setenv("TENDEM_API_KEY", "")
	_, _, err = execute(NewRootCmd("test"), "--base-url", url,
		"call", "get_task", `{"task_id":"0b7e0a8e-64a4-4d55-9a38-0d3a1b0f6a11"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), client.ErrMissingAPIKey.Error())
}

func TestWaitCmd(t *testing.T) {
	svc, url := newFake(t)
	id := svc.AddTask("Collect leads")
	require.NoError(t, svc.Quote(id, decimal.RequireFromString("40")))

	out, _, err := execute(NewRootCmd("test"), "--base-url", url,
		"wait", id.String(), "--interval", "1ms")
	require.NoError(t, err)
	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, model.StatusAwaitingApproval, task.Status)

	require.NoError(t, svc.Advance(id, model.StatusCancelled))
	out, _, err = execute(NewRootCmd("test"), "--base-url", url,
		"wait", id.String(), "--until", "COMPLETED", "--interval", "1ms")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	assert.Equal(t, model.StatusCancelled, task.Status)

	_, _, err = execute(NewRootCmd("test"), "wait", "nope")
	assert.True(t, errors.Is(err, client.ErrInvalidArgument))

	_, _, err = execute(NewRootCmd("test"), "wait", id.String(), "--until", "DONE")
	assert.True(t, errors.Is(err, client.ErrInvalidArgument))

	_, _, err = execute(NewRootCmd("test"), "wait", id.String(), "--interval", "0s")
	assert.True(t, errors.Is(err, client.ErrInvalidArgument))
}

func TestResultValue(t *testing.T) {
	assert.Equal(t, "Task 1 approved", resultValue("Task 1 approved"))
	assert.Equal(t, `"quoted"`, resultValue(`"quoted"`))
	assert.Equal(t, "{} {}", resultValue("{} {}"))
	assert.Equal(t, map[string]any{"total": json.Number("3")}, resultValue(`{"total":3}`))
}

func TestServeCmd_HTTP(t *testing.T) {
	t.Setenv("TENDEM_API_KEY", "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	root := NewRootCmd("test")
	var errOut bytes.Buffer
	root.SetErr(&errOut)
	root.SetArgs([]string{"serve", "--http", "127.0.0.1:0", "--endpoint", "/rpc"})
	require.NoError(t, root.ExecuteContext(ctx))
}

func TestServeCmd_StdinClosed(t *testing.T) {
	t.Setenv("TENDEM_API_KEY", "")

	for _, args := range [][]string{{"serve"}, {}} {
		root := NewRootCmd("test")
		var out, errOut bytes.Buffer
		root.SetIn(strings.NewReader(""))
		root.SetOut(&out)
		root.SetErr(&errOut)
		root.SetArgs(args)

		done := make(chan error, 1)
		go func() {
			done <- root.ExecuteContext(context.Background())
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
			assert.Contains(t, errOut.String(), "stopped")
		case <-time.After(5 * time.Second):
			t.Fatalf("serve %v did not stop after stdin was closed", args)
		}
	}
}

func TestCloseNotifyReader(t *testing.T) {
	var closed int
	r := &closeNotifyReader{r: strings.NewReader("abc"), onClose: func() { closed++ }}

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))
	assert.Equal(t, 0, closed)

	_, err = r.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
	_, _ = r.Read(buf)
	assert.Equal(t, 1, closed)
}
