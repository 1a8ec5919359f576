package tools_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/callbacks"
	"github.com/effective-security/tendem-mcp/callctx"
	"github.com/effective-security/tendem-mcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Text  string `json:"text" jsonschema:"description=Text to echo"`
	Times int    `json:"times,omitempty" jsonschema:"description=Repeat count,default=1"`
}

type echoResult struct {
	Text string `json:"text"`
}

func (r *echoResult) String() string {
	return r.Text
}

func newEcho(t *testing.T) *tools.FuncTool[echoArgs, echoResult] {
	tool, err := tools.NewFuncTool("echo", "Echoes the text",
		func(_ context.Context, in *echoArgs) (*echoResult, error) {
			if in.Text == "" {
				return nil, errors.New("text is required")
			}
			res := in.Text
			for i := 1; i < in.Times; i++ {
				res += " " + in.Text
			}
			return &echoResult{Text: res}, nil
		})
	require.NoError(t, err)
	return tool
}

func TestFuncTool(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	tool := newEcho(t).WithCallback(callbacks.NewPrinter(&buf, callbacks.ModeVerbose))

	assert.Equal(t, "echo", tool.Name())
	assert.Equal(t, "Echoes the text", tool.Description())
	assert.NotNil(t, tool.Parameters())

	res, err := tool.Call(ctx, `{"text":"hi","times":2}`)
	require.NoError(t, err)
	assert.Equal(t, "hi hi", res)

	res, err = tool.Call(ctx, "```json\n{\"text\":\"hi\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "hi", res)

	_, err = tool.Call(ctx, "plain string")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
	assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")

	_, err = tool.Call(ctx, `{}`)
	assert.EqualError(t, err, "text is required")

	out := buf.String()
	assert.Contains(t, out, "Tool Start: echo")
	assert.Contains(t, out, "Output: hi hi")
	assert.Contains(t, out, "Tool Error: echo: text is required")

	r, err := tool.Run(ctx, &echoArgs{Text: "x", Times: 3})
	require.NoError(t, err)
	assert.Equal(t, "x x x", r.Text)
}

func TestFuncToolFormat(t *testing.T) {
	tool := newEcho(t).WithFormat(func(r *echoResult) string {
		return "<" + r.Text + ">"
	})
	res, err := tool.Call(context.Background(), `{"text":"hi"}`)
	require.NoError(t, err)
	assert.Equal(t, "<hi>", res)
}

type registrator struct {
	names    []string
	handlers map[string]any
	err      error
}

func (r *registrator) RegisterTool(name string, _ string, handler any) error {
	if r.err != nil {
		return r.err
	}
	if r.handlers == nil {
		r.handlers = map[string]any{}
	}
	r.names = append(r.names, name)
	r.handlers[name] = handler
	return nil
}

func TestRegisterMCP(t *testing.T) {
	reg := &registrator{}
	tool := newEcho(t)
	require.NoError(t, tool.RegisterMCP(reg))
	assert.Equal(t, []string{"echo"}, reg.names)

	handler, ok := reg.handlers["echo"].(func(context.Context, echoArgs) (*mcp.ToolResponse, error))
	require.True(t, ok)

	resp, err := handler(context.Background(), echoArgs{Text: "hey"})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	require.NotNil(t, resp.Content[0].TextContent)
	assert.Equal(t, "hey", resp.Content[0].TextContent.Text)

	_, err = handler(context.Background(), echoArgs{})
	assert.EqualError(t, err, "text is required")

	err = tool.RegisterMCP(&registrator{err: errors.New("duplicate")})
	assert.EqualError(t, err, "failed to register tool echo: duplicate")
}

func TestGetDescriptions(t *testing.T) {
	tool := newEcho(t)
	exp := `{
	"Tools": [
		{
			"Name": "echo",
			"Description": "Echoes the text"
		}
	]
}`
	assert.Equal(t, exp, tools.GetDescriptions(tool))
	assert.Contains(t, tools.GetDescriptionsWithParameters(tool), `"Parameters": {`)
	assert.Contains(t, tools.GetDescriptionsWithParameters(tool), `"Text to echo"`)
}

func TestFuncTool_CallContext(t *testing.T) {
	tool, err := tools.NewFuncTool("whoami", "Returns the call",
		func(ctx context.Context, _ *struct{}) (*echoResult, error) {
			c := callctx.Get(ctx)
			if c == nil {
				return nil, errors.New("no call context")
			}
			return &echoResult{Text: c.Tool() + ":" + c.CallID()}, nil
		})
	require.NoError(t, err)

	res, err := tool.Call(context.Background(), `{}`)
	require.NoError(t, err)
	assert.Regexp(t, `^whoami:\d+$`, res)

	ctx := callctx.WithCallContext(context.Background(), callctx.New("7", "outer"))
	res, err = tool.Call(ctx, `{}`)
	require.NoError(t, err)
	assert.Equal(t, "outer:7", res)
}
