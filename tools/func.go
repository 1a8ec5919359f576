package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/callctx"
	"github.com/effective-security/tendem-mcp/pkg/metricskey"
	"github.com/effective-security/tendem-mcp/schema"
	"github.com/effective-security/tendem-mcp/utils"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tendem-mcp", "tools")

// RunFunc implements a tool
type RunFunc[I any, O any] func(context.Context, *I) (*O, error)

// FuncTool is a Tool backed by a function.
// The input type I must be a struct; its json and jsonschema tags
// define the tool parameters.
type FuncTool[I any, O any] struct {
	name        string
	description string
	params      any
	run         RunFunc[I, O]
	format      func(*O) string
	callback    Callback
}

var (
	_ Tool[struct{}, string] = (*FuncTool[struct{}, string])(nil)
	_ IMCPTool               = (*FuncTool[struct{}, string])(nil)
	_ Exampler               = (*FuncTool[struct{}, string])(nil)
)

// NewFuncTool returns a tool calling run
func NewFuncTool[I any, O any](name, description string, run RunFunc[I, O]) (*FuncTool[I, O], error) {
	sc, err := schema.For[I]()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create schema for %s", name)
	}
	return &FuncTool[I, O]{
		name:        name,
		description: description,
		params:      sc.Parameters,
		run:         run,
		format: func(o *O) string {
			return utils.Stringify(o)
		},
	}, nil
}

// WithCallback sets the callback for tool events
func (t *FuncTool[I, O]) WithCallback(cb Callback) *FuncTool[I, O] {
	t.callback = cb
	return t
}

// WithFormat sets the text rendering of the output,
// by default the output is rendered with utils.Stringify.
func (t *FuncTool[I, O]) WithFormat(format func(*O) string) *FuncTool[I, O] {
	t.format = format
	return t
}

func (t *FuncTool[I, O]) Name() string {
	return t.name
}

func (t *FuncTool[I, O]) Description() string {
	return t.description
}

func (t *FuncTool[I, O]) Parameters() any {
	return t.params
}

// Example implements Exampler, the input is filled by gofakeit
// following the `fake` tags of I.
func (t *FuncTool[I, O]) Example() string {
	var in I
	if err := gofakeit.Struct(&in); err != nil {
		logger.KV(xlog.DEBUG, "tool", t.name, "reason", "example", "err", err.Error())
	}
	return utils.ToJSON(in)
}

// Run executes the tool and records the call metrics
func (t *FuncTool[I, O]) Run(ctx context.Context, in *I) (*O, error) {
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, t.name)

	out, err := t.run(ctx, in)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, t.name)
		return nil, err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, t.name)
	return out, nil
}

// Call implements ITool
func (t *FuncTool[I, O]) Call(ctx context.Context, input string) (string, error) {
	var in I
	if err := json.Unmarshal(utils.CleanJSON([]byte(input)), &in); err != nil {
		logger.ContextKV(ctx, xlog.DEBUG, "tool", t.name, "reason", "unmarshal", "err", err.Error())
		return "", errors.WithStack(ErrFailedUnmarshalInput)
	}
	return t.call(ctx, input, &in)
}

// RegisterMCP implements IMCPTool
func (t *FuncTool[I, O]) RegisterMCP(registrator McpServerRegistrator) error {
	err := registrator.RegisterTool(t.name, t.description, func(ctx context.Context, args I) (*mcp.ToolResponse, error) {
		res, err := t.call(ctx, utils.ToJSON(args), &args)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResponse(mcp.NewTextContent(res)), nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to register tool %s", t.name)
	}
	return nil
}

func (t *FuncTool[I, O]) call(ctx context.Context, input string, in *I) (string, error) {
	ctx = callctx.Ensure(ctx, t.name)
	if t.callback != nil {
		t.callback.OnToolStart(ctx, t, input)
	}
	out, err := t.Run(ctx, in)
	if err != nil {
		if t.callback != nil {
			t.callback.OnToolError(ctx, t, input, err)
		}
		return "", err
	}
	res := t.format(out)
	if t.callback != nil {
		t.callback.OnToolEnd(ctx, t, input, res)
	}
	return res, nil
}
