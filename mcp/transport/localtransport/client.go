package localtransport

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/metoro-io/mcp-golang/transport"
)

// ProtocolVersion is sent in the initialize request
const ProtocolVersion = "2024-11-05"

// ErrRPC is returned for JSON-RPC error responses
var ErrRPC = errors.New("JSON-RPC error")

// ToolInfo describes a tool listed by the server
type ToolInfo struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty" yaml:"-"`
}

// ToolContent is one content item of a tool result
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolResult is the result of tools/call
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Text returns the text content of the result
func (r *ToolResult) Text() string {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		if c.Type == "text" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Client sends MCP requests through the local Transport
type Client struct {
	t      *Transport
	name   string
	nextID atomic.Int64
}

// NewClient returns a client for the server connected to t
func NewClient(t *Transport, name string) *Client {
	return &Client{t: t, name: name}
}

// Request sends the method and returns the raw result
func (c *Client) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s params", method)
	}
	body, err := json.Marshal(&transport.BaseJSONRPCRequest{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  raw,
		Id:      transport.RequestId(c.nextID.Add(1)),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s request", method)
	}

	resp, err := c.t.HandleMessage(ctx, body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.JsonRpcError != nil:
		return nil, errors.Mark(
			errors.Newf("%s: RPC error %d: %s", method, resp.JsonRpcError.Error.Code, resp.JsonRpcError.Error.Message),
			ErrRPC)
	case resp.JsonRpcResponse != nil:
		return resp.JsonRpcResponse.Result, nil
	default:
		return nil, errors.Newf("%s: unexpected response type: %s", method, resp.Type)
	}
}

// Notify sends a notification
func (c *Client) Notify(ctx context.Context, method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s params", method)
	}
	body, err := json.Marshal(&transport.BaseJSONRPCNotification{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  raw,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s notification", method)
	}
	_, err = c.t.HandleMessage(ctx, body)
	return err
}

// Initialize performs the MCP handshake
func (c *Client) Initialize(ctx context.Context) error {
	_, err := c.Request(ctx, "initialize", map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    c.name,
			"version": "local",
		},
	})
	if err != nil {
		return err
	}
	return c.Notify(ctx, "notifications/initialized", map[string]any{})
}

// ListTools returns the tools registered on the server
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	raw, err := c.Request(ctx, "tools/list", map[string]any{})
	if err != nil {
		return nil, err
	}
	var res struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err = json.Unmarshal(raw, &res); err != nil {
		return nil, errors.Wrap(err, "failed to decode tools/list result")
	}
	return res.Tools, nil
}

// CallTool invokes the tool with the arguments.
// A failed tool is reported in the result with IsError set.
func (c *Client) CallTool(ctx context.Context, name string, args any) (*ToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := c.Request(ctx, methodToolsCall, map[string]any{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		return nil, err
	}
	if isEmptyResult(raw) {
		return nil, errors.Mark(errors.Newf("%s: empty result for tool %q", methodToolsCall, name), ErrRPC)
	}
	var res ToolResult
	if err = json.Unmarshal(raw, &res); err != nil {
		return nil, errors.Wrap(err, "failed to decode tools/call result")
	}
	return &res, nil
}
