// Package localtransport provides an in-process MCP server transport.
package localtransport

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/metoro-io/mcp-golang/transport"
)

// Transport delivers JSON-RPC messages to an MCP server in the same process.
// Each HandleMessage call waits for the response to its own request,
// so calls may run concurrently.
type Transport struct {
	mu             sync.RWMutex
	messageHandler func(ctx context.Context, message *transport.BaseJsonRpcMessage)
	errorHandler   func(error)
	closeHandler   func()

	pending map[int64]chan *transport.BaseJsonRpcMessage
	counter atomic.Int64
}

func New() *Transport {
	return &Transport{
		pending: make(map[int64]chan *transport.BaseJsonRpcMessage),
	}
}

// Start implements transport.Transport
func (t *Transport) Start(ctx context.Context) error {
	// nothing to start in the local transport
	return nil
}

// Close implements transport.Transport
func (t *Transport) Close() error {
	t.mu.RLock()
	handler := t.closeHandler
	t.mu.RUnlock()
	if handler != nil {
		handler()
	}
	return nil
}

// SetCloseHandler implements transport.Transport
func (t *Transport) SetCloseHandler(handler func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeHandler = handler
}

// SetErrorHandler implements transport.Transport
func (t *Transport) SetErrorHandler(handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorHandler = handler
}

// SetMessageHandler implements transport.Transport
func (t *Transport) SetMessageHandler(handler func(ctx context.Context, message *transport.BaseJsonRpcMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messageHandler = handler
}

// Send implements transport.Transport, it is called by the server
// with the response to a request. Server notifications are dropped.
func (t *Transport) Send(ctx context.Context, message *transport.BaseJsonRpcMessage) error {
	if message == nil {
		return errors.New("message is nil")
	}

	var key transport.RequestId
	switch message.Type {
	case transport.BaseMessageTypeJSONRPCResponseType:
		if message.JsonRpcResponse == nil {
			return errors.New("response is nil")
		}
		key = message.JsonRpcResponse.Id
	case transport.BaseMessageTypeJSONRPCErrorType:
		if message.JsonRpcError == nil {
			return errors.New("error response is nil")
		}
		key = message.JsonRpcError.Id
	default:
		return nil
	}

	t.mu.RLock()
	ch := t.pending[int64(key)]
	t.mu.RUnlock()
	if ch == nil {
		return errors.Newf("no response channel found for key: %d", key)
	}

	select {
	case ch <- message:
		return nil
	default:
		return errors.Newf("duplicate response for key: %d", key)
	}
}

// HandleMessage delivers the JSON-RPC message to the server.
// For a request it waits for the response, restoring the caller's id;
// for a notification it returns nil.
func (t *Transport) HandleMessage(ctx context.Context, body []byte) (*transport.BaseJsonRpcMessage, error) {
	var probe struct {
		ID     *json.RawMessage `json:"id"`
		Method string           `json:"method"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, errors.Wrap(err, "invalid JSON-RPC message")
	}
	if probe.Method == "" {
		return nil, errors.New("invalid JSON-RPC message: method is required")
	}

	t.mu.RLock()
	handler := t.messageHandler
	t.mu.RUnlock()
	if handler == nil {
		return nil, errors.New("transport is not connected")
	}

	if probe.ID == nil {
		var notification transport.BaseJSONRPCNotification
		if err := json.Unmarshal(body, &notification); err != nil {
			return nil, errors.Wrap(err, "invalid JSON-RPC notification")
		}
		handler(ctx, transport.NewBaseMessageNotification(&notification))
		return nil, nil
	}

	var request transport.BaseJSONRPCRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, errors.Wrap(err, "invalid JSON-RPC request")
	}
	callerID := request.Id

	// the server sees a transport-unique id
	key := t.counter.Add(1)
	ch := make(chan *transport.BaseJsonRpcMessage, 1)
	t.mu.Lock()
	t.pending[key] = ch
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		delete(t.pending, key)
		t.mu.Unlock()
	}()

	request.Id = transport.RequestId(key)
	handler(ctx, transport.NewBaseMessageRequest(&request))

	select {
	case resp := <-ch:
		if request.Method == methodToolsCall && resp.JsonRpcResponse != nil && isEmptyResult(resp.JsonRpcResponse.Result) {
			resp = unknownToolError(&request)
		}
		switch {
		case resp.JsonRpcResponse != nil:
			resp.JsonRpcResponse.Id = callerID
		case resp.JsonRpcError != nil:
			resp.JsonRpcError.Id = callerID
		}
		return resp, nil
	case <-ctx.Done():
		t.reportError(errors.Wrapf(ctx.Err(), "request %s", request.Method))
		return nil, errors.WithStack(ctx.Err())
	}
}

func (t *Transport) reportError(err error) {
	t.mu.RLock()
	handler := t.errorHandler
	t.mu.RUnlock()
	if handler != nil {
		handler(err)
	}
}

const (
	methodToolsCall = "tools/call"

	// CodeInvalidParams is the JSON-RPC code for an unknown tool
	CodeInvalidParams = -32602
)

func isEmptyResult(result json.RawMessage) bool {
	r := bytes.TrimSpace(result)
	return len(r) == 0 || bytes.Equal(r, []byte("null"))
}

// unknownToolError replaces the null result the server returns
// for a tool that is not registered.
func unknownToolError(request *transport.BaseJSONRPCRequest) *transport.BaseJsonRpcMessage {
	var params struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(request.Params, &params)
	return &transport.BaseJsonRpcMessage{
		Type: transport.BaseMessageTypeJSONRPCErrorType,
		JsonRpcError: &transport.BaseJSONRPCError{
			Jsonrpc: "2.0",
			Id:      request.Id,
			Error: transport.BaseJSONRPCErrorInner{
				Code:    CodeInvalidParams,
				Message: "unknown tool: " + params.Name,
			},
		},
	}
}
