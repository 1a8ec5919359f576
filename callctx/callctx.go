// Package callctx carries the identity of a tool call through the context,
// so that logs and outgoing requests of one call can be correlated.
package callctx

import (
	"context"
	"strconv"
	"sync"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// CallContext describes one tool call
type CallContext interface {
	// CallID is unique per call
	CallID() string
	// Tool returns the name of the called tool
	Tool() string
	// GetMetadata retrieves metadata by key
	GetMetadata(key string) (value any, ok bool)
	// SetMetadata sets metadata by key
	SetMetadata(key string, value any)
}

type callContext struct {
	callID   string
	tool     string
	metadata sync.Map
}

func (c *callContext) CallID() string {
	return c.callID
}

func (c *callContext) Tool() string {
	return c.tool
}

func (c *callContext) GetMetadata(key string) (value any, ok bool) {
	return c.metadata.Load(key)
}

func (c *callContext) SetMetadata(key string, value any) {
	c.metadata.Store(key, value)
}

// New returns CallContext for the tool, a new call ID is generated if empty
func New(callID, tool string) CallContext {
	return &callContext{
		callID: values.StringsCoalesce(callID, NewCallID()),
		tool:   tool,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithCallContext returns a new context with CallContext value
func WithCallContext(ctx context.Context, c CallContext) context.Context {
	return context.WithValue(ctx, keyContext, c)
}

// Ensure returns ctx with a CallContext for the tool,
// an existing CallContext is kept.
func Ensure(ctx context.Context, tool string) context.Context {
	if Get(ctx) != nil {
		return ctx
	}
	return WithCallContext(ctx, New("", tool))
}

// Get retrieves the CallContext, or nil
func Get(ctx context.Context) CallContext {
	if v, ok := ctx.Value(keyContext).(CallContext); ok {
		return v
	}
	return nil
}

// GetCallID returns the call ID, or empty string if ctx has no CallContext
func GetCallID(ctx context.Context) string {
	if v := Get(ctx); v != nil {
		return v.CallID()
	}
	return ""
}

// NewCallID generates a new call ID using the flake ID generator.
func NewCallID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
