package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/utils"
)

// ErrFailedUnmarshalInput is returned when the input does not match the tool schema
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool exposed to an MCP caller.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, shown to the caller.
	Description() string
	// Parameters returns the JSON schema of the tool input.
	Parameters() any

	// Call executes the tool with the JSON input and returns the text result.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

// Exampler is implemented by tools which can generate an example input
type Exampler interface {
	// Example returns a JSON input filled with fake values
	Example() string
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool is an interface that extends ITool to include functionality for
// registering the tool with an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
	Parameters  any    `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Example     string `json:"Example,omitempty" yaml:"Example,omitempty"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns JSON with the names and descriptions of the tools
func GetDescriptions(list ...ITool) string {
	return utils.ToJSONIndent(describe(false, false, list...))
}

// GetDescriptionsWithParameters returns JSON with the descriptions
// and the input schemas of the tools
func GetDescriptionsWithParameters(list ...ITool) string {
	return utils.ToJSONIndent(describe(true, false, list...))
}

// GetDescriptionsWithExamples returns JSON with the descriptions
// and a generated example input of the tools implementing Exampler
func GetDescriptionsWithExamples(list ...ITool) string {
	return utils.ToJSONIndent(describe(false, true, list...))
}

func describe(withParams, withExamples bool, list ...ITool) toolsDescription {
	d := toolsDescription{
		Tools: make([]toolDescription, 0, len(list)),
	}
	for _, tool := range list {
		td := toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		}
		if withParams {
			td.Parameters = tool.Parameters()
		}
		if ex, ok := tool.(Exampler); ok && withExamples {
			td.Example = ex.Example()
		}
		d.Tools = append(d.Tools, td)
	}
	return d
}
