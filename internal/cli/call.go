package cli

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/callbacks"
	"github.com/effective-security/tendem-mcp/encoding"
	"github.com/effective-security/tendem-mcp/mcp/transport/localtransport"
	"github.com/effective-security/tendem-mcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/spf13/cobra"
)

var (
	// ErrToolFailed is returned when the tool reports an error result
	ErrToolFailed = errors.New("tool failed")
	// ErrUnknownTool is returned for a tool name which is not registered
	ErrUnknownTool = errors.New("unknown tool")
)

func newCallCmd(g *globalFlags) *cobra.Command {
	var (
		output  string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "call <tool> [json-arguments]",
		Short: "Call one tool and print the result",
		Example: `  tendem-mcp call list_tasks '{"page_number":0,"page_size":10}'
  tendem-mcp call get_task '{"task_id":"<uuid>"}' --output yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := encoding.New(output)
			if err != nil {
				return err
			}

			var input map[string]any
			if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
				dec, _ := encoding.New(encoding.FormatJSON)
				if err = dec.Unmarshal([]byte(args[1]), &input); err != nil {
					return errors.Wrap(err, "arguments must be a JSON object")
				}
			}

			var cbs []tools.Callback
			if verbose {
				cbs = append(cbs, callbacks.NewPrinter(cmd.ErrOrStderr(), callbacks.ModeVerbose))
			}
			ts, err := g.toolset(cbs...)
			if err != nil {
				return err
			}
			if ts.Tool(args[0]) == nil {
				return errors.Mark(errors.Newf("unknown tool: %s", args[0]), ErrUnknownTool)
			}

			tr := localtransport.New()
			server := mcp.NewServer(tr)
			if err = ts.Register(server); err != nil {
				return err
			}
			if err = server.Serve(); err != nil {
				return errors.Wrap(err, "failed to start MCP server")
			}
			defer tr.Close()

			ctx := cmd.Context()
			c := localtransport.NewClient(tr, "tendem-mcp-cli")
			if err = c.Initialize(ctx); err != nil {
				return err
			}
			res, err := c.CallTool(ctx, args[0], input)
			if err != nil {
				return err
			}
			if res.IsError {
				return errors.Mark(errors.Newf("%s: %s", args[0], res.Text()), ErrToolFailed)
			}

			out, err := enc.Marshal(resultValue(res.Text()))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return errors.WithStack(err)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", encoding.FormatJSON, "Output format: json, yaml, toml or text")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print tool events to stderr")
	return cmd
}

// resultValue returns the decoded JSON of a tool result,
// or the text as is when it is not JSON.
func resultValue(text string) any {
	var v any
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil || dec.More() {
		return text
	}
	if _, ok := v.(string); ok {
		return text
	}
	return v
}
