package cli

import (
	"fmt"

	"github.com/effective-security/tendem-mcp/tools"
	"github.com/spf13/cobra"
)

func newToolsCmd(g *globalFlags) *cobra.Command {
	var withParams, withExamples bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool names and descriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := g.toolset()
			if err != nil {
				return err
			}
			switch {
			case withParams:
				fmt.Fprintln(cmd.OutOrStdout(), tools.GetDescriptionsWithParameters(ts.ITools()...))
			case withExamples:
				fmt.Fprintln(cmd.OutOrStdout(), tools.GetDescriptionsWithExamples(ts.ITools()...))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), tools.GetDescriptions(ts.ITools()...))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withParams, "schema", false, "Include the input schema of each tool")
	cmd.Flags().BoolVar(&withExamples, "examples", false, "Include a generated example input of each tool")
	cmd.MarkFlagsMutuallyExclusive("schema", "examples")
	return cmd
}
