package cli

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/client"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/effective-security/tendem-mcp/utils"
	"github.com/spf13/cobra"
)

func newWaitCmd(g *globalFlags) *cobra.Command {
	var (
		until    []string
		interval time.Duration
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait <task_id>",
		Short: "Poll a task until it reaches one of the statuses",
		Long: "Poll a task until it reaches one of the --until statuses or a terminal status.\n" +
			"A price is quoted in AWAITING_APPROVAL, results are ready in COMPLETED.",
		Example: "  tendem-mcp wait <uuid> --until AWAITING_APPROVAL --interval 15s",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := client.ParseID("task_id", args[0])
			if err != nil {
				return err
			}
			if interval <= 0 {
				return errors.Mark(errors.Newf("interval must be positive: %s", interval), client.ErrInvalidArgument)
			}
			statuses := make([]model.TaskStatus, 0, len(until))
			for _, s := range until {
				st, err := model.ParseTaskStatus(s)
				if err != nil {
					return errors.Mark(err, client.ErrInvalidArgument)
				}
				statuses = append(statuses, st)
			}

			cfg, err := g.load()
			if err != nil {
				return err
			}
			c, err := cfg.NewClient()
			if err != nil {
				return err
			}

			task, err := client.WaitForStatus(cmd.Context(), c, id, pollBackOff(interval, timeout), client.UntilStatus(statuses...))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), utils.ToJSONIndent(task))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&until, "until", []string{model.StatusAwaitingApproval.String()}, "Statuses to wait for, terminal statuses always stop")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "Initial polling interval")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Maximum wait, 0 waits until the task is done")
	return cmd
}
