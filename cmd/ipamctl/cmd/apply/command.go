// Package apply provides the apply command, which runs a task file.
package apply

import (
	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
	"github.com/agentstation/ipamctl/internal/cmd/alerts"
	"github.com/agentstation/ipamctl/internal/cmd/output"
	"github.com/agentstation/ipamctl/internal/matcher"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/tasks"
)

// NewCommand creates the apply command.
func NewCommand(app appcontext.Context) *cobra.Command {
	var (
		file string
		only []string
		skip []string
	)

	cmd := &cobra.Command{
		Use:     "apply -f <tasks.yaml>",
		GroupID: "core",
		Short:   "Apply a list of tasks in order",
		Long: `Apply runs every task of a YAML task file in order over one phpIPAM
session. Later tasks can reference entities created by earlier ones.

--only and --skip select tasks by name or module using glob or regex
patterns. Execution stops at the first failing task; the results of the
tasks that ran are still printed.`,
		Example: `  ipamctl apply -f network.yaml
  ipamctl apply -f network.yaml --check -o table
  ipamctl apply -f network.yaml --only 'subnet*' --skip tag`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := tasks.Load(file)
			if err != nil {
				return err
			}

			selector, err := matcher.NewSelector(only, skip)
			if err != nil {
				return errors.NewValidationError("only", only, err.Error())
			}
			selected := make([]tasks.Task, 0, len(list))
			for _, t := range list {
				if selector.Selects(t.Label(), t.Module) {
					selected = append(selected, t)
				}
			}
			if skipped := len(list) - len(selected); skipped > 0 {
				app.Logger().Info().Int("skipped", skipped).Msg("tasks not selected")
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			app.Logger().Debug().Int("tasks", len(selected)).Str("file", file).Msg("applying tasks")
			results, applyErr := client.Apply(cmd.Context(), selected)
			if len(results) > 0 || applyErr == nil {
				if err := output.Write(app.Out(), app.OutputFormat(), output.Results(results)); err != nil {
					return err
				}
			}
			if err := app.Alerts().WriteAlert(alerts.Summary(results, app.CheckMode(), applyErr)); err != nil {
				app.Logger().Debug().Err(err).Msg("writing summary")
			}
			return applyErr
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML task file")
	cmd.Flags().StringSliceVar(&only, "only", nil, "run only tasks whose name or module matches")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "skip tasks whose name or module matches")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
