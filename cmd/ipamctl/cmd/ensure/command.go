// Package ensure provides the ensure command, which reconciles one entity.
package ensure

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
	"github.com/agentstation/ipamctl/internal/cmd/alerts"
	"github.com/agentstation/ipamctl/internal/cmd/output"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/params"
	"github.com/agentstation/ipamctl/pkg/tasks"
)

// NewCommand creates the ensure command.
func NewCommand(app appcontext.Context) *cobra.Command {
	var (
		paramFlags []string
		file       string
		state      string
	)

	cmd := &cobra.Command{
		Use:     "ensure <module>",
		GroupID: "core",
		Short:   "Ensure the state of one phpIPAM entity",
		Long: `Ensure drives a single entity to its declared state.

Parameters are given as key=value pairs, in a YAML file holding the
parameters (or a single task), or both; flags override the file. List
parameters take comma separated values.`,
		Example: `  ipamctl ensure section -p name=Customers -p description="All customers"
  ipamctl ensure subnet -p subnet=10.0.0.0 -p mask=24 -p section=Customers
  ipamctl ensure vlan -f vlan.yaml --state absent
  ipamctl ensure -f task.yaml --check`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module := ""
			if len(args) == 1 {
				module = args[0]
			}

			task, err := buildTask(module, file, paramFlags, state)
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			app.Logger().Debug().Str("module", task.Module).Msg("ensuring entity")
			res, err := client.Ensure(cmd.Context(), task.Module, task.Params)
			if err != nil {
				if werr := app.Alerts().WriteAlert(alerts.Summary(nil, app.CheckMode(), err)); werr != nil {
					app.Logger().Debug().Err(werr).Msg("writing summary")
				}
				return err
			}

			results := output.Results{{Name: task.Name, Module: task.Module, Result: res}}
			if err := output.Write(app.Out(), app.OutputFormat(), results); err != nil {
				return err
			}
			if err := app.Alerts().WriteAlert(alerts.Summary(results, app.CheckMode(), nil)); err != nil {
				app.Logger().Debug().Err(err).Msg("writing summary")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&paramFlags, "param", "p", nil, "module parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with parameters or a single task")
	cmd.Flags().StringVar(&state, "state", "", "desired state: present or absent")

	return cmd
}

// buildTask merges the file, the key=value flags and --state into one task.
func buildTask(module, file string, paramFlags []string, state string) (tasks.Task, error) {
	task := tasks.Task{Module: module, Params: map[string]any{}}

	if file != "" {
		list, err := tasks.Load(file)
		if err != nil {
			return tasks.Task{}, err
		}
		if len(list) != 1 {
			return tasks.Task{}, &errors.ValidationError{
				Field:   "file",
				Value:   file,
				Message: fmt.Sprintf("expected one task, found %d (use apply for task lists)", len(list)),
			}
		}
		fromFile := list[0]
		if module != "" && fromFile.Module != "" && fromFile.Module != module {
			return tasks.Task{}, &errors.ValidationError{
				Field:   "module",
				Value:   module,
				Message: fmt.Sprintf("file declares module %s", fromFile.Module),
			}
		}
		if task.Module == "" {
			task.Module = fromFile.Module
		}
		task.Name = fromFile.Name
		for k, v := range fromFile.Params {
			task.Params[k] = v
		}
	}

	for _, kv := range paramFlags {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return tasks.Task{}, &errors.ValidationError{Field: "param", Value: kv, Message: "must be key=value"}
		}
		task.Params[strings.TrimSpace(key)] = value
	}

	if state != "" {
		task.Params[params.State] = state
	}

	if task.Module == "" {
		return tasks.Task{}, &errors.ValidationError{Field: "module", Message: "no module given"}
	}
	return task, nil
}
