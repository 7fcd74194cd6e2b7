// Package modules provides the modules command, which describes the
// supported entity modules and their parameters.
package modules

import (
	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
	"github.com/agentstation/ipamctl/internal/cmd/output"
	"github.com/agentstation/ipamctl/pkg/modules"
)

// NewCommand creates the modules command.
func NewCommand(app appcontext.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "modules [module]",
		Aliases: []string{"module", "mod"},
		GroupID: "management",
		Short:   "List modules or show the parameters of one",
		Example: `  ipamctl modules
  ipamctl modules subnet -o wide`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return modules.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return output.Write(app.Out(), app.OutputFormat(), output.Modules(modules.All()))
			}
			m, err := modules.Get(args[0])
			if err != nil {
				return err
			}
			return output.Write(app.Out(), app.OutputFormat(), output.Arguments(m.Arguments()))
		},
	}
}
