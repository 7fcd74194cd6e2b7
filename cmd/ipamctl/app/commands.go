package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/ipamctl/cmd/ipamctl/cmd/apply"
	"github.com/agentstation/ipamctl/cmd/ipamctl/cmd/docs"
	"github.com/agentstation/ipamctl/cmd/ipamctl/cmd/ensure"
	"github.com/agentstation/ipamctl/cmd/ipamctl/cmd/modules"
	"github.com/agentstation/ipamctl/cmd/ipamctl/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(ensure.NewCommand(a))
	rootCmd.AddCommand(apply.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(modules.NewCommand(a))
	rootCmd.AddCommand(docs.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(a.newManCommand())
}
