package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// newManCommand creates the hidden man page generator.
func (a *App) newManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "IPAMCTL",
				Section: "1",
				Source:  "ipamctl " + a.version,
				Manual:  "ipamctl Manual",
			}
			return doc.GenMan(cmd.Root(), header, a.out)
		},
	}
}
