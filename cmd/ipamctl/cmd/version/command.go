// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
)

// NewCommand creates the version command.
func NewCommand(app appcontext.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := app.Out()
			if _, err := fmt.Fprintf(w, "ipamctl %s\n", app.Version()); err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			if !verbose {
				return nil
			}
			_, err := fmt.Fprintf(w, "commit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				app.Commit(), app.Date(), app.BuiltBy(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
