// Package docs provides the docs command, which writes the Markdown
// module reference.
package docs

import (
	"fmt"

	"github.com/spf13/cobra"

	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
	refdocs "github.com/agentstation/ipamctl/internal/tools/docs"
	"github.com/agentstation/ipamctl/pkg/modules"
)

// NewCommand creates the docs command.
func NewCommand(app appcontext.Context) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:     "docs",
		GroupID: "management",
		Short:   "Generate the Markdown module reference",
		Example: `  ipamctl docs --output ./docs`,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			gen := refdocs.New(refdocs.WithOutputDir(outputDir), refdocs.WithLogger(*app.Logger()))
			written, err := gen.Generate(modules.All())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(app.Out(), "Wrote %d files to %s\n", len(written), outputDir)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "d", "./docs", "directory to write the reference to")

	return cmd
}
