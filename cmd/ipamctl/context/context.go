// Package context provides the application context interface for ipamctl commands.
//
// The Context interface defines the contract between the application layer and
// command implementations, so commands can be tested against a mock.
//
// Usage in Commands:
//
//	func NewCommand(appCtx context.Context) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := appCtx.Client()
//	            if err != nil {
//	                return err
//	            }
//	            res, err := client.Ensure(cmd.Context(), "section", input)
//	            // ... render res
//	        },
//	    }
//	}
package context

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/ipamctl"
	"github.com/agentstation/ipamctl/internal/cmd/alerts"
)

// Context provides the application context interface that commands need.
// The App struct from cmd/ipamctl/app implements this interface.
type Context interface {
	// Client returns the phpIPAM client.
	// When called without options, returns the default cached instance built from configuration.
	// When called with options, creates a new instance with the options appended (no caching).
	Client(opts ...ipamctl.Option) (ipamctl.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Out is where command results are written.
	Out() io.Writer

	// Alerts writes status lines to the user, outside the command results.
	Alerts() alerts.Writer

	// CheckMode reports whether changes are only reported.
	CheckMode() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
