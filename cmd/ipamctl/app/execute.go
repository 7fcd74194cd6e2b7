package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/ipamctl/internal/cmd/output"
	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
)

// Execute runs the ipamctl CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd, err := a.createRootCommand()
	if err != nil {
		return err
	}
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:     "ipamctl",
		Short:   "Declarative phpIPAM entity management",
		Version: a.version,
		Long: `ipamctl drives phpIPAM entities (sections, subnets, addresses, VLANs,
VRFs, L2 domains, devices, device types, tags, locations and nameservers)
to a declared state over the phpIPAM REST API.

Each run compares the declared parameters with what the server holds and
creates, updates or deletes only what differs. Use --check to see what
would change without touching the server.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.ipamctl.yaml)")
	flags.String("server-url", "", "phpIPAM server URL (env "+constants.EnvServerURL+")")
	flags.String("app-id", "", "phpIPAM API application id (env "+constants.EnvAppID+")")
	flags.StringP("username", "u", "", "phpIPAM username (env "+constants.EnvUsername+")")
	flags.String("password", "", "phpIPAM password (env "+constants.EnvPassword+")")
	flags.Bool("validate-certs", true, "verify the server TLS certificate")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "timeout for each API request")
	flags.Bool("check", false, "report what would change without changing it")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	if err := BindFlags(a.viper, flags); err != nil {
		return nil, err
	}

	rootCmd.SetVersionTemplate("ipamctl {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd, nil
}

// setupCommand is called before any command runs. It merges the parsed
// flags into the configuration and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	var (
		config *Config
		err    error
	)
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		config, err = ReadConfigFile(a.viper, path)
		if err != nil {
			return err
		}
	} else {
		config = fromViper(a.viper)
	}

	if _, err := output.ParseFormat(config.Format); err != nil {
		return errors.NewValidationError("format", config.Format, err.Error())
	}

	a.config = config
	logger := NewLogger(a.config)
	a.logger = &logger

	a.logger.Debug().
		Str("config_file", config.ConfigFile).
		Str("server_url", config.ServerURL).
		Bool("check", config.Check).
		Msg("configuration loaded")

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
