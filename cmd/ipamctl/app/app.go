// Package app provides the application context and dependency management
// for the ipamctl CLI. It centralizes configuration, logging and the
// phpIPAM client so commands only depend on the context interface.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/ipamctl"
	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
	"github.com/agentstation/ipamctl/internal/cmd/alerts"
	"github.com/agentstation/ipamctl/pkg/errors"
)

// App represents the ipamctl application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	viper  *viper.Viper
	config *Config

	// Logger
	logger *zerolog.Logger

	// Output destinations for command results and status alerts
	out    io.Writer
	errOut io.Writer

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client ipamctl.Client
}

var _ appcontext.Context = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		viper:   viper.New(),
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	config, err := LoadConfig(app.viper)
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Out returns the writer command results go to.
func (a *App) Out() io.Writer {
	return a.out
}

// Alerts returns the status writer. Alerts are colored on terminals
// unless color is disabled.
func (a *App) Alerts() alerts.Writer {
	if a.config.Quiet {
		return alerts.DiscardWriter
	}
	useColor := !a.config.NoColor && os.Getenv("NO_COLOR") == ""
	if f, ok := a.errOut.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		useColor = false
	}
	return alerts.NewWriterTo(a.errOut, useColor)
}

// CheckMode reports whether --check is in effect.
func (a *App) CheckMode() bool {
	return a.config.Check
}

// Client returns the phpIPAM client. Without options the client built from
// configuration is created once and reused; with options a new client is
// returned each call.
func (a *App) Client(opts ...ipamctl.Option) (ipamctl.Client, error) {
	if len(opts) > 0 {
		base, err := a.clientOptions()
		if err != nil {
			return nil, err
		}
		c, err := ipamctl.New(append(base, opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "client", "with custom options", err)
		}
		return c, nil
	}

	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	base, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := ipamctl.New(base...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown releases the client and its session token.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		a.logger.Debug().Msg("releasing phpIPAM client")
		a.client = nil
	}
	return nil
}

// clientOptions builds client options from the app configuration.
func (a *App) clientOptions() ([]ipamctl.Option, error) {
	conn, err := ipamctl.ConnectionFromParams(a.config.Connection())
	if err != nil {
		return nil, err
	}
	opts := []ipamctl.Option{
		conn,
		ipamctl.WithCheckMode(a.config.Check),
		ipamctl.WithUserAgent("ipamctl/" + a.version),
	}
	if a.config.Timeout > 0 {
		opts = append(opts, ipamctl.WithTimeout(a.config.Timeout))
	}
	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c ipamctl.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithOutput sets where command results are written.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

// WithErrOutput sets where status alerts are written.
func WithErrOutput(w io.Writer) Option {
	return func(a *App) error {
		a.errOut = w
		return nil
	}
}
