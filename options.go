package ipamctl

import (
	"net/http"
	"time"

	"github.com/agentstation/ipamctl/internal/transport"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/phpipam"
)

// config holds the client configuration
type config struct {
	transport transport.Config
	api       phpipam.API
	check     bool
	preflight bool
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{preflight: true}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.api == nil && c.transport.ServerURL == "" {
		return nil, &errors.ConfigError{Component: "client", Message: "no phpIPAM server configured"}
	}
	return c, nil
}

// Option is a function that configures a Client
type Option func(*config) error

// WithConnection configures the phpIPAM server and credentials
func WithConnection(serverURL, appID, username, password string, validateCerts bool) Option {
	return func(c *config) error {
		c.transport.ServerURL = serverURL
		c.transport.AppID = appID
		c.transport.Username = username
		c.transport.Password = password
		c.transport.ValidateCerts = validateCerts
		return nil
	}
}

// WithTimeout configures the timeout of each API request
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout <= 0 {
			return &errors.ValidationError{Field: "timeout", Value: timeout, Message: "must be positive"}
		}
		c.transport.Timeout = timeout
		return nil
	}
}

// WithHTTPClient configures the HTTP client used for API requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.transport.HTTPClient = hc
		return nil
	}
}

// WithUserAgent configures the User-Agent sent with API requests
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		c.transport.UserAgent = ua
		return nil
	}
}

// WithAPI replaces the phpIPAM client, e.g. with an in-memory store
func WithAPI(api phpipam.API) Option {
	return func(c *config) error {
		if api == nil {
			return &errors.ValidationError{Field: "api", Message: "cannot be nil"}
		}
		c.api = api
		return nil
	}
}

// WithCheckMode reports what would change without issuing mutations
func WithCheckMode(enabled bool) Option {
	return func(c *config) error {
		c.check = enabled
		return nil
	}
}

// WithPreflight configures whether each run first checks that the server
// knows the module's controller
func WithPreflight(enabled bool) Option {
	return func(c *config) error {
		c.preflight = enabled
		return nil
	}
}
