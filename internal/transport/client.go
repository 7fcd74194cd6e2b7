// Package transport carries authenticated requests to the phpIPAM REST
// API and unwraps its response envelope.
package transport

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Config holds the connection settings for one API session.
type Config struct {
	ServerURL     string
	AppID         string
	Username      string
	Password      string
	ValidateCerts bool
	Timeout       time.Duration
	UserAgent     string
	// HTTPClient replaces the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client provides HTTP client functionality with authentication.
type Client struct {
	http      *http.Client
	auth      Authenticator
	requests  *RequestBuilder
	cfg       Config
	userAgent string
}

// New creates a transport client. No request is made until Login or Do.
func New(cfg Config) (*Client, error) {
	rb, err := NewRequestBuilder(cfg.ServerURL, cfg.AppID)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
		if !cfg.ValidateCerts {
			httpClient.Transport = &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = constants.UserAgent
	}

	return &Client{
		http:      httpClient,
		auth:      &NoAuth{},
		requests:  rb,
		cfg:       cfg,
		userAgent: userAgent,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.requests.BaseURL()
}

// SetAuthenticator replaces the authenticator applied to every request.
func (c *Client) SetAuthenticator(auth Authenticator) {
	if auth == nil {
		auth = &NoAuth{}
	}
	c.auth = auth
}

// Login requests a session token from the user controller with basic
// auth. Subsequent requests carry the token header.
func (c *Client) Login(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	req, err := c.requests.NewRequest(http.MethodPost, "user/", nil, nil)
	if err != nil {
		return err
	}
	basic := &BasicAuth{Username: c.cfg.Username, Password: c.cfg.Password}

	env, err := c.send(ctx, req, basic, "user")
	if err != nil {
		return &errors.AuthenticationError{
			Server:  c.cfg.ServerURL,
			Method:  "basic",
			Message: authMessage(env, err),
			Err:     err,
		}
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := env.DecodeData(&data); err != nil || data.Token == "" {
		return &errors.AuthenticationError{
			Server:  c.cfg.ServerURL,
			Method:  "token",
			Message: "no session token in response",
			Err:     err,
		}
	}

	c.auth = &TokenAuth{Header: constants.TokenHeader, Token: data.Token}
	logger.Debug().Str("server", c.cfg.ServerURL).Msg("API session established")
	return nil
}

// Do performs a request against path below the API root.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Envelope, error) {
	req, err := c.requests.NewRequest(method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, req, c.auth, controllerOf(path))
}

func (c *Client) send(ctx context.Context, req *http.Request, auth Authenticator, controller string) (*Envelope, error) {
	req = req.WithContext(ctx)
	auth.Apply(req)

	// Set common headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if req.Method == http.MethodPost || req.Method == http.MethodPatch || req.Method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.FromContext(ctx).Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Msg("API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Controller: controller,
			Method:     req.Method,
			Message:    "request failed",
			Err:        err,
		}
	}
	return DecodeResponse(resp, controller)
}

// controllerOf returns the controller part of a request path.
func controllerOf(path string) string {
	path = strings.Trim(path, "/")
	if strings.HasPrefix(path, "tools/") {
		parts := strings.SplitN(path, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
	}
	root, _, _ := strings.Cut(path, "/")
	return root
}

func authMessage(env *Envelope, err error) string {
	if env != nil && env.Message != "" {
		return env.Message
	}
	return err.Error()
}
