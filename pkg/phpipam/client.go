// Package phpipam is a small client for the phpIPAM REST API, covering the
// entity calls a reconciliation needs: get, create, update, delete and the
// controller listing used for preflight checks.
package phpipam

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/agentstation/ipamctl/internal/transport"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// API is the set of calls the resolver and reconciler make.
type API interface {
	GetEntity(ctx context.Context, controller, path string, query url.Values) (*Record, error)
	CreateEntity(ctx context.Context, controller string, data schema.Entity) error
	UpdateEntity(ctx context.Context, controller, path string, data schema.Entity) error
	DeleteEntity(ctx context.Context, controller, id string) error
	Controllers(ctx context.Context) ([]string, error)
}

// Record is the payload of a GET. phpIPAM answers with either a single
// object or a list depending on the controller path.
type Record struct {
	Entity schema.Entity
	List   []schema.Entity
	IsList bool
}

// Client talks to one phpIPAM application.
type Client struct {
	transport   *transport.Client
	controllers []string
}

var _ API = (*Client)(nil)

// New creates a client. Call Connect before issuing requests.
func New(cfg transport.Config) (*Client, error) {
	tc, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{transport: tc}, nil
}

// Connect opens a token session.
func (c *Client) Connect(ctx context.Context) error {
	return c.transport.Login(ctx)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}

// GetEntity fetches controller/path. A missing entity is reported as a
// NotFoundError.
func (c *Client) GetEntity(ctx context.Context, controller, path string, query url.Values) (*Record, error) {
	env, err := c.transport.Do(ctx, http.MethodGet, joinPath(controller, path), query, nil)
	if err != nil {
		return nil, mapError(http.MethodGet, controller, path, env, err)
	}
	if !env.HasData() {
		return nil, errors.NewNotFoundError(controller, strings.Trim(path, "/"))
	}

	rec := &Record{}
	if bytes.HasPrefix(bytes.TrimSpace(env.Data), []byte("[")) {
		rec.IsList = true
		if err := env.DecodeData(&rec.List); err != nil {
			return nil, err
		}
		return rec, nil
	}
	if err := env.DecodeData(&rec.Entity); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateEntity POSTs data to the controller root.
func (c *Client) CreateEntity(ctx context.Context, controller string, data schema.Entity) error {
	env, err := c.transport.Do(ctx, http.MethodPost, joinPath(controller, "/"), nil, data)
	if err != nil {
		return mapError(http.MethodPost, controller, "", env, err)
	}
	logging.FromContext(ctx).Debug().Str("controller", controller).Str("message", env.Message).Msg("entity created")
	return nil
}

// UpdateEntity PATCHes controller/path with data.
func (c *Client) UpdateEntity(ctx context.Context, controller, path string, data schema.Entity) error {
	env, err := c.transport.Do(ctx, http.MethodPatch, joinPath(controller, path), nil, data)
	if err != nil {
		return mapError(http.MethodPatch, controller, path, env, err)
	}
	logging.FromContext(ctx).Debug().Str("controller", controller).Str("path", path).Msg("entity updated")
	return nil
}

// DeleteEntity DELETEs controller/id.
func (c *Client) DeleteEntity(ctx context.Context, controller, id string) error {
	env, err := c.transport.Do(ctx, http.MethodDelete, joinPath(controller, id), nil, nil)
	if err != nil {
		return mapError(http.MethodDelete, controller, id, env, err)
	}
	logging.FromContext(ctx).Debug().Str("controller", controller).Str("id", id).Msg("entity deleted")
	return nil
}

// Controllers lists the rest names of the controllers the server exposes.
// The result is cached for the lifetime of the client.
func (c *Client) Controllers(ctx context.Context) ([]string, error) {
	if c.controllers != nil {
		return c.controllers, nil
	}
	env, err := c.transport.Do(ctx, http.MethodGet, "", nil, nil)
	if err != nil {
		return nil, mapError(http.MethodGet, "", "", env, err)
	}
	names, err := parseControllers(env)
	if err != nil {
		return nil, err
	}
	c.controllers = names
	return names, nil
}

type controllerInfo struct {
	Name     string `json:"name"`
	RestName string `json:"rest_name"`
}

// parseControllers accepts the controller list either as the payload
// itself or nested under a controllers key.
func parseControllers(env *transport.Envelope) ([]string, error) {
	var list []controllerInfo
	if bytes.HasPrefix(bytes.TrimSpace(env.Data), []byte("[")) {
		if err := env.DecodeData(&list); err != nil {
			return nil, err
		}
	} else {
		var nested struct {
			Controllers []controllerInfo `json:"controllers"`
		}
		if err := env.DecodeData(&nested); err != nil {
			return nil, err
		}
		list = nested.Controllers
	}

	names := make([]string, 0, len(list))
	for _, info := range list {
		name := info.RestName
		if name == "" {
			name = info.Name
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// notFoundMessage matches the phrasing phpIPAM uses for empty lookups,
// e.g. "No subnets found" or "Address not found".
var notFoundMessage = regexp.MustCompile(`(?i)(not found|no .*found|does not exist)`)

// mapError turns API failures that mean "nothing there" into NotFoundError.
// A 404 means not found for every method. The message heuristic applies to
// lookups only, since a failed write quoting a missing reference is an error.
func mapError(method, controller, path string, env *transport.Envelope, err error) error {
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	message := apiErr.Message
	if env != nil && env.Message != "" {
		message = env.Message
	}
	lookup := method == http.MethodGet && apiErr.StatusCode < 500 && notFoundMessage.MatchString(message)
	if apiErr.StatusCode == http.StatusNotFound || lookup {
		return &errors.NotFoundError{Resource: controller, ID: strings.Trim(path, "/")}
	}
	return err
}

// joinPath builds controller/path, keeping a trailing slash for the
// controller root.
func joinPath(controller, path string) string {
	controller = strings.Trim(controller, "/")
	path = strings.Trim(path, "/")
	if path == "" {
		if controller == "" {
			return ""
		}
		return controller + "/"
	}
	return controller + "/" + path + "/"
}
