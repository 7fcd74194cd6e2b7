// Package ipamctl reconciles declared phpIPAM entities. A Client opens one
// API session and runs tasks against it: each task names a module and the
// parameters of the entity it manages, and is driven to its desired state
// by the reconciler.
package ipamctl

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
	"github.com/agentstation/ipamctl/pkg/modules"
	"github.com/agentstation/ipamctl/pkg/params"
	"github.com/agentstation/ipamctl/pkg/phpipam"
	"github.com/agentstation/ipamctl/pkg/reconciler"
	"github.com/agentstation/ipamctl/pkg/resolver"
	"github.com/agentstation/ipamctl/pkg/tasks"
)

// Client reconciles entities against one phpIPAM application
type Client interface {
	// Ensure reconciles a single module invocation
	Ensure(ctx context.Context, module string, input map[string]any) (*changeset.Result, error)

	// Apply runs tasks in order and stops at the first failure
	Apply(ctx context.Context, list []tasks.Task) ([]TaskResult, error)

	// OnEntityCreated registers a callback for created entities
	OnEntityCreated(EntityCreatedHook)

	// OnEntityUpdated registers a callback for updated entities
	OnEntityUpdated(EntityUpdatedHook)

	// OnEntityDeleted registers a callback for deleted entities
	OnEntityDeleted(EntityDeletedHook)
}

// TaskResult is the outcome of one task of Apply
type TaskResult struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Module string `json:"module" yaml:"module"`
	*changeset.Result `yaml:",inline"`
}

// client is the internal implementation of the Client interface
type client struct {
	config   *config
	api      phpipam.API
	resolver *resolver.Resolver
	hooks    *hooks

	mu        sync.Mutex
	connected bool
}

// connector is implemented by APIs that need a session before use
type connector interface {
	Connect(ctx context.Context) error
}

// New creates a Client with the given options
func New(opts ...Option) (Client, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	api := cfg.api
	if api == nil {
		pc, err := phpipam.New(cfg.transport)
		if err != nil {
			return nil, err
		}
		api = pc
	}

	return &client{
		config:   cfg,
		api:      api,
		resolver: resolver.New(api),
		hooks:    newHooks(),
	}, nil
}

// Ensure implements Client
func (c *client) Ensure(ctx context.Context, module string, input map[string]any) (*changeset.Result, error) {
	m, err := modules.Get(module)
	if err != nil {
		return nil, err
	}

	// connection arguments in a task are superseded by the client's session
	p, err := m.Arguments().Validate(params.Params(input).Without(params.ConnectionSpec().Names()...))
	if err != nil {
		return nil, err
	}

	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	r, err := reconciler.New(c.api, m,
		reconciler.WithResolver(c.resolver),
		reconciler.WithCheckMode(c.config.check),
		reconciler.WithPreflight(c.config.preflight),
	)
	if err != nil {
		return nil, err
	}

	res, err := r.Run(ctx, p)
	if err != nil {
		return nil, err
	}
	if !c.config.check {
		c.hooks.trigger(m.Name, m.ControllerURI(), res)
	}
	return res, nil
}

// Apply implements Client
func (c *client) Apply(ctx context.Context, list []tasks.Task) ([]TaskResult, error) {
	results := make([]TaskResult, 0, len(list))
	for i, t := range list {
		taskCtx := logging.WithTask(ctx, t.Label())
		logging.FromContext(taskCtx).Debug().Int("index", i+1).Str("module", t.Module).Msg("running task")

		res, err := c.Ensure(taskCtx, t.Module, t.Params)
		if err != nil {
			return results, fmt.Errorf("task %d (%s): %w", i+1, t.Label(), err)
		}
		results = append(results, TaskResult{Name: t.Name, Module: t.Module, Result: res})
	}
	return results, nil
}

// connect opens the API session once per client
func (c *client) connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}
	if conn, ok := c.api.(connector); ok {
		if err := conn.Connect(ctx); err != nil {
			return err
		}
	}
	c.connected = true
	return nil
}

// ConnectionFromParams validates connection arguments, applying the
// PHPIPAM_* environment fallbacks, and returns the matching option.
func ConnectionFromParams(input map[string]any) (Option, error) {
	p, err := params.ConnectionSpec().Validate(input)
	if err != nil {
		return nil, err
	}
	if p.String(params.ServerURL) == "" {
		return nil, &errors.ValidationError{Field: params.ServerURL, Message: "cannot be empty"}
	}
	return WithConnection(
		p.String(params.ServerURL),
		p.String(params.AppID),
		p.String(params.Username),
		p.String(params.Password),
		p.Bool(params.ValidateCerts),
	), nil
}
