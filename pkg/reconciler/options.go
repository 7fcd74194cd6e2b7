package reconciler

import (
	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/resolver"
)

// options configures a reconciler.
type options struct {
	check     bool
	preflight bool
	resolver  *resolver.Resolver
	differ    changeset.Differ
}

func defaultOptions() *options {
	return &options{
		preflight: true,
		differ:    changeset.New(changeset.WithIgnoredFields("parent")),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithCheckMode reports what would change without issuing mutations.
func WithCheckMode(enabled bool) Option {
	return func(o *options) error {
		o.check = enabled
		return nil
	}
}

// WithPreflight toggles the check that the server knows the module's controller.
func WithPreflight(enabled bool) Option {
	return func(o *options) error {
		o.preflight = enabled
		return nil
	}
}

// WithResolver shares a resolver, and its lookup cache, between runs.
func WithResolver(r *resolver.Resolver) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{
				Field:   "resolver",
				Message: "cannot be nil",
			}
		}
		o.resolver = r
		return nil
	}
}

// WithDiffer replaces the field comparison.
func WithDiffer(d changeset.Differ) Option {
	return func(o *options) error {
		if d == nil {
			return &errors.ValidationError{
				Field:   "differ",
				Message: "cannot be nil",
			}
		}
		o.differ = d
		return nil
	}
}
