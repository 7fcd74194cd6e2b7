// Package reconciler drives one phpIPAM entity towards its desired state.
// It resolves references, looks up the current entity, diffs it against
// the desired one and issues the create, update or delete call needed,
// recording redacted before and after snapshots.
package reconciler

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
	"github.com/agentstation/ipamctl/pkg/params"
	"github.com/agentstation/ipamctl/pkg/phpipam"
	"github.com/agentstation/ipamctl/pkg/resolver"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Reconciler is the main interface for ensuring the state of an entity.
type Reconciler interface {
	// Run reconciles validated params and reports what changed.
	Run(ctx context.Context, p params.Params) (*changeset.Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	api       phpipam.API
	module    *schema.Module
	resolver  *resolver.Resolver
	differ    changeset.Differ
	check     bool
	preflight bool
}

// New creates a Reconciler for module with options.
func New(api phpipam.API, module *schema.Module, opts ...Option) (Reconciler, error) {
	if api == nil {
		return nil, &errors.ValidationError{Field: "api", Message: "cannot be nil"}
	}
	if module == nil {
		return nil, &errors.ValidationError{Field: "module", Message: "cannot be nil"}
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	res := options.resolver
	if res == nil {
		res = resolver.New(api)
	}

	return &reconciler{
		api:       api,
		module:    module,
		resolver:  res,
		differ:    options.differ,
		check:     options.check,
		preflight: options.preflight,
	}, nil
}

// run holds the state of a single invocation.
type run struct {
	*reconciler
	params   params.Params
	uri      string
	recorder *changeset.Recorder
	logger   *zerolog.Logger
}

// Run performs reconciliation with a clean step-by-step flow.
func (r *reconciler) Run(ctx context.Context, p params.Params) (*changeset.Result, error) {
	uri := r.module.ControllerURI()
	ctx = logging.WithController(logging.WithModule(ctx, r.module.Name), uri)

	// Step 1: Validate the desired state
	state, err := ParseState(p.String(params.State))
	if err != nil {
		return nil, err
	}

	// Step 2: Make sure the server knows the controller
	if err := r.checkController(ctx); err != nil {
		return nil, err
	}

	rn := &run{
		reconciler: r,
		params:     p,
		uri:        uri,
		recorder:   changeset.NewRecorder(r.module.SensitiveKeys()...),
		logger:     logging.FromContext(ctx),
	}

	// Step 3: Nothing can exist below a parent that does not exist
	if state == StateAbsent {
		missing, err := rn.parentMissing(ctx)
		if err != nil {
			return nil, err
		}
		if missing {
			rn.logger.Debug().Str("parent", p.String("parent")).Msg("parent does not exist, nothing to remove")
			return rn.recorder.Result(), nil
		}
	}

	// Step 4: Resolve references into the desired entity
	desired, err := r.resolver.Desired(ctx, r.module, p)
	if err != nil {
		return nil, err
	}

	// Step 5: Ensure the state
	if err := rn.ensure(ctx, state, desired); err != nil {
		return nil, err
	}
	return rn.recorder.Result(), nil
}

// checkController fails when the server does not advertise the module's
// root controller. An empty listing skips the check.
func (r *reconciler) checkController(ctx context.Context) error {
	if !r.preflight {
		return nil
	}
	names, err := r.api.Controllers(ctx)
	if err != nil {
		return errors.WrapResource("list", "controllers", "", err)
	}
	if len(names) == 0 {
		logging.FromContext(ctx).Debug().Msg("server lists no controllers, skipping preflight")
		return nil
	}
	root := r.module.RootController()
	if !slices.Contains(names, root) {
		return &errors.DependencyError{
			Dependency: "controller " + root,
			Message:    fmt.Sprintf("the server doesn't know anything about controller '%s'", root),
		}
	}
	return nil
}

// parentMissing reports whether the module has an entity parent that was
// given but does not resolve.
func (rn *run) parentMissing(ctx context.Context) (bool, error) {
	f, ok := rn.module.Field("parent")
	if !ok || f.Kind != schema.KindEntity || !rn.params.Has("parent") {
		return false, nil
	}
	parent, err := rn.resolver.ResolveEntity(ctx, rn.module, f, rn.params.String("parent"), rn.params)
	if err != nil {
		return false, err
	}
	return parent == nil, nil
}
