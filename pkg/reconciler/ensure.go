package reconciler

import (
	"context"

	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// ensure moves the current entity to state and records snapshots.
func (rn *run) ensure(ctx context.Context, state State, desired schema.Entity) error {
	current, err := rn.resolver.FindCurrent(ctx, rn.module, rn.params)
	if err != nil {
		return err
	}
	rn.recorder.RecordBefore(rn.uri, current)

	var updated schema.Entity
	switch state {
	case StatePresent:
		if current == nil {
			updated, err = rn.create(ctx, desired)
		} else {
			updated, err = rn.update(ctx, desired, current)
		}
	case StateAbsent:
		if current != nil {
			updated, err = nil, rn.delete(ctx, current)
		}
	}
	if err != nil {
		return err
	}

	rn.recorder.RecordAfter(rn.uri, updated)
	rn.recorder.RecordAfterFull(rn.uri, updated)
	return nil
}

// create POSTs desired and returns the entity as the server now has it.
func (rn *run) create(ctx context.Context, desired schema.Entity) (schema.Entity, error) {
	ctx = logging.WithOperation(ctx, "create")
	logger := logging.FromContext(ctx)

	if rn.check {
		logger.Info().Msg("would create entity")
		rn.recorder.SetChanged(changeset.ActionCreate)
		return desired.Clone(), nil
	}

	if err := rn.api.CreateEntity(ctx, rn.uri, desired); err != nil {
		return nil, errors.WrapResource("create", rn.uri, "", err)
	}
	rn.recorder.SetChanged(changeset.ActionCreate)
	rn.resolver.Invalidate(rn.uri)
	logger.Info().Msg("entity created")

	return rn.refetch(ctx)
}

// update PATCHes the fields that differ. The body carries the entity id
// on non-tools controllers and, for VLANs, the current name.
func (rn *run) update(ctx context.Context, desired, current schema.Entity) (schema.Entity, error) {
	ctx = logging.WithOperation(ctx, "update")
	logger := logging.FromContext(ctx)

	// phpIPAM reports l2domain permissions as sections but only accepts them as permissions
	if rn.module.ControllerName() == "l2domain" && desired.Has("permissions") {
		current = current.Clone()
		current["permissions"] = current["sections"]
	}

	changes := rn.differ.Entities(current, desired)
	if len(changes) == 0 {
		logger.Debug().Msg("entity is up to date")
		return current, nil
	}

	idField := rn.module.IDField()
	body := changes.Entity()
	if !rn.module.IsTools() {
		body[idField] = current[idField]
	}
	if rn.uri == "vlan" && !body.Has("name") {
		body["name"] = current["name"]
	}

	path := "/"
	if rn.module.IsTools() || rn.uri == "vlan" || rn.uri == "vrf" {
		path = current.ID(idField)
	}

	rn.recorder.SetFields(changes)
	if rn.check {
		logger.Info().Strs("fields", changes.Names()).Msg("would update entity")
		rn.recorder.SetChanged(changeset.ActionUpdate)
		projected := current.Clone()
		for k, v := range changes.Entity() {
			projected[k] = v
		}
		return projected, nil
	}

	if err := rn.api.UpdateEntity(ctx, rn.uri, path, body); err != nil {
		if errors.IsNotFound(err) {
			logger.Warn().Msg("entity vanished before update")
			return nil, nil
		}
		return nil, errors.WrapResource("update", rn.uri, current.ID(idField), err)
	}
	rn.recorder.SetChanged(changeset.ActionUpdate)
	rn.resolver.Invalidate(rn.uri)
	logger.Info().Strs("fields", changes.Names()).Msg("entity updated")

	return rn.refetch(ctx)
}

// delete removes current. An entity that vanished in between cannot be
// ensured absent and fails the run.
func (rn *run) delete(ctx context.Context, current schema.Entity) error {
	ctx = logging.WithOperation(ctx, "delete")
	logger := logging.FromContext(ctx)

	if rn.check {
		logger.Info().Msg("would delete entity")
		rn.recorder.SetChanged(changeset.ActionDelete)
		return nil
	}

	id := current.ID(rn.module.IDField())
	if err := rn.api.DeleteEntity(ctx, rn.uri, id); err != nil {
		if errors.IsNotFound(err) {
			return &errors.DeleteRaceError{Name: displayName(current), Controller: rn.uri, Err: err}
		}
		return errors.WrapResource("delete", rn.uri, id, err)
	}
	rn.recorder.SetChanged(changeset.ActionDelete)
	rn.resolver.Invalidate(rn.uri)
	logger.Info().Str("id", id).Msg("entity deleted")
	return nil
}

// refetch looks the entity up again after a mutation. Absence is not an
// error: the result simply has no current state.
func (rn *run) refetch(ctx context.Context) (schema.Entity, error) {
	entity, err := rn.resolver.FindCurrent(ctx, rn.module, rn.params)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if entity == nil {
		logging.FromContext(ctx).Warn().Msg("entity not found after mutation")
	}
	return entity, nil
}

// displayName picks the natural key of an entity for messages.
func displayName(e schema.Entity) string {
	for _, key := range []string{"name", "hostname", "ip", "tname", "type", "subnet", "number"} {
		if v := e.ID(key); v != "" {
			return v
		}
	}
	return e.ID("id")
}
