package ipamctl

import (
	"sync"

	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Hook function types for entity events. Entities passed to hooks are the
// redacted snapshots of the result.
type (
	// EntityCreatedHook is called when a module created an entity
	EntityCreatedHook func(module string, entity schema.Entity)

	// EntityUpdatedHook is called when a module updated an entity
	EntityUpdatedHook func(module string, before, after schema.Entity, fields changeset.Fields)

	// EntityDeletedHook is called when a module deleted an entity
	EntityDeletedHook func(module string, entity schema.Entity)
)

// hooks manages event callbacks for entity changes
type hooks struct {
	mu              sync.RWMutex
	onEntityCreated []EntityCreatedHook
	onEntityUpdated []EntityUpdatedHook
	onEntityDeleted []EntityDeletedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnEntityCreated registers a callback for created entities
func (c *client) OnEntityCreated(fn EntityCreatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onEntityCreated = append(c.hooks.onEntityCreated, fn)
}

// OnEntityUpdated registers a callback for updated entities
func (c *client) OnEntityUpdated(fn EntityUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onEntityUpdated = append(c.hooks.onEntityUpdated, fn)
}

// OnEntityDeleted registers a callback for deleted entities
func (c *client) OnEntityDeleted(fn EntityDeletedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onEntityDeleted = append(c.hooks.onEntityDeleted, fn)
}

// trigger calls the hooks matching the action of res
func (h *hooks) trigger(module, controller string, res *changeset.Result) {
	if res == nil || !res.Changed || res.Diff == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	before := first(res.Diff.Before[controller])
	after := first(res.Diff.After[controller])

	switch res.Action {
	case changeset.ActionCreate:
		for _, hook := range h.onEntityCreated {
			hook(module, after)
		}
	case changeset.ActionUpdate:
		for _, hook := range h.onEntityUpdated {
			hook(module, before, after, res.Fields)
		}
	case changeset.ActionDelete:
		for _, hook := range h.onEntityDeleted {
			hook(module, before)
		}
	}
}

func first(list []schema.Entity) schema.Entity {
	if len(list) == 0 {
		return nil
	}
	return list[0]
}
