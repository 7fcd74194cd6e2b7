// Package changeset detects field level differences between a current and
// a desired phpIPAM entity, and records redacted before/after snapshots of
// a reconciliation for change reporting.
package changeset

import (
	"fmt"
	"strings"

	"github.com/agentstation/ipamctl/pkg/schema"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a field the current entity lacks.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a field whose value differs.
	ChangeTypeUpdate ChangeType = "update"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Field    string     `json:"field" yaml:"field"`                             // Remote field name
	OldValue string     `json:"old_value,omitempty" yaml:"old_value,omitempty"` // Previous value (string representation)
	NewValue string     `json:"new_value" yaml:"new_value"`                     // New value (string representation)
	Type     ChangeType `json:"type" yaml:"type"`                               // Type of change
	Value    any        `json:"-" yaml:"-"`                                     // Desired value as it will be sent
}

// Fields is an ordered list of field changes.
type Fields []FieldChange

// Entity returns the changed fields with their desired values.
func (f Fields) Entity() schema.Entity {
	out := make(schema.Entity, len(f))
	for _, c := range f {
		out[c.Field] = c.Value
	}
	return out
}

// Names returns the changed field names.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, c := range f {
		names[i] = c.Field
	}
	return names
}

// String returns a one line summary, e.g. "description: old -> new".
func (f Fields) String() string {
	if len(f) == 0 {
		return "No changes detected"
	}
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = fmt.Sprintf("%s: %q -> %q", c.Field, c.OldValue, c.NewValue)
	}
	return strings.Join(parts, ", ")
}

// Action is what a reconciliation did, or would do in check mode.
type Action string

// Actions.
const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Snapshots maps a controller URI to the entity copies recorded for it.
type Snapshots map[string][]schema.Entity

// Diff carries the before and after snapshots.
type Diff struct {
	Before Snapshots `json:"before" yaml:"before"`
	After  Snapshots `json:"after" yaml:"after"`
}

// Result is the structured outcome of one reconciliation.
type Result struct {
	Changed bool      `json:"changed" yaml:"changed"`
	Action  Action    `json:"action" yaml:"action"`
	Diff    *Diff     `json:"diff,omitempty" yaml:"diff,omitempty"`
	Entity  Snapshots `json:"entity,omitempty" yaml:"entity,omitempty"`
	Fields  Fields    `json:"fields,omitempty" yaml:"fields,omitempty"`
}
