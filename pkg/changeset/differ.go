package changeset

import (
	"sort"

	"github.com/agentstation/ipamctl/pkg/schema"
)

// Differ handles change detection between entities.
type Differ interface {
	// Entities returns the desired fields whose value differs from current.
	Entities(current, desired schema.Entity) Fields
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Entities compares by string form, since phpIPAM echoes every scalar as a
// string. A field missing from current always counts as changed. Fields
// only present in current are left alone.
func (d *differ) Entities(current, desired schema.Entity) Fields {
	keys := make([]string, 0, len(desired))
	for k := range desired {
		if !d.ignoreFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var changes Fields
	for _, k := range keys {
		want := schema.ValueString(desired[k])
		have, ok := current[k]
		switch {
		case !ok:
			changes = append(changes, FieldChange{Field: k, NewValue: want, Type: ChangeTypeAdd, Value: desired[k]})
		case schema.ValueString(have) != want:
			changes = append(changes, FieldChange{
				Field:    k,
				OldValue: schema.ValueString(have),
				NewValue: want,
				Type:     ChangeTypeUpdate,
				Value:    desired[k],
			})
		}
	}
	return changes
}
