package changeset

import (
	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Recorder collects snapshots of one reconciliation. Every snapshot is a
// redacted copy; the recorded entities are never modified.
type Recorder struct {
	sensitive map[string]bool
	before    Snapshots
	after     Snapshots
	afterFull Snapshots
	changed   bool
	action    Action
	fields    Fields
}

// NewRecorder creates a recorder redacting the given keys. Pass both
// parameter and remote names of sensitive fields.
func NewRecorder(sensitiveKeys ...string) *Recorder {
	r := &Recorder{
		sensitive: make(map[string]bool, len(sensitiveKeys)),
		before:    Snapshots{},
		after:     Snapshots{},
		afterFull: Snapshots{},
		action:    ActionNone,
	}
	for _, k := range sensitiveKeys {
		r.sensitive[k] = true
	}
	return r
}

// Sanitize returns a copy of e with sensitive values replaced. A nil
// entity becomes an empty one.
func (r *Recorder) Sanitize(e schema.Entity) schema.Entity {
	out := schema.Entity{}
	for k, v := range e {
		if r.sensitive[k] {
			out[k] = constants.RedactedValue
			continue
		}
		out[k] = v
	}
	return out
}

// RecordBefore stores the pre-mutation state of controller.
func (r *Recorder) RecordBefore(controller string, e schema.Entity) {
	r.before[controller] = append(r.before[controller], r.Sanitize(e))
}

// RecordAfter stores the post-mutation state of controller.
func (r *Recorder) RecordAfter(controller string, e schema.Entity) {
	r.after[controller] = append(r.after[controller], r.Sanitize(e))
}

// RecordAfterFull stores the complete final entity reported as the result.
func (r *Recorder) RecordAfterFull(controller string, e schema.Entity) {
	if e == nil {
		return
	}
	r.afterFull[controller] = append(r.afterFull[controller], r.Sanitize(e))
}

// SetChanged marks the run as changed with the given action.
func (r *Recorder) SetChanged(action Action) {
	r.changed = true
	r.action = action
}

// SetFields stores the field changes of an update.
func (r *Recorder) SetFields(fields Fields) {
	r.fields = fields
}

// Changed reports whether anything changed.
func (r *Recorder) Changed() bool {
	return r.changed
}

// Result builds the structured outcome. The diff is present once any
// snapshot was recorded, the entity once a final entity was recorded.
func (r *Recorder) Result() *Result {
	res := &Result{
		Changed: r.changed,
		Action:  r.action,
		Fields:  r.redactFields(),
	}
	if len(r.before) > 0 || len(r.after) > 0 {
		res.Diff = &Diff{Before: r.before, After: r.after}
	}
	if len(r.afterFull) > 0 {
		res.Entity = r.afterFull
	}
	return res
}

func (r *Recorder) redactFields() Fields {
	if len(r.fields) == 0 {
		return nil
	}
	out := make(Fields, len(r.fields))
	for i, f := range r.fields {
		if r.sensitive[f.Field] {
			f.OldValue = constants.RedactedValue
			f.NewValue = constants.RedactedValue
			f.Value = constants.RedactedValue
		}
		out[i] = f
	}
	return out
}
