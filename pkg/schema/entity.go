package schema

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cast"
)

// Entity is a single phpIPAM record keyed by remote field name.
type Entity map[string]any

// Clone returns a shallow copy of e. A nil entity clones to nil.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// ID returns the string form of the identifier stored under key.
func (e Entity) ID(key string) string {
	v, ok := e[key]
	if !ok || v == nil {
		return ""
	}
	return ValueString(v)
}

// Has reports whether key is present.
func (e Entity) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// ValueString renders a value the way phpIPAM echoes it back: every scalar
// as a string, nil as empty, bools as 1 or 0, lists joined with commas.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return "0"
	case json.Number:
		return val.String()
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = ValueString(item)
		}
		return strings.Join(parts, ",")
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
