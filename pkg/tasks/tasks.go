// Package tasks loads declarative task files. A task names a module and
// the parameters of one reconciliation; a file holds one task, a list of
// tasks, or a mapping with a "tasks" list.
package tasks

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"

	"github.com/agentstation/ipamctl/pkg/errors"
)

// Task is one declared reconciliation.
type Task struct {
	Name   string         `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`
	Module string         `mapstructure:"module" yaml:"module" json:"module"`
	Params map[string]any `mapstructure:"params" yaml:"params" json:"params"`
}

// Label returns the task name, falling back to the module name.
func (t Task) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Module
}

// Load reads and parses the task file at path.
func Load(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes task file content. A mapping without a module key is read
// as bare parameters and yields a single task with an empty module.
func Parse(data []byte, source string) ([]Task, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse("yaml", source, err)
	}

	switch v := normalize(raw).(type) {
	case nil:
		return nil, nil
	case []any:
		return decodeList(v, source)
	case map[string]any:
		if list, ok := v["tasks"]; ok {
			items, ok := list.([]any)
			if !ok {
				return nil, errors.NewParseError("yaml", source, "tasks must be a list", nil)
			}
			return decodeList(items, source)
		}
		if _, ok := v["module"]; !ok {
			return []Task{{Params: v}}, nil
		}
		t, err := decode(v, source, 0)
		if err != nil {
			return nil, err
		}
		return []Task{t}, nil
	}
	return nil, errors.NewParseError("yaml", source, "expected a task, a list of tasks or a tasks mapping", nil)
}

func decodeList(items []any, source string) ([]Task, error) {
	out := make([]Task, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errors.NewParseError("yaml", source, fmt.Sprintf("task %d is not a mapping", i+1), nil)
		}
		t, err := decode(m, source, i)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func decode(m map[string]any, source string, index int) (Task, error) {
	var t Task
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &t,
		ErrorUnused: true,
	})
	if err != nil {
		return Task{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Task{}, errors.NewParseError("yaml", source, fmt.Sprintf("task %d: %v", index+1, err), err)
	}
	if t.Module == "" {
		return Task{}, errors.NewParseError("yaml", source, fmt.Sprintf("task %d has no module", index+1), nil)
	}
	if t.Params == nil {
		t.Params = map[string]any{}
	}
	return t, nil
}

// normalize turns decoded YAML into string keyed maps all the way down.
func normalize(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[cast.ToString(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	}
	return v
}
