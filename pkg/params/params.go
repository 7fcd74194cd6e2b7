// Package params validates and normalizes the parameter set of a single
// reconciliation: connection arguments, the desired state flag and the
// arguments a module declares.
package params

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
)

// Type is the value type of an argument.
type Type string

// Supported argument types.
const (
	TypeString Type = "str"
	TypeInt    Type = "int"
	TypeBool   Type = "bool"
	TypeList   Type = "list"
)

// Argument describes one accepted parameter.
type Argument struct {
	Name        string   `json:"name" yaml:"name"`
	Type        Type     `json:"type" yaml:"type"`
	Elements    Type     `json:"elements,omitempty" yaml:"elements,omitempty"` // element type for lists
	Required    bool     `json:"required" yaml:"required"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Choices     []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Sensitive   bool     `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
	EnvFallback []string `json:"env,omitempty" yaml:"env,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Spec is an ordered set of arguments.
type Spec []Argument

// Params is a validated parameter set. Absent values are never stored.
type Params map[string]any

// Connection arguments shared by every module.
const (
	ServerURL     = "server_url"
	AppID         = "app_id"
	Username      = "username"
	Password      = "password"
	ValidateCerts = "validate_certs"
	State         = "state"
)

// ConnectionSpec returns the arguments needed to open an API session.
func ConnectionSpec() Spec {
	return Spec{
		{Name: ServerURL, Type: TypeString, Required: true, EnvFallback: []string{constants.EnvServerURL},
			Description: "URL of the phpIPAM server"},
		{Name: AppID, Type: TypeString, Required: true, EnvFallback: []string{constants.EnvAppID},
			Description: "API application id"},
		{Name: Username, Type: TypeString, Required: true, EnvFallback: []string{constants.EnvUsername},
			Description: "API user"},
		{Name: Password, Type: TypeString, Required: true, Sensitive: true, EnvFallback: []string{constants.EnvPassword},
			Description: "API password"},
		{Name: ValidateCerts, Type: TypeBool, Default: true, EnvFallback: []string{constants.EnvValidateCerts},
			Description: "verify the server TLS certificate"},
	}
}

// StateArgument is the desired state flag every entity module accepts.
// Its value is checked by the reconciler, which reports an invalid state
// with a dedicated error.
func StateArgument() Argument {
	return Argument{
		Name:        State,
		Type:        TypeString,
		Default:     "present",
		Description: "present or absent",
	}
}

// Names returns the canonical argument names in declaration order.
func (s Spec) Names() []string {
	names := make([]string, 0, len(s))
	for _, arg := range s {
		names = append(names, arg.Name)
	}
	return names
}

// Lookup finds an argument by name.
func (s Spec) Lookup(name string) (Argument, bool) {
	for _, arg := range s {
		if arg.Name == name {
			return arg, true
		}
	}
	return Argument{}, false
}

// Validate folds aliases, applies env fallbacks and defaults, coerces
// types and checks required arguments and choices. Unknown keys are
// rejected. The result never contains nil values or alias keys.
func (s Spec) Validate(input map[string]any) (Params, error) {
	known := make(map[string]string, len(s))
	for _, arg := range s {
		known[arg.Name] = arg.Name
		for _, alias := range arg.Aliases {
			known[alias] = arg.Name
		}
	}

	var unknown []string
	for key := range input {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &errors.ValidationError{
			Message: fmt.Sprintf("unsupported parameters: %s", strings.Join(unknown, ", ")),
		}
	}

	out := make(Params, len(s))
	var missing []string
	for _, arg := range s {
		raw, ok := lookupValue(arg, input)
		if !ok {
			if fallback, found := envFallback(arg); found {
				raw, ok = fallback, true
			} else if arg.Default != nil {
				raw, ok = arg.Default, true
			}
		}
		if !ok {
			if arg.Required {
				missing = append(missing, arg.Name)
			}
			continue
		}

		value, err := arg.coerce(raw)
		if err != nil {
			return nil, errors.WrapValidation(arg.Name, err)
		}
		if err := arg.checkChoices(value); err != nil {
			return nil, err
		}
		out[arg.Name] = value
	}

	if len(missing) > 0 {
		return nil, &errors.ValidationError{
			Message: fmt.Sprintf("missing required arguments: %s", strings.Join(missing, ", ")),
		}
	}
	return out, nil
}

// lookupValue returns the value given under the canonical name or, failing
// that, the first alias that carries one.
func lookupValue(arg Argument, input map[string]any) (any, bool) {
	if v, ok := input[arg.Name]; ok && v != nil {
		return v, true
	}
	for _, alias := range arg.Aliases {
		if v, ok := input[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func envFallback(arg Argument) (string, bool) {
	for _, name := range arg.EnvFallback {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
	}
	return "", false
}

func (arg Argument) coerce(raw any) (any, error) {
	switch arg.Type {
	case TypeInt:
		return cast.ToIntE(raw)
	case TypeBool:
		return toBool(raw)
	case TypeList:
		return toList(raw, arg.Elements)
	default:
		return cast.ToStringE(raw)
	}
}

// toList accepts a sequence or a comma separated string.
func toList(raw any, elements Type) (any, error) {
	if s, ok := raw.(string); ok {
		parts := strings.Split(s, ",")
		items := make([]any, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		raw = items
	}
	if elements == TypeInt {
		return cast.ToIntSliceE(raw)
	}
	return cast.ToStringSliceE(raw)
}

// toBool also accepts the yes/no spellings common in task files.
func toBool(raw any) (bool, error) {
	if s, ok := raw.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}
	}
	return cast.ToBoolE(raw)
}

func (arg Argument) checkChoices(value any) error {
	if len(arg.Choices) == 0 {
		return nil
	}
	s := cast.ToString(value)
	for _, choice := range arg.Choices {
		if s == choice {
			return nil
		}
	}
	return &errors.ValidationError{
		Field:   arg.Name,
		Value:   value,
		Message: fmt.Sprintf("value of %s must be one of: %s, got: %s", arg.Name, strings.Join(arg.Choices, ", "), s),
	}
}

// Has reports whether a value is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the string form of a value, or "" when absent.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// StringOr returns the string form of a value, or def when absent.
func (p Params) StringOr(key, def string) string {
	if !p.Has(key) {
		return def
	}
	return p.String(key)
}

// Strings returns a list value as strings.
func (p Params) Strings(key string) []string {
	v, ok := p[key]
	if !ok {
		return nil
	}
	return cast.ToStringSlice(v)
}

// Bool returns a bool value, false when absent.
func (p Params) Bool(key string) bool {
	b, _ := toBool(p[key])
	return b
}

// Without returns a copy of p without the given keys.
func (p Params) Without(keys ...string) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
