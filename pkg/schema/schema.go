// Package schema describes phpIPAM modules declaratively: which parameters a
// module accepts, how each maps onto a remote field, and which parameters
// reference other entities that must be resolved to identifiers first.
package schema

import (
	"strings"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/params"
)

// Kind is the value kind of a module field.
type Kind string

// Field kinds. Entity kinds are resolved against another controller.
const (
	KindString     Kind = "str"
	KindInt        Kind = "int"
	KindBool       Kind = "bool"
	KindList       Kind = "list"
	KindEntity     Kind = "entity"
	KindEntityList Kind = "entity_list"
)

// Field is the static metadata of one module parameter.
type Field struct {
	Name string
	Kind Kind

	// Controller is the controller an entity field is resolved against.
	// Empty means the module's own controller.
	Controller string

	// PhpipamName is the remote field name. Defaults to the lowerCamelCase
	// form of Name when Name contains an underscore.
	PhpipamName string

	// Flatten joins list values (resolved IDs for entity lists) with Separator.
	Flatten   bool
	Separator string

	// APIInvisible fields take part in lookups but are never sent.
	APIInvisible bool
	// Invisible fields are not accepted as user arguments.
	Invisible bool
	// Sensitive values are redacted from every reported snapshot.
	Sensitive bool

	Required    bool
	Default     any
	Choices     []string
	Aliases     []string
	Elements    Kind
	Description string
}

// RemoteName returns the field name used on the wire.
func (f Field) RemoteName() string {
	if f.PhpipamName != "" {
		return f.PhpipamName
	}
	if strings.Contains(f.Name, "_") {
		return Camelize(f.Name)
	}
	return f.Name
}

// ListSeparator returns the separator used to flatten lists.
func (f Field) ListSeparator() string {
	if f.Separator != "" {
		return f.Separator
	}
	return constants.DefaultSeparator
}

// IsReference reports whether the field names other entities.
func (f Field) IsReference() bool {
	return f.Kind == KindEntity || f.Kind == KindEntityList
}

// Argument converts the field into the user facing argument it accepts.
// Entity fields take names, entity lists take lists of names.
func (f Field) Argument() params.Argument {
	arg := params.Argument{
		Name:        f.Name,
		Required:    f.Required,
		Default:     f.Default,
		Choices:     f.Choices,
		Aliases:     f.Aliases,
		Sensitive:   f.Sensitive,
		Description: f.Description,
	}
	switch f.Kind {
	case KindEntity:
		arg.Type = params.TypeString
	case KindEntityList:
		arg.Type = params.TypeList
		arg.Elements = params.TypeString
	case KindList:
		arg.Type = params.TypeList
		arg.Elements = params.Type(f.Elements)
		if f.Elements == "" {
			arg.Elements = params.TypeString
		}
	case KindInt:
		arg.Type = params.TypeInt
	case KindBool:
		arg.Type = params.TypeBool
	default:
		arg.Type = params.TypeString
	}
	return arg
}

// Module is the declarative schema of one manageable controller.
type Module struct {
	// Name is the singular snake_case entity name, e.g. "device_type".
	Name string
	// Tools marks sub-controllers of the phpIPAM tools controller.
	Tools bool
	// Description is a one line summary shown in module listings.
	Description string
	Fields      []Field
}

// ControllerName returns the singular controller name, e.g. "tools/device_type".
func (m *Module) ControllerName() string {
	if m.Tools {
		return "tools/" + m.Name
	}
	return m.Name
}

// ControllerURI returns the controller path used in API calls.
func (m *Module) ControllerURI() string {
	return Pluralize(m.ControllerName())
}

// RootController returns the top level controller the server must advertise.
func (m *Module) RootController() string {
	root, _, _ := strings.Cut(m.ControllerURI(), "/")
	return root
}

// IsTools reports whether the module manages a tools sub-controller.
func (m *Module) IsTools() bool {
	return strings.Contains(m.ControllerURI(), "tools")
}

// Field looks up a field by parameter name.
func (m *Module) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldController returns the controller an entity field resolves against.
// A field named parent always points at the module's own controller.
func (m *Module) FieldController(f Field) string {
	if f.Name == "parent" || f.Controller == "" {
		return m.ControllerURI()
	}
	return f.Controller
}

// IDField returns the remote name of the entity identifier.
func (m *Module) IDField() string {
	if f, ok := m.Field("id"); ok {
		return f.RemoteName()
	}
	return "id"
}

// SensitiveKeys returns both parameter and remote names of sensitive fields.
func (m *Module) SensitiveKeys() []string {
	var keys []string
	for _, f := range m.Fields {
		if !f.Sensitive {
			continue
		}
		keys = append(keys, f.Name)
		if remote := f.RemoteName(); remote != f.Name {
			keys = append(keys, remote)
		}
	}
	return keys
}

// Arguments returns the argument spec a module accepts: every visible
// field followed by the state flag.
func (m *Module) Arguments() params.Spec {
	spec := make(params.Spec, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		if f.Invisible {
			continue
		}
		spec = append(spec, f.Argument())
	}
	return append(spec, params.StateArgument())
}
