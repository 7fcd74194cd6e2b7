package resolver

import (
	"context"
	"strings"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/params"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// FindCurrent looks up the entity a module manages by its natural key.
// A nil entity means it does not exist yet.
func (r *Resolver) FindCurrent(ctx context.Context, m *schema.Module, p params.Params) (schema.Entity, error) {
	uri := m.ControllerURI()
	name := p.String("name")

	switch m.ControllerName() {
	case "subnet":
		return r.FindSubnet(ctx, p.String("subnet"), p.String("mask"), p.String("section"))
	case "address":
		return r.FindAddress(ctx, p.String("ipaddress"))
	case "device":
		return r.FindDevice(ctx, p.String("hostname"))
	case "tools/device_type":
		return r.FindDeviceType(ctx, name)
	case "tools/tag":
		return r.FindByKey(ctx, uri, name, "type")
	case "vlan":
		return r.FindVLAN(ctx, p.String("vlan_id"), p.StringOr("routing_domain", constants.DefaultRoutingDomain))
	case "vrf":
		return r.FindVRF(ctx, name)
	}

	if m.IsTools() || m.ControllerName() == "l2domain" {
		return r.FindByKey(ctx, uri, name, "name")
	}
	return r.FindEntity(ctx, uri, segment(name), nil, nil)
}

// ResolveEntity resolves one referenced value of field f. A nil entity
// means nothing by that name exists.
func (r *Resolver) ResolveEntity(ctx context.Context, m *schema.Module, f schema.Field, value string, p params.Params) (schema.Entity, error) {
	controller := m.FieldController(f)

	switch {
	case controller == subnetsController:
		subnet, mask, err := splitCIDR(f.Name, value)
		if err != nil {
			return nil, err
		}
		return r.cached(ctx, controller, p.String("section")+"|"+value, func() (schema.Entity, error) {
			return r.FindSubnet(ctx, subnet, mask, p.String("section"))
		})
	case controller == deviceTypesController:
		return r.cached(ctx, controller, value, func() (schema.Entity, error) {
			return r.FindDeviceType(ctx, value)
		})
	case controller == tagsController:
		return r.cached(ctx, controller, value, func() (schema.Entity, error) {
			return r.FindByKey(ctx, controller, value, "type")
		})
	case controller == vlanController:
		domain := p.StringOr("routing_domain", constants.DefaultRoutingDomain)
		return r.cached(ctx, controller, domain+"|"+value, func() (schema.Entity, error) {
			return r.FindVLAN(ctx, value, domain)
		})
	case controller == devicesController:
		return r.cached(ctx, controller, value, func() (schema.Entity, error) {
			return r.FindDevice(ctx, value)
		})
	case controller == vrfController:
		return r.cached(ctx, controller, value, func() (schema.Entity, error) {
			return r.FindVRF(ctx, value)
		})
	case strings.Contains(controller, "tools") || controller == l2domainsController:
		return r.cached(ctx, controller, value, func() (schema.Entity, error) {
			return r.FindByKey(ctx, controller, value, "name")
		})
	case controller == sectionsController:
		return r.FindSection(ctx, value)
	}

	return r.cached(ctx, controller, value, func() (schema.Entity, error) {
		return r.FindEntity(ctx, controller, segment(value), nil, nil)
	})
}

// Resolve turns the value of an entity or entity_list field into the
// remote value to send: an id for entities, and for lists either the ids
// joined with the field separator (flatten) or the list of ids.
// Unknown references are fatal.
func (r *Resolver) Resolve(ctx context.Context, m *schema.Module, f schema.Field, p params.Params) (any, error) {
	if !p.Has(f.Name) {
		return nil, nil
	}

	switch f.Kind {
	case schema.KindEntity:
		value := p.String(f.Name)
		e, err := r.ResolveEntity(ctx, m, f, value, p)
		if err != nil {
			return nil, err
		}
		if e == nil || e.ID("id") == "" {
			return nil, errors.NewUnresolvedReferenceError(f.Name, value, m.FieldController(f))
		}
		return e.ID("id"), nil

	case schema.KindEntityList:
		values := p.Strings(f.Name)
		ids := make([]string, 0, len(values))
		for _, value := range values {
			e, err := r.ResolveEntity(ctx, m, f, value, p)
			if err != nil {
				return nil, err
			}
			if e == nil || e.ID("id") == "" {
				return nil, errors.NewUnresolvedReferenceError(f.Name, value, m.FieldController(f))
			}
			ids = append(ids, e.ID("id"))
		}
		if f.Flatten {
			return strings.Join(ids, f.ListSeparator()), nil
		}
		return ids, nil
	}

	return nil, &errors.ValidationError{Field: f.Name, Message: "is not an entity reference"}
}

// Desired builds the entity to send from validated params: absent and
// lookup-only params are skipped, references are resolved to ids, bools
// become "1" or "0" and plain lists are joined with their separator.
func (r *Resolver) Desired(ctx context.Context, m *schema.Module, p params.Params) (schema.Entity, error) {
	desired := schema.Entity{}
	for _, f := range m.Fields {
		if !p.Has(f.Name) || f.APIInvisible {
			continue
		}
		key := f.RemoteName()

		switch f.Kind {
		case schema.KindEntity, schema.KindEntityList:
			v, err := r.Resolve(ctx, m, f, p)
			if err != nil {
				return nil, err
			}
			desired[key] = v
		case schema.KindBool:
			desired[key] = schema.ValueString(p.Bool(f.Name))
		case schema.KindList:
			desired[key] = strings.Join(p.Strings(f.Name), f.ListSeparator())
		default:
			desired[key] = p[f.Name]
		}
	}
	return desired, nil
}
