// Package resolver maps human friendly parameter values (section names,
// CIDRs, VLAN numbers, hostnames) onto the numeric identifiers phpIPAM
// expects, and finds the current entity of a module by its natural key.
//
// Lookups never treat a missing entity as an error: absence is reported as
// a nil entity. Only references that must exist produce errors.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
	"github.com/agentstation/ipamctl/pkg/phpipam"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Controller URIs with dedicated lookup strategies.
const (
	sectionsController    = "sections"
	subnetsController     = "subnets"
	addressesController   = "addresses"
	devicesController     = "devices"
	deviceTypesController = "tools/device_types"
	tagsController        = "tools/tags"
	vlanController        = "vlan"
	vrfController         = "vrf"
	l2domainsController   = "l2domains"
)

// idAliases lists controllers whose records carry their identifier under
// another name. Lookups copy it to "id".
var idAliases = map[string]string{
	deviceTypesController: "tid",
	vlanController:        "vlanId",
	vrfController:         "vrfId",
}

// Filter narrows a list response client side.
type Filter struct {
	By    string
	Value string
}

// Resolver performs read-only lookups. Positive results are cached per
// controller until Invalidate is called.
type Resolver struct {
	api   phpipam.API
	cache map[string]map[string]schema.Entity
}

// New creates a resolver over api.
func New(api phpipam.API) *Resolver {
	return &Resolver{
		api:   api,
		cache: make(map[string]map[string]schema.Entity),
	}
}

// Invalidate drops cached lookups of a controller. Called after it was mutated.
func (r *Resolver) Invalidate(controller string) {
	delete(r.cache, controller)
}

// FindEntity gets controller/path. A not-found answer, or a list emptied
// by the filter, is absence. An unfiltered empty list is an error, and
// otherwise the first element wins.
func (r *Resolver) FindEntity(ctx context.Context, controller, path string, query url.Values, filter *Filter) (schema.Entity, error) {
	rec, err := r.api.GetEntity(ctx, controller, path, query)
	if err != nil {
		if errors.IsNotFound(err) {
			logging.FromContext(ctx).Debug().
				Str("controller", controller).
				Str("path", path).
				Msg("lookup found nothing")
			return nil, nil
		}
		return nil, errors.WrapResource("lookup", controller, path, err)
	}

	if !rec.IsList {
		return rec.Entity, nil
	}

	list := rec.List
	if len(list) >= 1 && filter != nil {
		var kept []schema.Entity
		for _, e := range list {
			if schema.ValueString(e[filter.By]) == filter.Value {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			return nil, nil
		}
		list = kept
	}
	if len(list) == 0 {
		return nil, errors.NewResourceError("lookup", controller, path,
			fmt.Errorf("found no results while searching for %s at %s", controller, path))
	}
	return list[0], nil
}

// FindByKey looks an entity up with the server side filter_by and
// filter_value query parameters.
func (r *Resolver) FindByKey(ctx context.Context, controller, value, key string) (schema.Entity, error) {
	if key == "" {
		key = "name"
	}
	query := url.Values{
		"filter_by":    {key},
		"filter_value": {value},
	}
	return r.FindEntity(ctx, controller, "/", query, nil)
}

// FindSection looks a section up by name or id.
func (r *Resolver) FindSection(ctx context.Context, name string) (schema.Entity, error) {
	return r.cached(ctx, sectionsController, name, func() (schema.Entity, error) {
		return r.FindEntity(ctx, sectionsController, segment(name), nil, nil)
	})
}

// FindSubnet looks a subnet up by CIDR within a section. Both IPv4 and IPv6
// work. The section must exist.
func (r *Resolver) FindSubnet(ctx context.Context, subnet, mask, section string) (schema.Entity, error) {
	sec, err := r.FindSection(ctx, section)
	if err != nil {
		return nil, err
	}
	if sec == nil || sec.ID("id") == "" {
		return nil, errors.NewUnresolvedReferenceError("section", section, sectionsController)
	}

	query := url.Values{
		"filter_by":    {"sectionId"},
		"filter_value": {sec.ID("id")},
	}
	return r.FindEntity(ctx, subnetsController, fmt.Sprintf("cidr/%s/%s", subnet, mask), query, nil)
}

// FindAddress looks an address up by IP.
func (r *Resolver) FindAddress(ctx context.Context, ip string) (schema.Entity, error) {
	return r.FindEntity(ctx, addressesController, "search/"+ip, nil, nil)
}

// FindDevice looks a device up by hostname.
func (r *Resolver) FindDevice(ctx context.Context, hostname string) (schema.Entity, error) {
	return r.FindByKey(ctx, devicesController, hostname, "hostname")
}

// FindDeviceType looks a device type up by name.
func (r *Resolver) FindDeviceType(ctx context.Context, name string) (schema.Entity, error) {
	e, err := r.FindByKey(ctx, deviceTypesController, name, "tname")
	return withID(deviceTypesController, e), err
}

// FindVLAN looks a VLAN up by number within an L2 domain. The same number
// may exist in several domains; the domain itself must exist.
func (r *Resolver) FindVLAN(ctx context.Context, number, domain string) (schema.Entity, error) {
	if domain == "" {
		domain = constants.DefaultRoutingDomain
	}
	dom, err := r.cached(ctx, l2domainsController, domain, func() (schema.Entity, error) {
		return r.FindByKey(ctx, l2domainsController, domain, "name")
	})
	if err != nil {
		return nil, err
	}
	if dom == nil {
		return nil, &errors.UnresolvedReferenceError{
			Param:      "routing_domain",
			Value:      domain,
			Controller: l2domainsController,
			Err:        fmt.Errorf("found no results while searching for routing domain '%s'", domain),
		}
	}

	query := url.Values{
		"filter_by":    {"domainId"},
		"filter_value": {dom.ID("id")},
	}
	e, err := r.FindEntity(ctx, vlanController, "/", query, &Filter{By: "number", Value: number})
	return withID(vlanController, e), err
}

// FindVRF looks a VRF up by name.
func (r *Resolver) FindVRF(ctx context.Context, name string) (schema.Entity, error) {
	e, err := r.FindByKey(ctx, vrfController, name, "name")
	return withID(vrfController, e), err
}

// cached memoizes positive lookups of controller by key.
func (r *Resolver) cached(ctx context.Context, controller, key string, lookup func() (schema.Entity, error)) (schema.Entity, error) {
	if byKey, ok := r.cache[controller]; ok {
		if e, ok := byKey[key]; ok {
			return e, nil
		}
	}
	e, err := lookup()
	if err != nil || e == nil {
		return e, err
	}
	if r.cache[controller] == nil {
		r.cache[controller] = make(map[string]schema.Entity)
	}
	r.cache[controller][key] = e
	logging.FromContext(ctx).Trace().Str("controller", controller).Str("key", key).Msg("cached lookup")
	return e, nil
}

// withID copies a controller specific identifier to "id".
func withID(controller string, e schema.Entity) schema.Entity {
	if e == nil {
		return nil
	}
	alias, ok := idAliases[controller]
	if !ok {
		return e
	}
	if v, ok := e[alias]; ok {
		e["id"] = v
	}
	return e
}

// splitCIDR splits "10.0.0.0/24" into subnet and mask.
func splitCIDR(param, value string) (string, string, error) {
	subnet, mask, ok := strings.Cut(value, "/")
	if !ok || subnet == "" || mask == "" {
		return "", "", &errors.ValidationError{
			Field:   param,
			Value:   value,
			Message: "must be given in CIDR notation, e.g. 10.0.0.0/24",
		}
	}
	return subnet, mask, nil
}

// segment turns a user supplied name or id into one escaped path segment.
func segment(value string) string {
	return "/" + url.PathEscape(value)
}
