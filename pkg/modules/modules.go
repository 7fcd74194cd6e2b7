// Package modules holds the declarative schemas of every phpIPAM entity
// ipamctl can manage, and a registry to look them up by name.
package modules

import (
	"sort"
	"sync"

	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/schema"
)

var (
	mu       sync.RWMutex
	registry = map[string]*schema.Module{}
)

func init() {
	for _, m := range []*schema.Module{
		Section(), Subnet(), Address(), Device(), DeviceType(),
		VLAN(), VRF(), L2Domain(), Tag(), Location(), Nameserver(),
	} {
		if err := Register(m); err != nil {
			panic(err)
		}
	}
}

// Register adds a module. Names must be unique.
func Register(m *schema.Module) error {
	if m == nil || m.Name == "" {
		return &errors.ValidationError{Field: "name", Message: "module name is required"}
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[m.Name]; exists {
		return &errors.ValidationError{Field: "name", Value: m.Name, Message: "module " + m.Name + " is already registered"}
	}
	registry[m.Name] = m
	return nil
}

// Get returns the module with the given name.
func Get(name string) (*schema.Module, error) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := registry[name]
	if !ok {
		return nil, errors.NewNotFoundError("module", name)
	}
	return m, nil
}

// All returns every registered module sorted by name.
func All() []*schema.Module {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]*schema.Module, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted module names.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name
	}
	return names
}
