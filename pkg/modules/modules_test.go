package modules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/modules"
	"github.com/agentstation/ipamctl/pkg/schema"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"address", "device", "device_type", "l2domain", "location",
		"nameserver", "section", "subnet", "tag", "vlan", "vrf",
	}, modules.Names())

	m, err := modules.Get("subnet")
	require.NoError(t, err)
	assert.Equal(t, "subnets", m.ControllerURI())

	_, err = modules.Get("rack")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	err = modules.Register(modules.Section())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestControllerURIs(t *testing.T) {
	want := map[string]string{
		"section":     "sections",
		"subnet":      "subnets",
		"address":     "addresses",
		"device":      "devices",
		"device_type": "tools/device_types",
		"vlan":        "vlan",
		"vrf":         "vrf",
		"l2domain":    "l2domains",
		"tag":         "tools/tags",
		"location":    "tools/locations",
		"nameserver":  "tools/nameservers",
	}
	for name, uri := range want {
		m, err := modules.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, uri, m.ControllerURI(), name)
	}
}

func TestSchemasAreConsistent(t *testing.T) {
	for _, m := range modules.All() {
		t.Run(m.Name, func(t *testing.T) {
			seen := map[string]bool{}
			for _, f := range m.Fields {
				assert.False(t, seen[f.Name], "duplicate field %s", f.Name)
				seen[f.Name] = true

				if f.Kind == schema.KindEntityList {
					assert.NotEmpty(t, f.Controller, "entity list %s needs a controller", f.Name)
				}
			}
			// every module must accept the state flag
			_, ok := m.Arguments().Lookup("state")
			assert.True(t, ok)
		})
	}
}

func TestDeviceTypeUsesTid(t *testing.T) {
	m := modules.DeviceType()
	assert.Equal(t, "tid", m.IDField())
	_, ok := m.Arguments().Lookup("id")
	assert.False(t, ok, "id is not a user argument")
}

func TestSensitiveDeviceFields(t *testing.T) {
	keys := modules.Device().SensitiveKeys()
	assert.Contains(t, keys, "snmp_community")
	assert.Contains(t, keys, "snmpCommunity")
	assert.Contains(t, keys, "snmpV3AuthPass")
}
