package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/params"
)

func subnetSpec() params.Spec {
	return params.Spec{
		{Name: "subnet", Type: params.TypeString, Required: true},
		{Name: "mask", Type: params.TypeInt, Required: true},
		{Name: "is_folder", Type: params.TypeBool, Default: false},
		{Name: "description", Type: params.TypeString, Aliases: []string{"desc"}},
		{Name: "sections", Type: params.TypeList, Elements: params.TypeString},
		{Name: "vlans", Type: params.TypeList, Elements: params.TypeInt},
		{Name: "ordering", Type: params.TypeString, Choices: []string{"default", "subnet,asc"}},
		params.StateArgument(),
	}
}

func TestValidate(t *testing.T) {
	t.Run("coerces types and applies defaults", func(t *testing.T) {
		p, err := subnetSpec().Validate(map[string]any{
			"subnet": "10.0.0.0",
			"mask":   "24",
		})
		require.NoError(t, err)

		assert.Equal(t, "10.0.0.0", p["subnet"])
		assert.Equal(t, 24, p["mask"])
		assert.Equal(t, false, p["is_folder"])
		assert.Equal(t, "present", p["state"])
		assert.False(t, p.Has("description"))
	})

	t.Run("folds aliases", func(t *testing.T) {
		p, err := subnetSpec().Validate(map[string]any{
			"subnet": "10.0.0.0",
			"mask":   24,
			"desc":   "office lan",
		})
		require.NoError(t, err)
		assert.Equal(t, "office lan", p["description"])
		assert.False(t, p.Has("desc"))
	})

	t.Run("nil values count as absent", func(t *testing.T) {
		_, err := subnetSpec().Validate(map[string]any{"subnet": "10.0.0.0", "mask": nil})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Contains(t, err.Error(), "missing required arguments: mask")
	})

	t.Run("rejects unknown parameters", func(t *testing.T) {
		_, err := subnetSpec().Validate(map[string]any{
			"subnet": "10.0.0.0", "mask": 24, "gateway": "10.0.0.1", "vrf_name": "x",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported parameters: gateway, vrf_name")
	})

	t.Run("bool spellings", func(t *testing.T) {
		for raw, want := range map[any]bool{"yes": true, "no": false, "true": true, "0": false, 1: true} {
			p, err := subnetSpec().Validate(map[string]any{"subnet": "a", "mask": 8, "is_folder": raw})
			require.NoError(t, err, "value %v", raw)
			assert.Equal(t, want, p["is_folder"], "value %v", raw)
		}
	})

	t.Run("lists from strings and sequences", func(t *testing.T) {
		p, err := subnetSpec().Validate(map[string]any{
			"subnet":   "a",
			"mask":     8,
			"sections": "Customers, IPv6",
			"vlans":    []any{10, "20"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Customers", "IPv6"}, p["sections"])
		assert.Equal(t, []int{10, 20}, p["vlans"])
		assert.Equal(t, []string{"Customers", "IPv6"}, p.Strings("sections"))
	})

	t.Run("bad int", func(t *testing.T) {
		_, err := subnetSpec().Validate(map[string]any{"subnet": "a", "mask": "wide"})
		require.Error(t, err)
		var vErr *errors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "mask", vErr.Field)
	})

	t.Run("choices", func(t *testing.T) {
		_, err := subnetSpec().Validate(map[string]any{"subnet": "a", "mask": 8, "ordering": "random"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be one of: default, subnet,asc")
	})
}

func TestConnectionSpecEnvFallback(t *testing.T) {
	t.Setenv(constants.EnvServerURL, "https://ipam.example.com")
	t.Setenv(constants.EnvAppID, "ansible")
	t.Setenv(constants.EnvUsername, "admin")
	t.Setenv(constants.EnvPassword, "secret")
	t.Setenv(constants.EnvValidateCerts, "false")

	p, err := params.ConnectionSpec().Validate(map[string]any{"username": "explicit"})
	require.NoError(t, err)

	assert.Equal(t, "https://ipam.example.com", p.String(params.ServerURL))
	assert.Equal(t, "explicit", p.String(params.Username), "explicit values win over env")
	assert.Equal(t, "secret", p.String(params.Password))
	assert.False(t, p.Bool(params.ValidateCerts))
}

func TestConnectionSpecMissing(t *testing.T) {
	_, err := params.ConnectionSpec().Validate(map[string]any{"server_url": "https://ipam"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app_id")
	assert.Contains(t, err.Error(), "password")

	pw, ok := params.ConnectionSpec().Lookup(params.Password)
	require.True(t, ok)
	assert.True(t, pw.Sensitive)
}

func TestParamsHelpers(t *testing.T) {
	p := params.Params{"mask": 24, "name": "core", "state": "absent"}

	assert.Equal(t, "24", p.String("mask"))
	assert.Equal(t, "", p.String("missing"))
	assert.Equal(t, "default", p.StringOr("routing_domain", "default"))
	assert.Equal(t, "core", p.StringOr("name", "x"))

	trimmed := p.Without("state")
	assert.False(t, trimmed.Has("state"))
	assert.True(t, p.Has("state"), "Without must not modify the receiver")

	assert.Equal(t, []string{"server_url", "app_id", "username", "password", "validate_certs"},
		params.ConnectionSpec().Names())
}
