package phpipam_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl/internal/phpipamtest"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/phpipam"
	"github.com/agentstation/ipamctl/pkg/schema"
)

func connect(t *testing.T, store *phpipamtest.Store) *phpipam.Client {
	t.Helper()
	srv := phpipamtest.NewServer(t, store)
	c, err := phpipam.New(srv.Config())
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))
	return c
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	srv := phpipamtest.NewServer(t, nil)
	cfg := srv.Config()
	cfg.Password = "wrong"

	c, err := phpipam.New(cfg)
	require.NoError(t, err)
	err = c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuthentication(err))
}

func TestGetEntity(t *testing.T) {
	store := phpipamtest.NewStore()
	store.Add("sections", schema.Entity{"name": "Customers", "description": "customer nets"})
	store.Add("devices", schema.Entity{"hostname": "sw01"})
	store.Add("devices", schema.Entity{"hostname": "sw02"})
	c := connect(t, store)
	ctx := context.Background()

	t.Run("single object", func(t *testing.T) {
		rec, err := c.GetEntity(ctx, "sections", "/Customers", nil)
		require.NoError(t, err)
		assert.False(t, rec.IsList)
		assert.Equal(t, "customer nets", rec.Entity["description"])
	})

	t.Run("filtered list", func(t *testing.T) {
		query := url.Values{"filter_by": {"hostname"}, "filter_value": {"sw02"}}
		rec, err := c.GetEntity(ctx, "devices", "/", query)
		require.NoError(t, err)
		require.True(t, rec.IsList)
		require.Len(t, rec.List, 1)
		assert.Equal(t, "sw02", rec.List[0]["hostname"])
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.GetEntity(ctx, "sections", "/Nope", nil)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestMutations(t *testing.T) {
	store := phpipamtest.NewStore()
	c := connect(t, store)
	ctx := context.Background()

	require.NoError(t, c.CreateEntity(ctx, "tools/locations", schema.Entity{"name": "DC1", "lat": 52.5}))
	locations := store.Records("tools/locations")
	require.Len(t, locations, 1)
	id := locations[0].ID("id")
	assert.Equal(t, "52.5", locations[0]["lat"])

	require.NoError(t, c.UpdateEntity(ctx, "tools/locations", id, schema.Entity{"description": "primary"}))
	loc, ok := store.Get("tools/locations", id)
	require.True(t, ok)
	assert.Equal(t, "primary", loc["description"])

	require.NoError(t, c.DeleteEntity(ctx, "tools/locations", id))
	assert.Empty(t, store.Records("tools/locations"))

	err := c.DeleteEntity(ctx, "tools/locations", id)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "deleting twice reports not found")

	methods := make([]string, 0, 4)
	for _, call := range store.Mutations() {
		methods = append(methods, call.Method)
	}
	assert.Equal(t, []string{"POST", "PATCH", "DELETE", "DELETE"}, methods)
}

func TestUpdateWithIDInBody(t *testing.T) {
	store := phpipamtest.NewStore()
	id := store.Add("subnets", schema.Entity{"subnet": "10.0.0.0", "mask": "24"})
	c := connect(t, store)

	err := c.UpdateEntity(context.Background(), "subnets", "/", schema.Entity{"id": id, "description": "lan"})
	require.NoError(t, err)

	sub, _ := store.Get("subnets", id)
	assert.Equal(t, "lan", sub["description"])
}

func TestControllers(t *testing.T) {
	store := phpipamtest.NewStore()
	store.SetControllers("sections", "tools")
	c := connect(t, store)

	names, err := c.Controllers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sections", "tools"}, names)

	// cached
	store.SetControllers("sections")
	names, err = c.Controllers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sections", "tools"}, names)
}

func TestCreateRejectedWithMissingReference(t *testing.T) {
	store := phpipamtest.NewStore()
	store.BeforeMutation = func(phpipamtest.Call) error {
		return &errors.APIError{StatusCode: 400, Message: "Section does not exist"}
	}
	c := connect(t, store)

	err := c.CreateEntity(context.Background(), "subnets", schema.Entity{"subnet": "10.0.0.0", "mask": "24"})
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err), "a rejected write is not a missing entity")

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Section does not exist")
}
