package ensure

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl"
	appcontext "github.com/agentstation/ipamctl/cmd/ipamctl/context"
	"github.com/agentstation/ipamctl/internal/cmd/alerts"
	"github.com/agentstation/ipamctl/internal/phpipamtest"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/schema"
)

func newMock(store *phpipamtest.Store, out *bytes.Buffer) *appcontext.MockContext {
	return &appcontext.MockContext{
		ClientFunc: func(opts ...ipamctl.Option) (ipamctl.Client, error) {
			return ipamctl.New(append([]ipamctl.Option{ipamctl.WithAPI(store)}, opts...)...)
		},
		Writer: out,
	}
}

func execute(t *testing.T, mock *appcontext.MockContext, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := NewCommand(mock)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(mock.Writer.(*bytes.Buffer).Bytes(), &decoded))
	require.Len(t, decoded, 1)
	return decoded[0], nil
}

func TestEnsureFromParams(t *testing.T) {
	store := phpipamtest.NewStore()
	var out bytes.Buffer

	res, err := execute(t, newMock(store, &out), "section", "-p", "name=Customers", "-p", "description=All customers")
	require.NoError(t, err)
	assert.Equal(t, "section", res["module"])
	assert.Equal(t, true, res["changed"])

	records := store.Records("sections")
	require.Len(t, records, 1)
	assert.Equal(t, "All customers", records[0]["description"])
}

func TestEnsureFromFile(t *testing.T) {
	store := phpipamtest.NewStore()
	store.Add("sections", schema.Entity{"id": "1", "name": "Customers", "description": "old"})

	path := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: customers section
module: section
params:
  name: Customers
  description: old
`), 0o600))

	var out bytes.Buffer
	res, err := execute(t, newMock(store, &out), "-f", path, "-p", "description=new")
	require.NoError(t, err)
	assert.Equal(t, "customers section", res["name"])
	assert.Equal(t, "update", res["action"])

	got, ok := store.Get("sections", "1")
	require.True(t, ok)
	assert.Equal(t, "new", got["description"])
}

func TestEnsureStateFlag(t *testing.T) {
	store := phpipamtest.NewStore()
	store.Add("sections", schema.Entity{"id": "1", "name": "Customers"})

	var out bytes.Buffer
	res, err := execute(t, newMock(store, &out), "section", "-p", "name=Customers", "--state", "absent")
	require.NoError(t, err)
	assert.Equal(t, "delete", res["action"])
	assert.Empty(t, store.Records("sections"))
}

func TestEnsureFailureSummary(t *testing.T) {
	store := phpipamtest.NewStore()
	var out, status bytes.Buffer
	mock := newMock(store, &out)
	mock.AlertWriter = alerts.NewWriterTo(&status, false)

	_, err := execute(t, mock, "subnet", "-p", "subnet=10.0.0.0", "-p", "mask=24", "-p", "section=Nowhere")
	require.Error(t, err)
	assert.Empty(t, out.String(), "no results are printed")
	assert.Contains(t, status.String(), "0 tasks completed, 0 changed before failure")
	assert.Contains(t, status.String(), "Nowhere")
	assert.Empty(t, store.Mutations())
}

func TestEnsureErrors(t *testing.T) {
	store := phpipamtest.NewStore()
	dir := t.TempDir()
	list := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(list, []byte(`
- module: section
  params: {name: a}
- module: section
  params: {name: b}
`), 0o600))
	vlan := filepath.Join(dir, "vlan.yaml")
	require.NoError(t, os.WriteFile(vlan, []byte("module: vlan\nparams: {name: v, vlan_id: 10}\n"), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{"no module", []string{"-p", "name=x"}},
		{"bad param", []string{"section", "-p", "name"}},
		{"task list", []string{"-f", list}},
		{"module mismatch", []string{"section", "-f", vlan}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := execute(t, newMock(store, &out), tt.args...)
			require.Error(t, err)
			var verr *errors.ValidationError
			assert.True(t, errors.As(err, &verr), "got %T", err)
		})
	}
	assert.Empty(t, store.Mutations())
}

func TestEnsureUnknownModule(t *testing.T) {
	var out bytes.Buffer
	_, err := execute(t, newMock(phpipamtest.NewStore(), &out), "router", "-p", "name=x")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
