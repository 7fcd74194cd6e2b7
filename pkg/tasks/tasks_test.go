package tasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl/pkg/errors"
)

func TestParseList(t *testing.T) {
	data := []byte(`
- name: customers section
  module: section
  params:
    name: Customers
    strict_mode: false
- module: subnet
  params:
    subnet: 10.0.0.0
    mask: 24
    section: Customers
    state: absent
`)
	got, err := Parse(data, "tasks.yaml")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "customers section", got[0].Label())
	assert.Equal(t, "section", got[0].Module)
	assert.Equal(t, "Customers", got[0].Params["name"])
	assert.Equal(t, false, got[0].Params["strict_mode"])

	assert.Equal(t, "subnet", got[1].Label(), "unnamed tasks are labelled by module")
	assert.EqualValues(t, 24, got[1].Params["mask"])
	assert.Equal(t, "absent", got[1].Params["state"])
}

func TestParseTasksMapping(t *testing.T) {
	data := []byte(`
tasks:
  - module: vlan
    params: {vlan_id: 100, name: users}
`)
	got, err := Parse(data, "tasks.yaml")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vlan", got[0].Module)
	assert.Equal(t, "users", got[0].Params["name"])
}

func TestParseSingleTask(t *testing.T) {
	got, err := Parse([]byte("module: tag\nparams:\n  name: Reserved\n"), "tag.yaml")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tag", got[0].Module)
}

func TestParseBareParams(t *testing.T) {
	got, err := Parse([]byte("name: Customers\ndescription: all customers\n"), "section.yaml")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Module)
	assert.Equal(t, "all customers", got[0].Params["description"])
}

func TestParseEmptyParams(t *testing.T) {
	got, err := Parse([]byte("- module: section\n"), "tasks.yaml")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Params)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "invalid yaml", data: "- module: [section\n"},
		{name: "scalar", data: "section\n"},
		{name: "task without module", data: "- params: {name: x}\n"},
		{name: "unknown task key", data: "- module: section\n  parms: {name: x}\n"},
		{name: "tasks not a list", data: "tasks: section\n"},
		{name: "list of scalars", data: "- section\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "bad.yaml")
		})
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse(nil, "empty.yaml")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- module: section\n  params: {name: Lab}\n"), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lab", got[0].Params["name"])

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}
