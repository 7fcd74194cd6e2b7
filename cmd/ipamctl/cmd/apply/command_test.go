package apply

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
)

func newMock(store *phpipamtest.Store, out *bytes.Buffer) *appcontext.MockContext {
	return &appcontext.MockContext{
		ClientFunc: func(opts ...ipamctl.Option) (ipamctl.Client, error) {
			return ipamctl.New(append([]ipamctl.Option{ipamctl.WithAPI(store)}, opts...)...)
		},
		Writer: out,
	}
}

func writeTasks(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApply(t *testing.T) {
	store := phpipamtest.NewStore()
	path := writeTasks(t, `
tasks:
  - name: section
    module: section
    params:
      name: Customers
  - name: subnet
    module: subnet
    params:
      subnet: 10.0.0.0
      mask: 24
      section: Customers
`)

	var out bytes.Buffer
	cmd := NewCommand(newMock(store, &out))
	cmd.SetArgs([]string{"-f", path})
	require.NoError(t, cmd.Execute())

	var results []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "section", results[0]["name"])
	assert.Equal(t, "create", results[1]["action"])

	subnets := store.Records("subnets")
	require.Len(t, subnets, 1)
	assert.Equal(t, store.Records("sections")[0]["id"], subnets[0]["sectionId"])
}

func TestApplyPrintsPartialResults(t *testing.T) {
	store := phpipamtest.NewStore()
	path := writeTasks(t, `
- module: section
  params: {name: Customers}
- name: broken
  module: subnet
  params: {subnet: 10.0.0.0, mask: 24, section: Missing}
`)

	var out bytes.Buffer
	cmd := NewCommand(newMock(store, &out))
	cmd.SetArgs([]string{"-f", path})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	var results []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	assert.Len(t, results, 1)
}

func TestApplyRequiresFile(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCommand(newMock(phpipamtest.NewStore(), &out))
	cmd.SetArgs(nil)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}

func TestApplySelectsTasks(t *testing.T) {
	store := phpipamtest.NewStore()
	path := writeTasks(t, `
- name: customers
  module: section
  params: {name: Customers}
- name: lab
  module: section
  params: {name: Lab}
- module: tag
  params: {name: reserved}
`)

	var out, status bytes.Buffer
	mock := newMock(store, &out)
	mock.AlertWriter = alerts.NewWriterTo(&status, false)
	cmd := NewCommand(mock)
	cmd.SetArgs([]string{"-f", path, "--only", "section", "--skip", "lab"})
	require.NoError(t, cmd.Execute())

	sections := store.Records("sections")
	require.Len(t, sections, 1)
	assert.Equal(t, "Customers", sections[0]["name"])
	assert.Empty(t, store.Records("tools/tags"))
	assert.Contains(t, status.String(), "1 task, 1 changed")
	assert.Contains(t, status.String(), "created customers")
}

func TestApplyInvalidPattern(t *testing.T) {
	path := writeTasks(t, "- module: section\n  params: {name: a}\n")
	var out bytes.Buffer
	cmd := NewCommand(newMock(phpipamtest.NewStore(), &out))
	cmd.SetArgs([]string{"-f", path, "--only", "("})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}
