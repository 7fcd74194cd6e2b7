package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/modules"
	"github.com/agentstation/ipamctl/pkg/schema"
)

func sampleResults() Results {
	return Results{
		{
			Name:   "lab",
			Module: "section",
			Result: &changeset.Result{
				Changed: true,
				Action:  changeset.ActionUpdate,
				Fields: changeset.Fields{
					{Field: "description", OldValue: "old", NewValue: "new", Type: changeset.ChangeTypeUpdate},
				},
				Diff: &changeset.Diff{
					Before: changeset.Snapshots{"sections": {{"name": "lab", "description": "old"}}},
					After:  changeset.Snapshots{"sections": {{"name": "lab", "description": "new"}}},
				},
			},
		},
		{Module: "vlan", Result: &changeset.Result{Action: changeset.ActionNone}},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatterResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, sampleResults()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "lab", decoded[0]["name"])
	assert.Equal(t, true, decoded[0]["changed"], "result fields are inlined")
	assert.Contains(t, decoded[0], "diff")
	assert.NotContains(t, decoded[1], "diff")
}

func TestYAMLFormatterResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, sampleResults()))
	out := buf.String()
	assert.Contains(t, out, "module: section")
	assert.Contains(t, out, "changed: true")
	assert.Contains(t, out, "description: new")
}

func TestTableFormatterResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, sampleResults()))
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "TASK")
	assert.Contains(t, out, "Update")
	assert.Contains(t, out, "description")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, sampleResults()))
	assert.Contains(t, buf.String(), `"old" -> "new"`)
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, schema.Entity{"id": "1"}))
	assert.JSONEq(t, `{"id": "1"}`, buf.String())
}

func TestModulesTable(t *testing.T) {
	data := Modules(modules.All()).TableData(false)
	assert.Equal(t, []string{"Module", "Controller", "Description"}, data.Headers)

	var controllers []string
	for _, row := range data.Rows {
		controllers = append(controllers, row[1])
	}
	assert.Contains(t, controllers, "tools/device_types")
	assert.Contains(t, controllers, "vlan")
}

func TestArgumentsTable(t *testing.T) {
	m, err := modules.Get("device")
	require.NoError(t, err)

	data := Arguments(m.Arguments()).TableData(true)
	require.NotEmpty(t, data.Rows)

	rows := map[string][]string{}
	for _, row := range data.Rows {
		rows[row[0]] = row
	}
	assert.Equal(t, "true", rows["hostname"][2])
	assert.Equal(t, "present", rows["state"][3])
	assert.Equal(t, "list[str]", rows["sections"][1])
	assert.Equal(t, "true", rows["snmp_community"][7])
	assert.Equal(t, "0, 1, 2, 3", rows["snmp_version"][4])
}
