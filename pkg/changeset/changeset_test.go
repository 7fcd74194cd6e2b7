package changeset_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ipamctl/pkg/changeset"
	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/schema"
)

func TestDifferEntities(t *testing.T) {
	d := changeset.New(changeset.WithIgnoredFields("parent"))

	current := schema.Entity{
		"id":          "7",
		"name":        "Customers",
		"description": "old",
		"strictMode":  "1",
		"order":       "3",
	}
	desired := schema.Entity{
		"name":        "Customers",
		"description": "new",
		"strictMode":  "1",
		"order":       3,
		"showVLAN":    "0",
		"parent":      "2",
	}

	changes := d.Entities(current, desired)
	require.Len(t, changes, 2)
	assert.Equal(t, []string{"description", "showVLAN"}, changes.Names())

	assert.Equal(t, changeset.ChangeTypeUpdate, changes[0].Type)
	assert.Equal(t, "old", changes[0].OldValue)
	assert.Equal(t, "new", changes[0].NewValue)
	assert.Equal(t, changeset.ChangeTypeAdd, changes[1].Type, "missing in current counts as changed")

	assert.Equal(t, schema.Entity{"description": "new", "showVLAN": "0"}, changes.Entity())
	assert.Contains(t, changes.String(), `description: "old" -> "new"`)
}

func TestDifferNoChanges(t *testing.T) {
	d := changeset.New()
	changes := d.Entities(
		schema.Entity{"mask": "24", "isFolder": "0", "vlanId": json.Number("4")},
		schema.Entity{"mask": 24, "isFolder": "0", "vlanId": "4"},
	)
	assert.Empty(t, changes)
	assert.Equal(t, "No changes detected", changes.String())
}

func TestRecorderRedacts(t *testing.T) {
	rec := changeset.NewRecorder("snmp_community", "snmpCommunity")

	current := schema.Entity{"hostname": "sw01", "snmpCommunity": "public"}
	rec.RecordBefore("devices", current)
	rec.RecordAfter("devices", schema.Entity{"hostname": "sw01", "snmpCommunity": "private"})
	rec.RecordAfterFull("devices", schema.Entity{"id": "3", "snmp_community": "private"})
	rec.SetFields(changeset.Fields{{Field: "snmpCommunity", OldValue: "public", NewValue: "private", Value: "private"}})
	rec.SetChanged(changeset.ActionUpdate)

	assert.Equal(t, "public", current["snmpCommunity"], "recorded entities are copied, never modified")

	res := rec.Result()
	require.NotNil(t, res.Diff)
	assert.True(t, res.Changed)
	assert.Equal(t, changeset.ActionUpdate, res.Action)
	assert.Equal(t, constants.RedactedValue, res.Diff.Before["devices"][0]["snmpCommunity"])
	assert.Equal(t, constants.RedactedValue, res.Diff.After["devices"][0]["snmpCommunity"])
	assert.Equal(t, constants.RedactedValue, res.Entity["devices"][0]["snmp_community"])
	assert.Equal(t, constants.RedactedValue, res.Fields[0].NewValue)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "public")
	assert.NotContains(t, string(out), "private")
}

func TestRecorderAbsentEntities(t *testing.T) {
	rec := changeset.NewRecorder()
	rec.RecordBefore("sections", nil)
	rec.RecordAfter("sections", nil)
	rec.RecordAfterFull("sections", nil)

	res := rec.Result()
	assert.False(t, res.Changed)
	assert.Equal(t, changeset.ActionNone, res.Action)
	require.NotNil(t, res.Diff)
	assert.Equal(t, []schema.Entity{{}}, res.Diff.Before["sections"])
	assert.Nil(t, res.Entity, "no final entity, no entity section")
}

func TestEmptyRecorderHasNoDiff(t *testing.T) {
	res := changeset.NewRecorder().Result()
	assert.Nil(t, res.Diff)
	assert.False(t, res.Changed)
}
