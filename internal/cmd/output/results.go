package output

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/ipamctl"
	"github.com/agentstation/ipamctl/pkg/params"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Results is the table form of task results.
type Results []ipamctl.TaskResult

// TableData implements Tabular. Wide output adds the changed field values.
func (r Results) TableData(wide bool) Data {
	headers := []string{"Task", "Module", "Changed", "Action", "Fields"}
	if wide {
		headers = append(headers, "Details")
	}
	caser := cases.Title(language.English)

	rows := make([][]string, 0, len(r))
	for _, res := range r {
		label := res.Name
		if label == "" {
			label = res.Module
		}
		row := []string{label, res.Module, "false", "-", "-"}
		if res.Result != nil {
			row[2] = strconv.FormatBool(res.Changed)
			row[3] = caser.String(string(res.Action))
			if names := res.Fields.Names(); len(names) > 0 {
				row[4] = strings.Join(names, ", ")
			}
		}
		if wide {
			details := "-"
			if res.Result != nil && len(res.Fields) > 0 {
				details = res.Fields.String()
			}
			row = append(row, details)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter, AlignLeft, AlignLeft},
	}
}

// Modules is the table form of the module registry.
type Modules []*schema.Module

// TableData implements Tabular. Wide output adds the field count.
func (m Modules) TableData(wide bool) Data {
	headers := []string{"Module", "Controller", "Description"}
	if wide {
		headers = append(headers, "Fields")
	}
	rows := make([][]string, 0, len(m))
	for _, mod := range m {
		row := []string{mod.Name, mod.ControllerURI(), mod.Description}
		if wide {
			row = append(row, strconv.Itoa(len(mod.Fields)))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// Arguments is the table form of a module's parameters.
type Arguments params.Spec

// TableData implements Tabular. Wide output adds aliases and sensitivity.
func (a Arguments) TableData(wide bool) Data {
	headers := []string{"Parameter", "Type", "Required", "Default", "Choices", "Description"}
	if wide {
		headers = append(headers, "Aliases", "Sensitive")
	}
	rows := make([][]string, 0, len(a))
	for _, arg := range a {
		typ := string(arg.Type)
		if arg.Type == params.TypeList && arg.Elements != "" {
			typ = fmt.Sprintf("list[%s]", arg.Elements)
		}
		row := []string{
			arg.Name,
			typ,
			strconv.FormatBool(arg.Required),
			orDash(arg.Default),
			orDash(strings.Join(arg.Choices, ", ")),
			arg.Description,
		}
		if wide {
			row = append(row, orDash(strings.Join(arg.Aliases, ", ")), strconv.FormatBool(arg.Sensitive))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

func orDash(v any) string {
	if v == nil {
		return "-"
	}
	s := fmt.Sprint(v)
	if s == "" {
		return "-"
	}
	return s
}
