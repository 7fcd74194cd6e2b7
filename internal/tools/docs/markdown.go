package docs

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/ipamctl/pkg/params"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// IndexPage renders the module overview.
func IndexPage(w io.Writer, mods []*schema.Module) error {
	rows := make([][]string, 0, len(mods))
	for _, m := range mods {
		rows = append(rows, []string{
			md.Link(m.Name, "modules/"+m.Name+".md"),
			md.Code(m.ControllerURI()),
			m.Description,
		})
	}

	return md.NewMarkdown(w).
		H1("ipamctl modules").
		PlainText("Each module manages one phpIPAM controller. Every module also accepts the connection parameters listed on its page.").
		LF().
		Table(md.TableSet{
			Header: []string{"Module", "Controller", "Description"},
			Rows:   rows,
		}).
		Build()
}

// ModulePage renders the parameter reference of one module.
func ModulePage(w io.Writer, m *schema.Module) error {
	doc := md.NewMarkdown(w).
		H1(m.Name).
		PlainText(m.Description).
		LF().
		PlainTextf("Controller: %s", md.Code(m.ControllerURI())).
		LF()

	doc.H2("Parameters").Table(argumentTable(m.Arguments(), m))

	var refs []string
	for _, f := range m.Fields {
		if f.IsReference() {
			refs = append(refs, fmt.Sprintf("%s resolves names against %s", md.Code(f.Name), md.Code(m.FieldController(f))))
		}
	}
	if len(refs) > 0 {
		doc.H2("References").BulletList(refs...)
	}

	doc.H2("Example").CodeBlocks(md.SyntaxHighlight("yaml"), example(m))

	return doc.Build()
}

func argumentTable(spec params.Spec, m *schema.Module) md.TableSet {
	rows := make([][]string, 0, len(spec))
	for _, arg := range spec {
		remote := "-"
		if f, ok := m.Field(arg.Name); ok && !f.APIInvisible {
			remote = md.Code(f.RemoteName())
		}
		typ := string(arg.Type)
		if arg.Elements != "" {
			typ = fmt.Sprintf("list[%s]", arg.Elements)
		}
		def := "-"
		if arg.Default != nil {
			def = md.Code(fmt.Sprint(arg.Default))
		}
		desc := arg.Description
		if len(arg.Choices) > 0 {
			desc += " (" + strings.Join(arg.Choices, ", ") + ")"
		}
		if arg.Sensitive {
			desc += " " + md.Italic("sensitive")
		}
		name := arg.Name
		if arg.Required {
			name = md.Bold(name)
		}
		rows = append(rows, []string{name, typ, remote, def, desc})
	}
	return md.TableSet{
		Header: []string{"Parameter", "Type", "Remote field", "Default", "Description"},
		Rows:   rows,
	}
}

// example renders a task using the module's required parameters.
func example(m *schema.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- name: ensure %s\n  module: %s\n  params:\n", m.Name, m.Name)
	for _, f := range m.Fields {
		if !f.Required || f.Invisible {
			continue
		}
		fmt.Fprintf(&b, "    %s: %s\n", f.Name, placeholder(f))
	}
	b.WriteString("    state: present\n")
	return b.String()
}

func placeholder(f schema.Field) string {
	switch f.Kind {
	case schema.KindInt:
		return "1"
	case schema.KindBool:
		return "true"
	case schema.KindList, schema.KindEntityList:
		return "[]"
	default:
		return "<" + f.Name + ">"
	}
}
