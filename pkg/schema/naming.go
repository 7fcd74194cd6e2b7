package schema

import (
	"strings"

	"github.com/gertd/go-pluralize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// pluralExceptions are controllers whose URI is the singular form.
var pluralExceptions = map[string]bool{
	"nat":    true,
	"prefix": true,
	"vlan":   true,
	"vrf":    true,
}

var pluralizer = pluralize.NewClient()

// Pluralize turns a singular controller name into its URI form. Only the
// last word is inflected, so "tools/device_type" becomes "tools/device_types".
func Pluralize(controller string) string {
	if pluralExceptions[controller] {
		return controller
	}
	cut := strings.LastIndexAny(controller, "/_") + 1
	return controller[:cut] + pluralizer.Plural(controller[cut:])
}

// Camelize converts snake_case to lowerCamelCase, e.g. "strict_mode" to "strictMode".
func Camelize(name string) string {
	parts := strings.Split(name, "_")
	title := cases.Title(language.English)
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0]))
	for _, part := range parts[1:] {
		b.WriteString(title.String(part))
	}
	return b.String()
}
