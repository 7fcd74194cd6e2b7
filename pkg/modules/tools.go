package modules

import "github.com/agentstation/ipamctl/pkg/schema"

// Device manages network devices, identified by hostname.
func Device() *schema.Module {
	return &schema.Module{
		Name:        "device",
		Description: "Manage devices",
		Fields: []schema.Field{
			{Name: "hostname", Kind: schema.KindString, Required: true, Description: "Device hostname"},
			{Name: "ipaddress", Kind: schema.KindString, PhpipamName: "ip", Description: "Management address"},
			{Name: "description", Kind: schema.KindString, Description: "Device description"},
			{Name: "type", Kind: schema.KindEntity, Controller: "tools/device_types", Description: "Device type name"},
			{Name: "sections", Kind: schema.KindEntityList, Controller: "sections", Flatten: true, Separator: ";",
				Description: "Sections the device is visible in"},
			{Name: "location", Kind: schema.KindEntity, Controller: "tools/locations", Description: "Location name"},
			{Name: "rack", Kind: schema.KindInt, Description: "Rack id"},
			{Name: "rack_start", Kind: schema.KindInt, Description: "First rack unit"},
			{Name: "rack_size", Kind: schema.KindInt, Description: "Height in rack units"},
			{Name: "snmp_community", Kind: schema.KindString, Sensitive: true, Description: "SNMP community"},
			{Name: "snmp_version", Kind: schema.KindString, Choices: []string{"0", "1", "2", "3"}, Description: "SNMP version, 0 disables"},
			{Name: "snmp_port", Kind: schema.KindInt, Description: "SNMP port"},
			{Name: "snmp_timeout", Kind: schema.KindInt, Description: "SNMP timeout in milliseconds"},
			{Name: "snmp_v3_auth_pass", Kind: schema.KindString, Sensitive: true, Description: "SNMPv3 auth passphrase"},
			{Name: "snmp_v3_priv_pass", Kind: schema.KindString, Sensitive: true, Description: "SNMPv3 privacy passphrase"},
		},
	}
}

// DeviceType manages device types. phpIPAM keys them by tid and tname.
func DeviceType() *schema.Module {
	return &schema.Module{
		Name:        "device_type",
		Tools:       true,
		Description: "Manage device types",
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindInt, PhpipamName: "tid", Invisible: true},
			{Name: "name", Kind: schema.KindString, PhpipamName: "tname", Required: true, Description: "Device type name"},
			{Name: "description", Kind: schema.KindString, PhpipamName: "tdescription", Description: "Device type description"},
		},
	}
}

// Tag manages address tags. The tag name is stored as its type.
func Tag() *schema.Module {
	return &schema.Module{
		Name:        "tag",
		Tools:       true,
		Description: "Manage address tags",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, PhpipamName: "type", Required: true, Description: "Tag name"},
			{Name: "show", Kind: schema.KindBool, PhpipamName: "showtag", Default: false, Description: "Show tag in lists"},
			{Name: "bg_color", Kind: schema.KindString, PhpipamName: "bgcolor", Default: "#fff", Description: "Background color"},
			{Name: "fg_color", Kind: schema.KindString, PhpipamName: "fgcolor", Default: "#000", Description: "Foreground color"},
			{Name: "compress", Kind: schema.KindBool, Default: false, Description: "Compress ranges of tagged addresses"},
			{Name: "locked", Kind: schema.KindBool, Default: false, Description: "Prevent changes of tagged addresses"},
			{Name: "update_tags", Kind: schema.KindBool, PhpipamName: "updateTag", Default: false,
				Description: "Update tag of addresses found by scans"},
		},
	}
}

// Location manages physical locations.
func Location() *schema.Module {
	return &schema.Module{
		Name:        "location",
		Tools:       true,
		Description: "Manage locations",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, Required: true, Description: "Location name"},
			{Name: "description", Kind: schema.KindString, Description: "Location description"},
			{Name: "address", Kind: schema.KindString, Description: "Postal address"},
			{Name: "latitude", Kind: schema.KindString, PhpipamName: "lat", Description: "Latitude"},
			{Name: "longitude", Kind: schema.KindString, PhpipamName: "long", Description: "Longitude"},
		},
	}
}

// Nameserver manages nameserver sets.
func Nameserver() *schema.Module {
	return &schema.Module{
		Name:        "nameserver",
		Tools:       true,
		Description: "Manage nameserver sets",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, Required: true, Description: "Nameserver set name"},
			{Name: "addresses", Kind: schema.KindList, PhpipamName: "namesrv1", Separator: ";", Required: true,
				Description: "Nameserver addresses"},
			{Name: "description", Kind: schema.KindString, Description: "Nameserver set description"},
			{Name: "sections", Kind: schema.KindEntityList, Controller: "sections", PhpipamName: "permissions",
				Flatten: true, Separator: ";", Description: "Sections the set is available in"},
		},
	}
}
