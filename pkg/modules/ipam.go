package modules

import "github.com/agentstation/ipamctl/pkg/schema"

// Section manages sections, the top level containers of subnets.
func Section() *schema.Module {
	return &schema.Module{
		Name:        "section",
		Description: "Manage sections",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, Required: true, Description: "Section name"},
			{Name: "description", Kind: schema.KindString, Description: "Section description"},
			{Name: "parent", Kind: schema.KindEntity, PhpipamName: "masterSection", Description: "Parent section name"},
			{Name: "permissions", Kind: schema.KindString, Description: "JSON encoded group permissions"},
			{Name: "strict_mode", Kind: schema.KindBool, Default: true, Description: "Require subnets to be nested in their master"},
			{Name: "subnet_ordering", Kind: schema.KindString, Default: "default",
				Choices: []string{"default", "subnet,asc", "subnet,desc", "description,asc", "description,desc"},
				Description: "Order subnets in the section list"},
			{Name: "order", Kind: schema.KindInt, Description: "Display order"},
			{Name: "show_vlan", Kind: schema.KindBool, Default: false, Description: "Show VLANs in the subnet list"},
			{Name: "show_vrf", Kind: schema.KindBool, Default: false, Description: "Show VRFs in the subnet list"},
			{Name: "show_supernet_only", Kind: schema.KindBool, Default: false, Description: "Only list supernets"},
			{Name: "dns_resolver", Kind: schema.KindEntity, Controller: "tools/nameservers", PhpipamName: "DNS",
				Description: "Nameserver set used for the section"},
		},
	}
}

// Subnet manages subnets, identified by CIDR within a section.
func Subnet() *schema.Module {
	return &schema.Module{
		Name:        "subnet",
		Description: "Manage subnets",
		Fields: []schema.Field{
			{Name: "subnet", Kind: schema.KindString, Required: true, Description: "Network address"},
			{Name: "mask", Kind: schema.KindInt, Required: true, Description: "Prefix length"},
			{Name: "description", Kind: schema.KindString, Description: "Subnet description"},
			{Name: "section", Kind: schema.KindEntity, Controller: "sections", PhpipamName: "sectionId", Required: true,
				Description: "Section the subnet belongs to"},
			{Name: "linked_subnet", Kind: schema.KindEntity, Controller: "subnets", PhpipamName: "linked_subnet",
				Description: "Linked IPv4/IPv6 subnet in CIDR notation"},
			{Name: "vlan", Kind: schema.KindEntity, Controller: "vlan", PhpipamName: "vlanId", Description: "VLAN number"},
			{Name: "routing_domain", Kind: schema.KindString, Default: "default", APIInvisible: true,
				Description: "L2 domain of the VLAN"},
			{Name: "vrf", Kind: schema.KindEntity, Controller: "vrf", PhpipamName: "vrfId", Description: "VRF name"},
			{Name: "parent", Kind: schema.KindEntity, PhpipamName: "masterSubnetId", Description: "Parent subnet in CIDR notation"},
			{Name: "nameserver", Kind: schema.KindEntity, Controller: "tools/nameservers", PhpipamName: "nameserverId",
				Description: "Nameserver set"},
			{Name: "show_as_name", Kind: schema.KindBool, PhpipamName: "showName", Description: "Show name instead of CIDR"},
			{Name: "dns_recursive", Kind: schema.KindBool, PhpipamName: "DNSrecursive", Description: "Create reverse zone recursively"},
			{Name: "dns_records", Kind: schema.KindBool, PhpipamName: "DNSrecords", Description: "Show DNS records"},
			{Name: "allow_requests", Kind: schema.KindBool, PhpipamName: "allowRequests", Description: "Allow IP requests"},
			{Name: "ping_subnet", Kind: schema.KindBool, PhpipamName: "pingSubnet", Description: "Check host status periodically"},
			{Name: "discover_subnet", Kind: schema.KindBool, PhpipamName: "discoverSubnet", Description: "Discover new hosts"},
			{Name: "is_folder", Kind: schema.KindBool, Default: false, PhpipamName: "isFolder", Description: "Subnet is a folder"},
			{Name: "is_full", Kind: schema.KindBool, Default: false, PhpipamName: "isFull", Description: "Mark subnet as full"},
			{Name: "threshold", Kind: schema.KindInt, Description: "Usage alert threshold in percent"},
			{Name: "location", Kind: schema.KindEntity, Controller: "tools/locations", Description: "Location name"},
		},
	}
}

// Address manages single IP addresses within a subnet.
func Address() *schema.Module {
	return &schema.Module{
		Name:        "address",
		Description: "Manage IP addresses",
		Fields: []schema.Field{
			{Name: "ipaddress", Kind: schema.KindString, PhpipamName: "ip", Required: true, Description: "IP address"},
			{Name: "subnet", Kind: schema.KindEntity, Controller: "subnets", PhpipamName: "subnetId", Required: true,
				Description: "Subnet in CIDR notation"},
			{Name: "section", Kind: schema.KindString, APIInvisible: true, Required: true,
				Description: "Section of the subnet"},
			{Name: "is_gateway", Kind: schema.KindBool, Default: false, Description: "Address is the subnet gateway"},
			{Name: "description", Kind: schema.KindString, Description: "Address description"},
			{Name: "hostname", Kind: schema.KindString, Description: "DNS name"},
			{Name: "mac", Kind: schema.KindString, Description: "MAC address"},
			{Name: "owner", Kind: schema.KindString, Description: "Owner"},
			{Name: "tag", Kind: schema.KindEntity, Controller: "tools/tags", Description: "Address tag"},
			{Name: "ptr_ignore", Kind: schema.KindBool, Default: false, PhpipamName: "PTRignore", Description: "Skip PTR record"},
			{Name: "device", Kind: schema.KindEntity, Controller: "devices", PhpipamName: "deviceId", Description: "Device hostname"},
			{Name: "port", Kind: schema.KindString, Description: "Device port"},
			{Name: "note", Kind: schema.KindString, Description: "Note"},
			{Name: "exclude_ping", Kind: schema.KindBool, Default: false, PhpipamName: "excludePing", Description: "Exclude from status checks"},
		},
	}
}

// VLAN manages VLANs, identified by number within an L2 domain.
func VLAN() *schema.Module {
	return &schema.Module{
		Name:        "vlan",
		Description: "Manage VLANs",
		Fields: []schema.Field{
			{Name: "vlan_id", Kind: schema.KindInt, PhpipamName: "number", Required: true, Description: "VLAN number"},
			{Name: "name", Kind: schema.KindString, Required: true, Description: "VLAN name"},
			{Name: "description", Kind: schema.KindString, Description: "VLAN description"},
			{Name: "routing_domain", Kind: schema.KindEntity, Controller: "l2domains", PhpipamName: "domainId",
				Default: "default", Description: "L2 domain name"},
		},
	}
}

// VRF manages virtual routing and forwarding instances.
func VRF() *schema.Module {
	return &schema.Module{
		Name:        "vrf",
		Description: "Manage VRFs",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, Required: true, Description: "VRF name"},
			{Name: "route_distinguisher", Kind: schema.KindString, PhpipamName: "rd", Description: "Route distinguisher"},
			{Name: "description", Kind: schema.KindString, Description: "VRF description"},
			{Name: "sections", Kind: schema.KindEntityList, Controller: "sections", Flatten: true, Separator: ";",
				Description: "Sections the VRF is available in"},
		},
	}
}

// L2Domain manages layer 2 domains, the namespaces of VLAN numbers.
func L2Domain() *schema.Module {
	return &schema.Module{
		Name:        "l2domain",
		Description: "Manage L2 domains",
		Fields: []schema.Field{
			{Name: "name", Kind: schema.KindString, Required: true, Description: "L2 domain name"},
			{Name: "description", Kind: schema.KindString, Description: "L2 domain description"},
			{Name: "sections", Kind: schema.KindEntityList, Controller: "sections", PhpipamName: "permissions",
				Flatten: true, Separator: ";", Description: "Sections the domain is available in"},
		},
	}
}
