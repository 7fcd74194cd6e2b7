// Package constants provides shared constants used throughout ipamctl.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the phpIPAM API
	DefaultHTTPTimeout = 60 * time.Second

	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like credentials (rw-------)
	SecureFilePermissions = 0600
)

// phpIPAM API constants
const (
	// UserAgent is sent with every API request
	UserAgent = "ipamctl"

	// APIPath is the path prefix of the REST API below the server URL
	APIPath = "api"

	// TokenHeader carries the session token obtained from the user controller
	TokenHeader = "token"

	// RedactedValue replaces sensitive values in reported snapshots
	RedactedValue = "VALUE_SPECIFIED_IN_NO_LOG_PARAMETER"

	// DefaultSeparator joins flattened list values
	DefaultSeparator = ";"

	// DefaultRoutingDomain is the L2 domain used for VLAN lookups when none is given
	DefaultRoutingDomain = "default"
)

// Environment variables used as fallbacks for connection parameters
const (
	EnvServerURL     = "PHPIPAM_SERVER_URL"
	EnvAppID         = "PHPIPAM_APP_ID"
	EnvUsername      = "PHPIPAM_USERNAME"
	EnvPassword      = "PHPIPAM_PASSWORD"
	EnvValidateCerts = "PHPIPAM_VALIDATE_CERTS"
)
