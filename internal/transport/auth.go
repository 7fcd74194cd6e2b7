package transport

import (
	"net/http"

	"github.com/agentstation/ipamctl/pkg/constants"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// BasicAuth authenticates with username and password. phpIPAM only
// accepts it on the user controller when requesting a session token.
type BasicAuth struct {
	Username string
	Password string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.Username, a.Password)
}

// TokenAuth sends a session token in a request header.
type TokenAuth struct {
	Header string
	Token  string
}

// Apply implements the Authenticator interface for TokenAuth.
func (a *TokenAuth) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = constants.TokenHeader
	}
	req.Header.Set(header, a.Token)
}
