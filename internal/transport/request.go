package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/logging"
)

// Envelope is the response wrapper phpIPAM puts around every payload.
type Envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HasData reports whether the envelope carries a non-null payload.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// DecodeData decodes the payload with numbers kept as json.Number.
func (e *Envelope) DecodeData(target any) error {
	if !e.HasData() {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(e.Data))
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return errors.WrapParse("json", "response data", err)
	}
	return nil
}

// RequestBuilder builds URLs below the API root of one application.
type RequestBuilder struct {
	base  *url.URL
	appID string
}

// NewRequestBuilder creates a request builder for server and app id.
func NewRequestBuilder(serverURL, appID string) (*RequestBuilder, error) {
	if serverURL == "" {
		return nil, &errors.ValidationError{Field: "server_url", Message: "is required"}
	}
	base, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, errors.WrapValidation("server_url", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, &errors.ValidationError{Field: "server_url", Value: serverURL, Message: "must be an absolute URL"}
	}
	if appID == "" {
		return nil, &errors.ValidationError{Field: "app_id", Message: "is required"}
	}
	return &RequestBuilder{base: base, appID: appID}, nil
}

// BaseURL returns the API root, e.g. https://ipam.example.com/api/ansible/.
func (rb *RequestBuilder) BaseURL() string {
	return rb.base.String() + "/" + constants.APIPath + "/" + url.PathEscape(rb.appID) + "/"
}

// URL joins a controller path onto the API root. The path is used as
// given: callers escape user supplied segments, and "/" separates segments
// so CIDR lookups such as subnets/cidr/10.0.0.0/24 stay intact.
func (rb *RequestBuilder) URL(path string, query url.Values) string {
	u := rb.BaseURL() + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// NewRequest creates a request with a JSON body when body is not nil.
func (rb *RequestBuilder) NewRequest(method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, rb.URL(path, query), reader)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+path, err)
	}
	return req, nil
}

// DecodeResponse reads the envelope out of a response. Non-2xx statuses and
// envelopes reporting failure are returned as an APIError alongside the
// decoded envelope.
func DecodeResponse(resp *http.Response, controller string) (*Envelope, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	method := ""
	if resp.Request != nil {
		method = resp.Request.Method
	}

	env := &Envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &errors.APIError{
				Controller: controller,
				Method:     method,
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(body)),
			}
		}
		return nil, errors.WrapParse("json", "response", err)
	}
	if env.Code == 0 {
		env.Code = resp.StatusCode
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		status := resp.StatusCode
		if status >= 200 && status < 300 {
			status = env.Code
		}
		return env, &errors.APIError{
			Controller: controller,
			Method:     method,
			StatusCode: status,
			Message:    env.Message,
		}
	}
	return env, nil
}
