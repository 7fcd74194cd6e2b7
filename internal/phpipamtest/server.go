package phpipamtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agentstation/ipamctl/internal/transport"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Test credentials accepted by Server.
const (
	AppID    = "ipamctl"
	Username = "admin"
	Password = "ipamadmin"
	Token    = "test-session-token"
)

// Server serves a Store over the phpIPAM REST protocol.
type Server struct {
	*httptest.Server
	Store *Store
}

// NewServer starts a server for store and closes it when the test ends.
func NewServer(t testing.TB, store *Store) *Server {
	t.Helper()
	if store == nil {
		store = NewStore()
	}
	s := &Server{Store: store}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Config returns transport settings that authenticate against the server.
func (s *Server) Config() transport.Config {
	return transport.Config{
		ServerURL:     s.URL,
		AppID:         AppID,
		Username:      Username,
		Password:      Password,
		ValidateCerts: true,
	}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/" + AppID + "/"
	escaped := r.URL.EscapedPath()
	if !strings.HasPrefix(escaped, prefix) {
		reply(w, http.StatusBadRequest, "Invalid application id", nil)
		return
	}
	// paths stay escaped so a name holding "/" or "%" remains one segment
	rest := strings.Trim(strings.TrimPrefix(escaped, prefix), "/")

	if rest == "user" {
		user, pass, ok := r.BasicAuth()
		if r.Method != http.MethodPost || !ok || user != Username || pass != Password {
			reply(w, http.StatusUnauthorized, "Invalid username or password", nil)
			return
		}
		reply(w, http.StatusOK, "", map[string]string{"token": Token, "expires": "2099-01-01 00:00:00"})
		return
	}

	if r.Header.Get("token") != Token {
		reply(w, http.StatusUnauthorized, "Please authenticate", nil)
		return
	}

	ctx := r.Context()
	if rest == "" {
		names, _ := s.Store.Controllers(ctx)
		list := make([]map[string]string, len(names))
		for i, name := range names {
			list[i] = map[string]string{"name": name, "rest_name": name}
		}
		reply(w, http.StatusOK, "", list)
		return
	}

	controller, path := splitController(rest)
	switch r.Method {
	case http.MethodGet:
		rec, err := s.Store.GetEntity(ctx, controller, path, r.URL.Query())
		if err != nil {
			replyError(w, err)
			return
		}
		if rec.IsList {
			reply(w, http.StatusOK, "", rec.List)
			return
		}
		reply(w, http.StatusOK, "", rec.Entity)
	case http.MethodPost:
		data, ok := decodeBody(w, r)
		if !ok {
			return
		}
		s.mutate(w, http.StatusCreated, "Object created", s.Store.CreateEntity(ctx, controller, data))
	case http.MethodPatch:
		data, ok := decodeBody(w, r)
		if !ok {
			return
		}
		s.mutate(w, http.StatusOK, "Object updated", s.Store.UpdateEntity(ctx, controller, path, data))
	case http.MethodDelete:
		s.mutate(w, http.StatusOK, "Object deleted", s.Store.DeleteEntity(ctx, controller, path))
	default:
		reply(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	}
}

func (s *Server) mutate(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		replyError(w, err)
		return
	}
	reply(w, status, message, nil)
}

// splitController separates "tools/device_types/3" into the controller
// "tools/device_types" and the path "3".
func splitController(rest string) (string, string) {
	parts := strings.Split(rest, "/")
	n := 1
	if parts[0] == "tools" && len(parts) > 1 {
		n = 2
	}
	return strings.Join(parts[:n], "/"), strings.Join(parts[n:], "/")
}

func decodeBody(w http.ResponseWriter, r *http.Request) (schema.Entity, bool) {
	data := schema.Entity{}
	if r.Body == nil || r.ContentLength == 0 {
		return data, true
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		reply(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return nil, false
	}
	return data, true
}

func replyError(w http.ResponseWriter, err error) {
	if errors.IsNotFound(err) {
		reply(w, http.StatusNotFound, "No objects found", nil)
		return
	}
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		reply(w, apiErr.StatusCode, apiErr.Message, nil)
		return
	}
	reply(w, http.StatusInternalServerError, err.Error(), nil)
}

func reply(w http.ResponseWriter, status int, message string, data any) {
	body := map[string]any{
		"code":    status,
		"success": status >= 200 && status < 300,
	}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
