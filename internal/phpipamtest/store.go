// Package phpipamtest provides an in-memory phpIPAM for tests: a Store that
// implements phpipam.API directly and a Server that exposes the same store
// over HTTP the way the real REST API does.
package phpipamtest

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/phpipam"
	"github.com/agentstation/ipamctl/pkg/schema"
)

// Call is one recorded API call.
type Call struct {
	Method     string
	Controller string
	Path       string
	Query      url.Values
	Data       schema.Entity
}

// IsMutation reports whether the call changes server state.
func (c Call) IsMutation() bool {
	return c.Method != "GET"
}

// DefaultControllers is what a stock phpIPAM advertises.
var DefaultControllers = []string{
	"sections", "subnets", "folders", "vlan", "l2domains", "vrf",
	"addresses", "devices", "prefix", "tools", "user",
}

// idKeys names the identifier field of controllers that do not use "id".
var idKeys = map[string]string{
	"tools/device_types": "tid",
	"vlan":               "vlanId",
	"vrf":                "vrfId",
}

// IDKey returns the identifier field a controller stores.
func IDKey(controller string) string {
	if k, ok := idKeys[controller]; ok {
		return k
	}
	return "id"
}

// Store is an in-memory phpIPAM. Every value is stored in string form,
// as the real server echoes it.
type Store struct {
	mu          sync.Mutex
	records     map[string][]schema.Entity
	nextID      int
	calls       []Call
	controllers []string

	// BeforeMutation runs before every create, update and delete. A
	// returned error aborts the call.
	BeforeMutation func(call Call) error
}

var _ phpipam.API = (*Store)(nil)

// NewStore creates an empty store advertising DefaultControllers.
func NewStore() *Store {
	return &Store{
		records:     make(map[string][]schema.Entity),
		controllers: append([]string(nil), DefaultControllers...),
	}
}

// SetControllers replaces the advertised controller list.
func (s *Store) SetControllers(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controllers = append([]string(nil), names...)
}

// Add seeds a record and returns its identifier.
func (s *Store) Add(controller string, e schema.Entity) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(controller, e)
}

func (s *Store) insert(controller string, e schema.Entity) string {
	key := IDKey(controller)
	rec := stringify(e)
	if rec[key] == nil || rec[key] == "" {
		s.nextID++
		rec[key] = strconv.Itoa(s.nextID)
	} else if n, err := strconv.Atoi(schema.ValueString(rec[key])); err == nil && n > s.nextID {
		s.nextID = n
	}
	normalizeWrite(controller, rec)
	s.records[controller] = append(s.records[controller], rec)
	return schema.ValueString(rec[key])
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(controller, id string) (schema.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(controller, id)
	if i < 0 {
		return nil, false
	}
	return s.records[controller][i].Clone(), true
}

// Records returns copies of every record in a controller.
func (s *Store) Records(controller string) []schema.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.records[controller])
}

// Remove drops a record without recording a call.
func (s *Store) Remove(controller, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(controller, id)
	if i < 0 {
		return false
	}
	s.records[controller] = append(s.records[controller][:i], s.records[controller][i+1:]...)
	return true
}

// Calls returns every recorded call.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Mutations returns the recorded create, update and delete calls.
func (s *Store) Mutations() []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.IsMutation() {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// GetEntity implements phpipam.API.
func (s *Store) GetEntity(_ context.Context, controller, path string, query url.Values) (*phpipam.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(Call{Method: "GET", Controller: controller, Path: path, Query: query})

	path = strings.Trim(path, "/")
	records := s.records[controller]

	var list []schema.Entity
	switch {
	case path == "":
		list = records
	case strings.HasPrefix(path, "cidr/"):
		subnet, mask, _ := strings.Cut(strings.TrimPrefix(path, "cidr/"), "/")
		list = match(records, func(e schema.Entity) bool {
			return e["subnet"] == subnet && e["mask"] == mask
		})
	case strings.HasPrefix(path, "search/"):
		ip := strings.TrimPrefix(path, "search/")
		list = match(records, func(e schema.Entity) bool { return e["ip"] == ip })
	default:
		key := IDKey(controller)
		name, err := url.PathUnescape(path)
		if err != nil {
			return nil, errors.NewNotFoundError(controller, path)
		}
		for _, e := range records {
			if e[key] == name || e["name"] == name {
				return &phpipam.Record{Entity: e.Clone()}, nil
			}
		}
		return nil, errors.NewNotFoundError(controller, path)
	}

	if by := query.Get("filter_by"); by != "" {
		value := query.Get("filter_value")
		list = match(list, func(e schema.Entity) bool { return schema.ValueString(e[by]) == value })
	}
	if len(list) == 0 {
		return nil, errors.NewNotFoundError(controller, path)
	}
	return &phpipam.Record{List: cloneAll(list), IsList: true}, nil
}

// CreateEntity implements phpipam.API.
func (s *Store) CreateEntity(_ context.Context, controller string, data schema.Entity) error {
	call := Call{Method: "POST", Controller: controller, Data: data.Clone()}
	if err := s.before(call); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call)
	rec := data.Clone()
	delete(rec, IDKey(controller))
	s.insert(controller, rec)
	return nil
}

// UpdateEntity implements phpipam.API. The target id comes from the path
// when present, otherwise from the body.
func (s *Store) UpdateEntity(_ context.Context, controller, path string, data schema.Entity) error {
	call := Call{Method: "PATCH", Controller: controller, Path: path, Data: data.Clone()}
	if err := s.before(call); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call)

	key := IDKey(controller)
	id := strings.Trim(path, "/")
	if id == "" {
		id = schema.ValueString(data[key])
	}
	i := s.indexOf(controller, id)
	if i < 0 {
		return errors.NewNotFoundError(controller, id)
	}

	changes := stringify(data)
	normalizeWrite(controller, changes)
	rec := s.records[controller][i]
	for k, v := range changes {
		if k == key {
			continue
		}
		rec[k] = v
	}
	return nil
}

// DeleteEntity implements phpipam.API.
func (s *Store) DeleteEntity(_ context.Context, controller, id string) error {
	call := Call{Method: "DELETE", Controller: controller, Path: id}
	if err := s.before(call); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call)

	i := s.indexOf(controller, id)
	if i < 0 {
		return errors.NewNotFoundError(controller, id)
	}
	s.records[controller] = append(s.records[controller][:i], s.records[controller][i+1:]...)
	return nil
}

// Controllers implements phpipam.API.
func (s *Store) Controllers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.controllers...), nil
}

// before runs the mutation hook outside the lock so it may use the store.
func (s *Store) before(call Call) error {
	if s.BeforeMutation == nil {
		return nil
	}
	return s.BeforeMutation(call)
}

func (s *Store) record(call Call) {
	s.calls = append(s.calls, call)
}

func (s *Store) indexOf(controller, id string) int {
	key := IDKey(controller)
	for i, e := range s.records[controller] {
		if e[key] == id {
			return i
		}
	}
	return -1
}

// normalizeWrite mirrors the l2domains controller, which accepts
// permissions on write but reports them as sections.
func normalizeWrite(controller string, rec schema.Entity) {
	if controller != "l2domains" {
		return
	}
	if v, ok := rec["permissions"]; ok {
		rec["sections"] = v
		delete(rec, "permissions")
	}
}

func stringify(e schema.Entity) schema.Entity {
	out := make(schema.Entity, len(e))
	for k, v := range e {
		out[k] = schema.ValueString(v)
	}
	return out
}

func match(list []schema.Entity, keep func(schema.Entity) bool) []schema.Entity {
	var out []schema.Entity
	for _, e := range list {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func cloneAll(list []schema.Entity) []schema.Entity {
	out := make([]schema.Entity, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}
