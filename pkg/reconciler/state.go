package reconciler

import "github.com/agentstation/ipamctl/pkg/errors"

// State is the desired state of an entity.
type State string

// Supported states.
const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// ParseState validates a state value. Empty means present.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePresent, "":
		return StatePresent, nil
	case StateAbsent:
		return StateAbsent, nil
	}
	return "", &errors.InvalidStateError{State: s}
}

// String returns the state name.
func (s State) String() string {
	return string(s)
}
