// Package palette implements the keyboard command palette: a registry of
// named actions, a substring filter and the modal open/query/highlight
// state machine driven by key events.
package palette

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultLimit caps the number of visible results.
const DefaultLimit = 8

// DefaultFocusDelay is the wait between opening and focusing the input.
const DefaultFocusDelay = 30 * time.Millisecond

// ErrDuplicateAction is returned by Registry.Register.
var ErrDuplicateAction = errors.New("duplicate palette action")

// Action is one entry of the palette.
type Action struct {
	ID    string
	Label string
	Hint  string
	Group string
	Run   func()
}

// Registry holds actions in registration order.
type Registry struct {
	actions []Action
	ids     map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]bool)}
}

// Register appends a. IDs must be unique.
func (r *Registry) Register(a Action) error {
	if r.ids[a.ID] {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, a.ID)
	}
	r.ids[a.ID] = true
	r.actions = append(r.actions, a)
	return nil
}

// Actions returns the registered actions.
func (r *Registry) Actions() []Action {
	return append([]Action(nil), r.actions...)
}

// Filter returns the actions whose label or hint contains query, ignoring
// case, in their original order and at most limit of them. An empty query
// matches everything. Spaces in query are matched literally.
func Filter(actions []Action, query string, limit int) []Action {
	q := strings.ToLower(query)
	var out []Action
	for _, a := range actions {
		if limit > 0 && len(out) == limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(a.Label+" "+a.Hint), q) {
			out = append(out, a)
		}
	}
	return out
}
