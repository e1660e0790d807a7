package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id cannot be found in a store.
var ErrSessionNotFound = errors.New("session not found")

// The errors below are fatal: they mean the flow definition and the input
// fed to the engine are out of sync. The engine never retries or swallows
// them; the caller must abandon the session. Displayable business outcomes
// ("invalid password") are NOT errors; they travel as edge error tags.

// UnresolvedSwitchError reports a switch whose current context value has no
// matching edge. Every reachable value of the expression must have one.
type UnresolvedSwitchError struct {
	StateID    string
	Expression string
	Value      string
}

func (e *UnresolvedSwitchError) Error() string {
	return fmt.Sprintf("switch %q: no edge for %s=%q", e.StateID, e.Expression, e.Value)
}

// UnresolvedActionError reports a backend outcome with no matching edge.
type UnresolvedActionError struct {
	StateID  string
	EventKey string
}

func (e *UnresolvedActionError) Error() string {
	return fmt.Sprintf("action %q: no edge for outcome %q", e.StateID, e.EventKey)
}

// UnrecognizedViewEventError reports a user event with no matching edge
// under the fail-fast view-miss policy.
type UnrecognizedViewEventError struct {
	StateID  string
	EventKey string
}

func (e *UnrecognizedViewEventError) Error() string {
	return fmt.Sprintf("view %q: no edge for event %q", e.StateID, e.EventKey)
}

// EmptySubflowError reports a sub-flow with no members. Loaders reject this
// at validation time; the engine still guards against injected flows.
type EmptySubflowError struct {
	StateID string
}

func (e *EmptySubflowError) Error() string {
	return fmt.Sprintf("sub-flow %q has an empty sequence", e.StateID)
}

// UnknownStateKindError reports a state whose kind is not one of the four
// the engine dispatches on.
type UnknownStateKindError struct {
	StateID string
	Kind    Kind
}

func (e *UnknownStateKindError) Error() string {
	return fmt.Sprintf("state %q has unknown kind %q", e.StateID, e.Kind)
}

// UnknownStateError reports a cursor pointing at a state id that does not
// exist in the flow definition.
type UnknownStateError struct {
	StateID string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("state %q is not defined in the flow", e.StateID)
}

// IsFatal reports whether err is one of the engine's fatal flow errors,
// meaning the session must be abandoned. Hosts use this to distinguish
// configuration defects from infrastructure failures.
func IsFatal(err error) bool {
	var (
		us *UnresolvedSwitchError
		ua *UnresolvedActionError
		uv *UnrecognizedViewEventError
		es *EmptySubflowError
		uk *UnknownStateKindError
		un *UnknownStateError
	)
	return errors.As(err, &us) ||
		errors.As(err, &ua) ||
		errors.As(err, &uv) ||
		errors.As(err, &es) ||
		errors.As(err, &uk) ||
		errors.As(err, &un)
}
