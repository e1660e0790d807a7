package domain

import (
	"errors"
	"fmt"
)

// Flow is an immutable flow definition: the states and the transition
// table describing one or more composable login/signup flows.
//
// A Flow is read-only after construction and may be shared by any number
// of concurrent sessions without synchronization.
type Flow struct {
	// Entry is the default starting state for new sessions.
	Entry string

	// States maps state id to its definition.
	States map[string]State

	// Transitions maps state id to the edges leaving it, keyed by event key
	// (a switch value, backend outcome, or user event).
	Transitions map[string]map[string]Edge
}

// State looks up a state definition by id.
func (f *Flow) State(id string) (State, bool) {
	s, ok := f.States[id]
	return s, ok
}

// Resolve is the pure transition lookup: (state, event key) → edge.
// A miss is not an error here; the engine interprets it per state kind.
func (f *Flow) Resolve(stateID, eventKey string) (Edge, bool) {
	edge, ok := f.Transitions[stateID][eventKey]
	return edge, ok
}

// Validate checks the structural integrity of the definition: known kinds,
// kind-specific required fields, non-empty sub-flow sequences, and edge
// targets that name existing states. Loaders call this before handing a
// Flow to the engine, so configuration defects surface at load time rather
// than mid-session.
func (f *Flow) Validate() error {
	var errs []error

	if f.Entry == "" {
		errs = append(errs, errors.New("flow has no entry state"))
	} else if _, ok := f.States[f.Entry]; !ok {
		errs = append(errs, fmt.Errorf("entry state %q is not defined", f.Entry))
	}

	for id, s := range f.States {
		switch s.Kind {
		case KindSwitch:
			if s.Expression == "" {
				errs = append(errs, fmt.Errorf("switch state %q has no expression", id))
			}
		case KindAction:
			// no required fields beyond the kind
		case KindSubflow:
			if len(s.Sequence) == 0 {
				errs = append(errs, fmt.Errorf("sub-flow state %q has an empty sequence", id))
			}
			for _, member := range s.Sequence {
				if _, ok := f.States[member]; !ok {
					errs = append(errs, fmt.Errorf("sub-flow state %q references unknown member %q", id, member))
				}
			}
		case KindView:
			if s.Interface == "" {
				errs = append(errs, fmt.Errorf("view state %q has no interface", id))
			}
		default:
			errs = append(errs, fmt.Errorf("state %q has unknown kind %q", id, s.Kind))
		}
	}

	for source, edges := range f.Transitions {
		if _, ok := f.States[source]; !ok {
			errs = append(errs, fmt.Errorf("transitions reference unknown source state %q", source))
		}
		for key, edge := range edges {
			if edge.Target == "" {
				errs = append(errs, fmt.Errorf("edge (%q, %q) has no target", source, key))
				continue
			}
			if edge.Target == TargetNext {
				continue
			}
			if _, ok := f.States[edge.Target]; !ok {
				errs = append(errs, fmt.Errorf("edge (%q, %q) targets unknown state %q", source, key, edge.Target))
			}
		}
	}

	return errors.Join(errs...)
}
