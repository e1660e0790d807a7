package domain

// Event is the outcome supplied while a session is suspended: a bare event
// key (Context nil), or a rich payload whose context patch is merged before
// the transition lookup.
type Event struct {
	Type    string            `json:"type"`
	Context map[string]string `json:"context,omitempty"`
}

// Key wraps a bare event key as an Event.
func Key(t string) *Event {
	return &Event{Type: t}
}

// Prompt describes the suspend point a step call paused on. The host either
// performs the backend call (actions) or renders the interface and collects
// a user event (views), then steps again with the outcome.
type Prompt struct {
	StateID    string `json:"state_id"`
	Kind       Kind   `json:"kind"`
	Interface  string `json:"interface,omitempty"`
	ErrorTag   string `json:"error_tag,omitempty"`
	Escalation bool   `json:"escalation,omitempty"`
}

// StepResult is the outcome of one step call: Done when the session
// finished, otherwise a Prompt for the suspend point reached.
type StepResult struct {
	Done   bool    `json:"done"`
	Prompt *Prompt `json:"prompt,omitempty"`
}

// ViewMissPolicy controls how the engine treats a user event that has no
// matching edge from the current view.
type ViewMissPolicy int

const (
	// ViewMissFail aborts the session with an UnrecognizedViewEventError.
	// This is the default contract.
	ViewMissFail ViewMissPolicy = iota

	// ViewMissPopSubflow discards the event and advances the enclosing
	// sub-flow instead of failing.
	ViewMissPopSubflow
)
