package domain

// Kind identifies the control-flow behavior of a state.
type Kind string

const (
	// KindSwitch selects an outgoing edge purely from context (silent step).
	KindSwitch Kind = "switch"
	// KindAction pauses for an asynchronous backend outcome (hard step).
	KindAction Kind = "action"
	// KindSubflow splices a reusable sequence of states into the flow.
	KindSubflow Kind = "sub-flow"
	// KindView pauses for a user-facing interaction (hard step).
	KindView Kind = "view"
)

// State represents a named point in a flow definition.
// The Kind determines which of the optional fields are meaningful.
type State struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Expression names the context key whose current value selects the
	// outgoing edge. Switch states only.
	Expression string `json:"expression,omitempty"`

	// Sequence lists the member state ids visited in order, at least one.
	// Sub-flow states only.
	Sequence []string `json:"sequence,omitempty"`

	// Interface names the UI surface the host should render. View states only.
	Interface string `json:"interface,omitempty"`

	// Escalation hints that the host should offer manual assistance while
	// paused here. Actions and views only.
	Escalation bool `json:"requires_escalation,omitempty"`
}
