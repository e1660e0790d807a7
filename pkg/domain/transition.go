package domain

// TargetNext is the reserved edge target that advances the enclosing
// sub-flow instead of naming a state: the engine moves to the next member
// of the innermost frame, popping exhausted frames, and finishes the
// session when the stack runs out.
const TargetNext = "@next"

// Edge defines the outcome of resolving one (state, event key) pair.
type Edge struct {
	// Target is the id of the next state, or TargetNext.
	Target string `json:"target"`

	// ErrorTag is a displayable, recoverable error code (e.g.
	// "invalid_password"). It is surfaced once at the next view and never
	// aborts the flow. Optional.
	ErrorTag string `json:"error_tag,omitempty"`

	// SetContext is merged into the session context before the move. Optional.
	SetContext map[string]string `json:"set_context,omitempty"`
}
