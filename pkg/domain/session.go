package domain

// Frame tracks progress through one entered sub-flow. Frames are consumed
// strictly LIFO; a frame is popped exactly when Remaining is empty.
type Frame struct {
	Subflow   string   `json:"subflow"`
	Remaining []string `json:"remaining,omitempty"`
}

// Session is the runtime snapshot of one in-flight login/signup attempt.
//
// All fields are plainly inspectable and settable so a host can serialize a
// suspended session (e.g. to Redis) and rehydrate it later. A session must
// never be stepped concurrently from two callers; independent sessions are
// fully isolated.
type Session struct {
	// Current is the id of the active state. Empty means the session
	// finished and must not be stepped for effect again.
	Current string `json:"current_state,omitempty"`

	// Stack holds the active sub-flow frames, innermost last.
	Stack []Frame `json:"stack,omitempty"`

	// Context holds the accumulated flow facts.
	Context Context `json:"context"`

	// PendingError is a displayable error tag set by a resolved edge,
	// surfaced once at the next view and then cleared.
	PendingError string `json:"pending_error,omitempty"`
}

// NewSession creates a session positioned at the given state with a
// normalized copy of the initial facts.
func NewSession(start string, initial map[string]string) *Session {
	return &Session{
		Current: start,
		Context: NewContext(initial),
	}
}

// Finished reports whether the session has run out of states.
func (s *Session) Finished() bool {
	return s.Current == ""
}

// Clone returns a deep copy, used by stores to isolate persisted snapshots
// from later mutation.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Context = s.Context.Clone()
	out.Stack = make([]Frame, len(s.Stack))
	for i, fr := range s.Stack {
		out.Stack[i] = Frame{Subflow: fr.Subflow, Remaining: append([]string(nil), fr.Remaining...)}
	}
	return &out
}
