package domain

import "time"

// TraceType categorizes a trace event.
type TraceType string

const (
	TraceStateEnter  TraceType = "state_enter"
	TraceTransition  TraceType = "transition"
	TraceSubflowPush TraceType = "subflow_push"
	TraceSubflowPop  TraceType = "subflow_pop"
	TraceSuspend     TraceType = "suspend"
	TraceResume      TraceType = "resume"
	TraceFinish      TraceType = "finish"
	TraceError       TraceType = "error"
)

// TraceEvent is one structured observation emitted by the engine while
// stepping a session. Sinks receive every state entry, resolved transition
// (with source, key, target, error tag, and patch), sub-flow push/pop, and
// suspend/resume, so tests and operators can follow a session without
// string-matching log lines.
type TraceEvent struct {
	Time     time.Time         `json:"time"`
	Type     TraceType         `json:"type"`
	StateID  string            `json:"state_id,omitempty"`
	Kind     Kind              `json:"kind,omitempty"`
	EventKey string            `json:"event_key,omitempty"`
	Target   string            `json:"target,omitempty"`
	ErrorTag string            `json:"error_tag,omitempty"`
	Patch    map[string]string `json:"patch,omitempty"`
}
