package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/ndrukelly2/state-machine/internal/logging"
	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/ports"
)

// Engine is the core stepping interpreter. It holds only the immutable
// flow definition and configuration; all mutable run state lives in the
// Session the caller passes to Step, so one Engine serves any number of
// concurrent sessions.
type Engine struct {
	flow     *domain.Flow
	entry    string
	logger   *slog.Logger
	sink     ports.EventSink
	viewMiss domain.ViewMissPolicy
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for debug tracing.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSink registers a structured event sink.
func WithSink(sink ports.EventSink) EngineOption {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEntryState overrides the flow's declared entry state.
func WithEntryState(stateID string) EngineOption {
	return func(e *Engine) {
		if stateID != "" {
			e.entry = stateID
		}
	}
}

// WithViewMissPolicy selects the handling of unmatched view events.
// The default is domain.ViewMissFail.
func WithViewMissPolicy(policy domain.ViewMissPolicy) EngineOption {
	return func(e *Engine) {
		e.viewMiss = policy
	}
}

// NewEngine creates an engine bound to an immutable flow definition.
func NewEngine(flow *domain.Flow, opts ...EngineOption) *Engine {
	e := &Engine{
		flow:   flow,
		entry:  flow.Entry,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flow returns the definition the engine interprets.
func (e *Engine) Flow() *domain.Flow {
	return e.flow
}

// Entry returns the effective starting state for new sessions.
func (e *Engine) Entry() string {
	return e.entry
}

// NewSession creates a session at the entry state. A non-empty start
// overrides it, used when rehydrating a previously suspended session.
func (e *Engine) NewSession(initial map[string]string, start string) *domain.Session {
	if start == "" {
		start = e.entry
	}
	return domain.NewSession(start, initial)
}

func (e *Engine) emit(ctx context.Context, ev domain.TraceEvent) {
	if e.sink == nil {
		return
	}
	ev.Time = time.Now()
	e.sink.Emit(ctx, ev)
}
