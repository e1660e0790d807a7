package statemachine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ndrukelly2/state-machine/internal/logging"
	"github.com/ndrukelly2/state-machine/internal/runtime"
	"github.com/ndrukelly2/state-machine/pkg/adapters/yamlflow"
	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/ports"
)

// Engine is the high-level entry point for the library. It wraps the
// internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	flow        *domain.Flow
	logger      *slog.Logger
	sink        ports.EventSink
	runtimeOpts []runtime.EngineOption
}

// Ensure Engine satisfies the port used by hosting adapters.
var _ ports.FlowEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithFlow injects a pre-built flow definition, bypassing the YAML loader.
func WithFlow(flow *domain.Flow) Option {
	return func(e *Engine) {
		e.flow = flow
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSink registers a structured trace event sink.
func WithSink(sink ports.EventSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithEntryState overrides the flow's declared entry state.
func WithEntryState(stateID string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithEntryState(stateID))
	}
}

// WithViewMissPolicy selects the handling of user events that have no edge
// from the current view. The default fails fast.
func WithViewMissPolicy(policy domain.ViewMissPolicy) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithViewMissPolicy(policy))
	}
}

// New initializes an Engine. By default it loads states.yaml and
// transitions.yaml from flowDir; if WithFlow is provided, flowDir can be
// empty and loading is skipped.
func New(flowDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.flow == nil {
		if flowDir == "" {
			return nil, fmt.Errorf("flowDir is required when no flow is injected")
		}
		flow, err := yamlflow.LoadDir(flowDir)
		if err != nil {
			return nil, err
		}
		eng.flow = flow
	} else if err := eng.flow.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flow definition: %w", err)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithSink(eng.sink),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(eng.flow, runtimeOpts...)
	return eng, nil
}

// NewSession creates a session at the engine's entry state with a
// normalized copy of the initial facts. A non-empty start overrides the
// entry state, used when resuming a rehydrated session.
func (e *Engine) NewSession(initial map[string]string, start string) *domain.Session {
	return e.runtime.NewSession(initial, start)
}

// Step advances the session until it suspends at an action or view,
// finishes, or raises a fatal configuration defect. A nil event probes the
// current suspend point idempotently.
func (e *Engine) Step(ctx context.Context, sess *domain.Session, ev *domain.Event) (domain.StepResult, error) {
	return e.runtime.Step(ctx, sess, ev)
}

// Flow returns the immutable definition the engine interprets.
func (e *Engine) Flow() *domain.Flow {
	return e.flow
}

// Entry returns the effective starting state for new sessions.
func (e *Engine) Entry() string {
	return e.runtime.Entry()
}
