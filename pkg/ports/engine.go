package ports

import (
	"context"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// FlowEngine is the stepping protocol used by hosting adapters (HTTP,
// CLI, session manager). The engine itself holds no per-session state;
// the caller owns the Session and passes it in on every call.
type FlowEngine interface {
	// NewSession creates a session at the engine's entry state. A non-empty
	// start overrides the entry, used when resuming a rehydrated session.
	NewSession(initial map[string]string, start string) *domain.Session

	// Step advances the session until it suspends or finishes. A nil event
	// probes the current suspend point without consuming anything.
	Step(ctx context.Context, sess *domain.Session, ev *domain.Event) (domain.StepResult, error)
}
