package ports

import (
	"context"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// SessionStore defines the interface for persisting suspended sessions.
// This enables durable "suspend & resume" identity flows: the session's
// current state, sub-flow stack, and context survive process restarts.
type SessionStore interface {
	// Save persists the session snapshot under the given id.
	Save(ctx context.Context, sessionID string, sess *domain.Session) error

	// Load retrieves a session snapshot.
	// Returns domain.ErrSessionNotFound if the id does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of active sessions.
	List(ctx context.Context) ([]string, error)
}
