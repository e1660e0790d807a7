package ports

import (
	"context"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// EventSink receives structured trace events from the engine. Console,
// metrics, and in-memory sinks are interchangeable; the engine has no
// dependency on a concrete logging mechanism.
//
// Emit is called synchronously on the stepping goroutine and must not block.
type EventSink interface {
	Emit(ctx context.Context, ev domain.TraceEvent)
}
