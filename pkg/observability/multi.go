package observability

import (
	"context"

	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/ports"
)

// Multi fans one trace stream out to several sinks in order.
type Multi []ports.EventSink

// Emit implements ports.EventSink.
func (m Multi) Emit(ctx context.Context, ev domain.TraceEvent) {
	for _, sink := range m {
		sink.Emit(ctx, ev)
	}
}
