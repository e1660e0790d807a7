package observability

import (
	"context"
	"sync"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// Recorder captures trace events in memory so tests can assert on the
// emitted sequence instead of string-matching log output.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []domain.TraceEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit implements ports.EventSink.
func (r *Recorder) Emit(ctx context.Context, ev domain.TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything captured so far.
func (r *Recorder) Events() []domain.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TraceEvent(nil), r.events...)
}

// OfType returns only the captured events of one type, in order.
func (r *Recorder) OfType(t domain.TraceType) []domain.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.TraceEvent
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Reset discards captured events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
