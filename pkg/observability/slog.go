package observability

import (
	"context"
	"log/slog"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// SlogSink logs every trace event through a structured logger, replacing
// ad-hoc print debugging with fields tests and operators can filter on.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink writing to the given logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Emit implements ports.EventSink.
func (s *SlogSink) Emit(ctx context.Context, ev domain.TraceEvent) {
	attrs := []slog.Attr{slog.String("state", ev.StateID)}
	if ev.Kind != "" {
		attrs = append(attrs, slog.String("kind", string(ev.Kind)))
	}
	if ev.EventKey != "" {
		attrs = append(attrs, slog.String("event", ev.EventKey))
	}
	if ev.Target != "" {
		attrs = append(attrs, slog.String("target", ev.Target))
	}
	if ev.ErrorTag != "" {
		attrs = append(attrs, slog.String("error_tag", ev.ErrorTag))
	}
	if len(ev.Patch) > 0 {
		attrs = append(attrs, slog.Any("patch", ev.Patch))
	}
	level := slog.LevelInfo
	if ev.Type == domain.TraceError {
		level = slog.LevelError
	}
	s.logger.LogAttrs(ctx, level, string(ev.Type), attrs...)
}
