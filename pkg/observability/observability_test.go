package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

func TestRecorderKeepsOrder(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()

	rec.Emit(ctx, domain.TraceEvent{Type: domain.TraceStateEnter, StateID: "a"})
	rec.Emit(ctx, domain.TraceEvent{Type: domain.TraceTransition, StateID: "a", Target: "b"})
	rec.Emit(ctx, domain.TraceEvent{Type: domain.TraceStateEnter, StateID: "b"})

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].StateID)
	assert.Equal(t, "b", events[1].Target)

	enters := rec.OfType(domain.TraceStateEnter)
	require.Len(t, enters, 2)
	assert.Equal(t, "b", enters[1].StateID)

	rec.Reset()
	assert.Empty(t, rec.Events())
}

func TestRecorderEventsReturnsCopy(t *testing.T) {
	rec := NewRecorder()
	rec.Emit(context.Background(), domain.TraceEvent{Type: domain.TraceFinish})

	events := rec.Events()
	events[0].Type = domain.TraceSuspend

	assert.Equal(t, domain.TraceFinish, rec.Events()[0].Type)
}

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ctx := context.Background()

	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceTransition, Kind: domain.KindSwitch})
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceTransition, Kind: domain.KindSwitch})
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceTransition, Kind: domain.KindView})
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceSuspend, Kind: domain.KindAction})
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceSubflowPush})
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceFinish})
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceError, StateID: "method_branch"})
	// State entries are not counted.
	m.Emit(ctx, domain.TraceEvent{Type: domain.TraceStateEnter, Kind: domain.KindView})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("switch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("view")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.suspends.WithLabelValues("action")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subflows))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.finished))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fatals))
}

func TestMultiFansOut(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	sink := Multi{a, b}

	sink.Emit(context.Background(), domain.TraceEvent{Type: domain.TraceSuspend, StateID: "x"})

	require.Len(t, a.Events(), 1)
	require.Len(t, b.Events(), 1)
	assert.Equal(t, "x", b.Events()[0].StateID)
}

func TestSlogSinkWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	sink.Emit(context.Background(), domain.TraceEvent{
		Type:     domain.TraceTransition,
		StateID:  "verifyPasswordAction",
		Kind:     domain.KindAction,
		EventKey: "invalid_password",
		Target:   "PasswordEntryView",
		ErrorTag: "invalid_password",
	})

	out := buf.String()
	assert.Contains(t, out, "msg=transition")
	assert.Contains(t, out, "state=verifyPasswordAction")
	assert.Contains(t, out, "target=PasswordEntryView")
	assert.Contains(t, out, "error_tag=invalid_password")
}
