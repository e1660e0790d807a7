package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndrukelly2/state-machine/pkg/domain"
	"github.com/ndrukelly2/state-machine/pkg/observability"
)

func TestSubflowMembersRunInOrder(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(loginFlow())
	sess := e.NewSession(map[string]string{"method": "setup"}, "")

	p := mustPrompt(t)(e.Step(ctx, sess, nil))
	assert.Equal(t, "sendCode", p.StateID)
	require.Len(t, sess.Stack, 1)
	assert.Equal(t, "setupFlow", sess.Stack[0].Subflow)
	assert.Equal(t, []string{"codeView"}, sess.Stack[0].Remaining)

	p = mustPrompt(t)(e.Step(ctx, sess, domain.Key("sent")))
	assert.Equal(t, "codeView", p.StateID)
	assert.Empty(t, sess.Stack[0].Remaining)

	res, err := e.Step(ctx, sess, domain.Key("submit"))
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Empty(t, sess.Stack)
}

func TestSubflowReentryPushesFreshFrame(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(loginFlow())
	sess := e.NewSession(map[string]string{"method": "setup"}, "")

	mustPrompt(t)(e.Step(ctx, sess, nil))                // sendCode
	mustPrompt(t)(e.Step(ctx, sess, domain.Key("sent"))) // codeView

	// Looping back into the sub-flow stacks a second frame on top of the
	// exhausted first one.
	p := mustPrompt(t)(e.Step(ctx, sess, domain.Key("again")))
	assert.Equal(t, "sendCode", p.StateID)
	require.Len(t, sess.Stack, 2)
	assert.Equal(t, []string{"codeView"}, sess.Stack[1].Remaining)

	mustPrompt(t)(e.Step(ctx, sess, domain.Key("sent")))

	// Completing the inner run pops both frames LIFO.
	res, err := e.Step(ctx, sess, domain.Key("submit"))
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Empty(t, sess.Stack)
}

func TestNestedSubflows(t *testing.T) {
	flow := &domain.Flow{
		Entry: "outer",
		States: map[string]domain.State{
			"outer":      {ID: "outer", Kind: domain.KindSubflow, Sequence: []string{"inner", "FinalView"}},
			"inner":      {ID: "inner", Kind: domain.KindSubflow, Sequence: []string{"pingAction"}},
			"pingAction": {ID: "pingAction", Kind: domain.KindAction},
			"FinalView":  {ID: "FinalView", Kind: domain.KindView, Interface: "Final"},
		},
		Transitions: map[string]map[string]domain.Edge{
			"pingAction": {"ok": {Target: domain.TargetNext}},
			"FinalView":  {"continue": {Target: domain.TargetNext}},
		},
	}
	require.NoError(t, flow.Validate())

	ctx := context.Background()
	e := NewEngine(flow)
	sess := e.NewSession(nil, "")

	p := mustPrompt(t)(e.Step(ctx, sess, nil))
	assert.Equal(t, "pingAction", p.StateID)
	require.Len(t, sess.Stack, 2)
	assert.Equal(t, "outer", sess.Stack[0].Subflow)
	assert.Equal(t, "inner", sess.Stack[1].Subflow)

	// Finishing the inner sub-flow pops its frame and resumes the outer one.
	p = mustPrompt(t)(e.Step(ctx, sess, domain.Key("ok")))
	assert.Equal(t, "FinalView", p.StateID)
	require.Len(t, sess.Stack, 1)
	assert.Equal(t, "outer", sess.Stack[0].Subflow)

	res, err := e.Step(ctx, sess, domain.Key("continue"))
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.True(t, sess.Finished())
}

func TestSubflowFramesDoNotAliasDefinition(t *testing.T) {
	ctx := context.Background()
	flow := loginFlow()
	e := NewEngine(flow)
	sess := e.NewSession(map[string]string{"method": "setup"}, "")
	mustPrompt(t)(e.Step(ctx, sess, nil))

	sess.Stack[0].Remaining[0] = "tampered"
	assert.Equal(t, []string{"sendCode", "codeView"}, flow.States["setupFlow"].Sequence)
}

func TestSubflowTraceEvents(t *testing.T) {
	ctx := context.Background()
	rec := observability.NewRecorder()
	e := NewEngine(loginFlow(), WithSink(rec))
	sess := e.NewSession(map[string]string{"method": "setup"}, "")

	mustPrompt(t)(e.Step(ctx, sess, nil))
	mustPrompt(t)(e.Step(ctx, sess, domain.Key("sent")))
	res, err := e.Step(ctx, sess, domain.Key("submit"))
	require.NoError(t, err)
	require.True(t, res.Done)

	pushes := rec.OfType(domain.TraceSubflowPush)
	require.Len(t, pushes, 1)
	assert.Equal(t, "setupFlow", pushes[0].StateID)
	assert.Equal(t, "sendCode", pushes[0].Target)

	pops := rec.OfType(domain.TraceSubflowPop)
	require.Len(t, pops, 1)
	assert.Equal(t, "setupFlow", pops[0].StateID)

	finishes := rec.OfType(domain.TraceFinish)
	assert.Len(t, finishes, 1)
}
