package runtime

import (
	"context"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// enterSubflow pushes a frame holding the unvisited members and moves the
// cursor to the first member.
func (e *Engine) enterSubflow(ctx context.Context, sess *domain.Session, st domain.State) error {
	if len(st.Sequence) == 0 {
		return &domain.EmptySubflowError{StateID: st.ID}
	}

	// Copy the tail so frames never alias the shared flow definition.
	sess.Stack = append(sess.Stack, domain.Frame{
		Subflow:   st.ID,
		Remaining: append([]string(nil), st.Sequence[1:]...),
	})
	sess.Current = st.Sequence[0]

	e.emit(ctx, domain.TraceEvent{Type: domain.TraceSubflowPush, StateID: st.ID, Target: st.Sequence[0]})
	e.logger.Debug("entering sub-flow", "subflow", st.ID, "first", st.Sequence[0])
	return nil
}

// advanceOrPop moves the cursor to the next member of the innermost frame,
// popping exhausted frames in LIFO order. When the stack runs out the
// session is finished.
func (e *Engine) advanceOrPop(ctx context.Context, sess *domain.Session) {
	for len(sess.Stack) > 0 {
		top := &sess.Stack[len(sess.Stack)-1]
		if len(top.Remaining) > 0 {
			sess.Current = top.Remaining[0]
			top.Remaining = top.Remaining[1:]
			e.logger.Debug("next sub-flow member", "subflow", top.Subflow, "state", sess.Current)
			return
		}
		e.emit(ctx, domain.TraceEvent{Type: domain.TraceSubflowPop, StateID: top.Subflow})
		e.logger.Debug("sub-flow complete", "subflow", top.Subflow)
		sess.Stack = sess.Stack[:len(sess.Stack)-1]
	}
	sess.Current = ""
}
