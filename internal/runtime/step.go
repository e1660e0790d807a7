package runtime

import (
	"context"

	"github.com/ndrukelly2/state-machine/pkg/domain"
)

// Step advances the session until it suspends at an action or view,
// finishes, or hits a fatal configuration defect. A nil event probes the
// current suspend point: probing is side-effect-free and returns the
// identical payload until real input arrives.
//
// Fatal errors leave the session as-is; the caller must discard it.
func (e *Engine) Step(ctx context.Context, sess *domain.Session, ev *domain.Event) (domain.StepResult, error) {
	if sess.Finished() {
		return domain.StepResult{Done: true}, nil
	}

	input := ev
	if input != nil {
		e.emit(ctx, domain.TraceEvent{Type: domain.TraceResume, StateID: sess.Current, EventKey: input.Type})
	}

	for !sess.Finished() {
		st, ok := e.flow.State(sess.Current)
		if !ok {
			return e.fail(ctx, sess.Current, "", &domain.UnknownStateError{StateID: sess.Current})
		}

		e.logger.Debug("entering state", "state", st.ID, "kind", st.Kind, "pending_error", sess.PendingError)
		e.emit(ctx, domain.TraceEvent{Type: domain.TraceStateEnter, StateID: st.ID, Kind: st.Kind})

		switch st.Kind {
		case domain.KindSwitch:
			value := sess.Context.Get(st.Expression)
			edge, ok := e.flow.Resolve(st.ID, value)
			if !ok {
				return e.fail(ctx, st.ID, value, &domain.UnresolvedSwitchError{
					StateID:    st.ID,
					Expression: st.Expression,
					Value:      value,
				})
			}
			e.apply(ctx, sess, st, value, edge)
			input = nil

		case domain.KindAction:
			if input == nil {
				return e.suspend(ctx, sess, st), nil
			}
			// Rich events merge their payload before the lookup, so the
			// outcome's data is visible to everything downstream.
			sess.Context.Apply(input.Context)
			edge, ok := e.flow.Resolve(st.ID, input.Type)
			if !ok {
				return e.fail(ctx, st.ID, input.Type, &domain.UnresolvedActionError{StateID: st.ID, EventKey: input.Type})
			}
			e.apply(ctx, sess, st, input.Type, edge)
			input = nil

		case domain.KindSubflow:
			if err := e.enterSubflow(ctx, sess, st); err != nil {
				return e.fail(ctx, st.ID, "", err)
			}
			input = nil

		case domain.KindView:
			if input == nil {
				return e.suspend(ctx, sess, st), nil
			}
			sess.Context.Apply(input.Context)
			edge, ok := e.flow.Resolve(st.ID, input.Type)
			if !ok {
				if e.viewMiss == domain.ViewMissPopSubflow {
					e.logger.Debug("unmatched view event, popping sub-flow", "state", st.ID, "event", input.Type)
					sess.PendingError = ""
					e.advanceOrPop(ctx, sess)
					input = nil
					continue
				}
				return e.fail(ctx, st.ID, input.Type, &domain.UnrecognizedViewEventError{StateID: st.ID, EventKey: input.Type})
			}
			// The displayed tag is spent once the view consumes an event.
			sess.PendingError = ""
			e.apply(ctx, sess, st, input.Type, edge)
			input = nil

		default:
			return e.fail(ctx, st.ID, "", &domain.UnknownStateKindError{StateID: st.ID, Kind: st.Kind})
		}
	}

	e.emit(ctx, domain.TraceEvent{Type: domain.TraceFinish})
	e.logger.Debug("session finished")
	return domain.StepResult{Done: true}, nil
}

// fail emits the error trace event and hands the fatal error back.
func (e *Engine) fail(ctx context.Context, stateID, key string, err error) (domain.StepResult, error) {
	e.emit(ctx, domain.TraceEvent{Type: domain.TraceError, StateID: stateID, EventKey: key})
	e.logger.Error("fatal flow error", "state", stateID, "event", key, "error", err)
	return domain.StepResult{}, err
}

// apply merges the edge's patch, records its error tag, moves the cursor,
// and emits the transition event.
func (e *Engine) apply(ctx context.Context, sess *domain.Session, st domain.State, key string, edge domain.Edge) {
	sess.Context.Apply(edge.SetContext)
	if edge.ErrorTag != "" {
		sess.PendingError = edge.ErrorTag
	}

	e.emit(ctx, domain.TraceEvent{
		Type:     domain.TraceTransition,
		StateID:  st.ID,
		Kind:     st.Kind,
		EventKey: key,
		Target:   edge.Target,
		ErrorTag: edge.ErrorTag,
		Patch:    edge.SetContext,
	})
	e.logger.Debug("transition", "from", st.ID, "on", key, "to", edge.Target, "error_tag", edge.ErrorTag)

	if edge.Target == domain.TargetNext {
		e.advanceOrPop(ctx, sess)
		return
	}
	sess.Current = edge.Target
}

// suspend builds the pause payload for an action or view. The pending
// error tag rides along on views; it stays set until the view consumes an
// event, so repeated probes return identical payloads.
func (e *Engine) suspend(ctx context.Context, sess *domain.Session, st domain.State) domain.StepResult {
	prompt := &domain.Prompt{
		StateID:    st.ID,
		Kind:       st.Kind,
		Escalation: st.Escalation,
	}
	if st.Kind == domain.KindView {
		prompt.Interface = st.Interface
		prompt.ErrorTag = sess.PendingError
	}

	e.emit(ctx, domain.TraceEvent{Type: domain.TraceSuspend, StateID: st.ID, Kind: st.Kind, ErrorTag: prompt.ErrorTag})
	e.logger.Debug("suspended", "state", st.ID, "kind", st.Kind)
	return domain.StepResult{Prompt: prompt}
}
