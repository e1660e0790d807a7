/*
Package statemachine is a deterministic engine for multi-step identity
flows (username resolution, password/SSO/MFA authentication, account
creation, password reset) driven by an externally-declared state machine
rather than hard-coded control flow.

The engine interprets a declarative flow definition (states plus a
transition table) and advances a per-session cursor through it, pausing
whenever real work is required (a backend call at an action state, or a
user interaction at a view state) and resuming when the caller supplies
the outcome as an event key.

# Concept

Flows are data: four state kinds (switch, action, sub-flow, view) and a
(state, event key) → edge transition table. The engine owns dispatch,
sub-flow composition, context threading, and the suspend/resume protocol;
the host owns all I/O: backend calls, rendering, persistence, transport.
This Hexagonal Architecture allows the engine to be embedded in any
interface: CLI, HTTP server, or a larger identity service.

# Usage

	eng, err := statemachine.New("./flows/login")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	sess := eng.NewSession(map[string]string{
		"resolver_match": "exact",
		"login_method":   "password",
		"first_login":    "no",
	}, "")

	// First step runs the silent states and pauses at the first
	// suspend point.
	res, err := eng.Step(ctx, sess, nil)
	if err != nil {
		log.Fatal(err)
	}

	for !res.Done {
		p := res.Prompt
		switch p.Kind {
		case domain.KindView:
			// Render p.Interface (and p.ErrorTag, if set), collect a
			// user event, then:
			res, err = eng.Step(ctx, sess, domain.Key("submit_password"))
		case domain.KindAction:
			// Perform the backend call for p.StateID, then report its
			// declared outcome:
			res, err = eng.Step(ctx, sess, domain.Key("success"))
		}
		if err != nil {
			log.Fatal(err) // configuration defect; abandon the session
		}
	}

Sessions are plain serializable snapshots; pkg/session and the store
adapters add persistence and per-session locking for hosted deployments.
*/
package statemachine
