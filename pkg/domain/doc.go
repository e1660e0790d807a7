/*
Package domain contains the core domain models for the identity-flow engine.

It defines the fundamental entities of the state machine: States (switch,
action, sub-flow, view), Edges, the immutable Flow definition, the mutable
per-session Context, and the Session snapshot that makes a run serializable
and resumable. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - State: a named point in the flow; exactly one of four kinds.
  - Edge: a rule mapping (state, event key) to a target, optionally carrying
    a displayable error tag and a context patch.
  - Flow: the read-only states + transitions definition shared by sessions.
  - Session: the runtime snapshot of one login/signup attempt (current state,
    sub-flow stack, context, pending error tag).
  - Prompt / StepResult: what a step call hands back to the host.
*/
package domain
