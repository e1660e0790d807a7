/*
Package ports defines the driven ports (interfaces) for the flow engine.

These interfaces decouple the core stepping logic from external
implementations, allowing the engine to work with various session storage
backends, observability sinks, and locking strategies.

# Key Interfaces

  - FlowEngine: the stepping protocol exposed to hosting adapters.
  - SessionStore: persistence for suspended sessions (memory, Redis).
  - EventSink: receiver for structured trace events.
  - DistributedLocker: cross-replica serialization of one session.
*/
package ports
