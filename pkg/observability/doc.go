/*
Package observability provides ready-made event sinks for the engine's
structured trace stream: a slog-backed sink for console or file logging,
an in-memory recorder for tests, and a Prometheus sink exposing counters.

All sinks implement ports.EventSink and are interchangeable; Multi fans
one stream out to several of them, and Redactor masks sensitive context
keys before forwarding.
*/
package observability
