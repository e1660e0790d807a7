/*
Package session orchestrates persistent, serialized access to flow sessions.

A session must never be stepped concurrently from two callers, so the
Manager guards each session id with a reference-counted mutex (and an
optional distributed lock for multi-replica deployments) while allowing
unlimited parallelism across independent sessions. Around every step it
loads the snapshot from the store, advances it through the engine, and
persists the result. A fatally failed session is deleted instead.
*/
package session
