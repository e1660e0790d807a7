package domain

import "strings"

// Context is the session's accumulated key→value facts. Every write path
// (initial construction, edge patches, rich event payloads) normalizes both
// key and value to lowercase text, so switch lookups never depend on the
// caller's casing. Values are otherwise opaque to the engine.
type Context map[string]string

// NewContext builds a context from initial facts, normalizing each entry.
func NewContext(initial map[string]string) Context {
	c := make(Context, len(initial))
	c.Apply(initial)
	return c
}

// Set writes a single normalized entry. Keys are never removed, only
// added or overwritten.
func (c Context) Set(key, value string) {
	c[strings.ToLower(key)] = strings.ToLower(value)
}

// Apply merges a patch into the context. Applying the same patch twice
// yields the same context.
func (c Context) Apply(patch map[string]string) {
	for k, v := range patch {
		c.Set(k, v)
	}
}

// Get reads a value, normalizing the key the same way writes do.
func (c Context) Get(key string) string {
	return c[strings.ToLower(key)]
}

// Clone returns an independent copy.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
