// Package middleware wraps a ports.SessionStore with cross-cutting
// behavior. Middlewares compose: Chain(a, b)(store) saves through a, then
// b, then the store.
package middleware

import "github.com/ndrukelly2/state-machine/pkg/ports"

// Middleware wraps a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain composes middlewares so the first one listed sees calls first.
func Chain(mws ...Middleware) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
