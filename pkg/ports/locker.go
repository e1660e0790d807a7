package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency
// control. It lets the session manager serialize access to one session
// across multiple replicas; independent sessions never contend.
type DistributedLocker interface {
	// Lock acquires a lock for the given key (e.g. a session id). It blocks
	// until acquired or the context is canceled. The returned UnlockFunc
	// MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
