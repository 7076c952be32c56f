// Package timedlock provides an exclusive lock with a bounded acquisition
// wait. Each stateful aggregate owns exactly one Lock; failure to acquire
// within the bound is surfaced as a fatal SYS_002 error, never a business
// condition.
package timedlock

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"vending-machine/pkg/apperror"
)

// DefaultTimeout is the bounded wait applied when no explicit timeout is
// configured.
const DefaultTimeout = 3 * time.Second

// Lock is a mutual-exclusion lock whose acquisition waits at most a fixed
// duration. The zero value is not usable; construct with New.
type Lock struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// New creates a Lock with the given acquisition bound. Non-positive timeouts
// fall back to DefaultTimeout.
func New(timeout time.Duration) *Lock {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Lock{
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
	}
}

// Acquire takes the lock, waiting at most the configured bound. The caller's
// context may cancel the wait earlier.
func (l *Lock) Acquire(ctx context.Context) error {
	acquireCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.sem.Acquire(acquireCtx, 1); err != nil {
		return apperror.ErrLockTimeout(fmt.Errorf("acquire within %s: %w", l.timeout, err))
	}
	return nil
}

// Release returns the lock. Must only be called after a successful Acquire.
func (l *Lock) Release() {
	l.sem.Release(1)
}
