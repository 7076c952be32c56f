// Package ports declares the boundaries between the transactional core and
// its external collaborators.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"vending-machine/internal/core/domain"
)

// AccountSupplier is the account provisioning collaborator. It produces the
// machine's initial account list exactly once, on first use; the returned
// collection is expected to be deduplicated and non-nil.
type AccountSupplier interface {
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
}

// PinAttemptStore tracks consecutive failed PIN verifications per account so
// the authenticator can lock a card out. Implementations are best-effort:
// callers fail open when the store is unreachable.
type PinAttemptStore interface {
	// Failures returns the current consecutive-failure count.
	Failures(ctx context.Context, accountIdentifier string) (int64, error)
	// RecordFailure increments the count and returns the new value. The count
	// expires after ttl.
	RecordFailure(ctx context.Context, accountIdentifier string, ttl time.Duration) (int64, error)
	// Reset clears the count after a successful verification.
	Reset(ctx context.Context, accountIdentifier string) error
}
