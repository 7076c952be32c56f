package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"vending-machine/internal/core/domain"
	"vending-machine/internal/core/ports"
	"vending-machine/pkg/apperror"
)

// CardAuthenticator composes card and PIN verification for external callers,
// with an optional failed-attempt lockout. A locked-out or mismatched card is
// refused silently (false, no error) so callers cannot tell which check
// failed. Attempt-store outages fail open with a warning.
type CardAuthenticator struct {
	attempts    ports.PinAttemptStore // nil disables lockout
	maxAttempts int64
	lockoutTTL  time.Duration
	log         zerolog.Logger
}

// NewCardAuthenticator creates a CardAuthenticator. attempts may be nil, in
// which case failed verifications are not counted.
func NewCardAuthenticator(attempts ports.PinAttemptStore, maxAttempts int64, lockoutTTL time.Duration, log zerolog.Logger) *CardAuthenticator {
	return &CardAuthenticator{
		attempts:    attempts,
		maxAttempts: maxAttempts,
		lockoutTTL:  lockoutTTL,
		log:         log,
	}
}

// Authenticate verifies the pin against the card.
func (a *CardAuthenticator) Authenticate(ctx context.Context, card *domain.VendingCard, pin string) (bool, error) {
	if card == nil {
		return false, apperror.InvalidArgument("card", "cannot be nil")
	}

	if a.lockedOut(ctx, card.AccountIdentifier()) {
		return false, nil
	}

	ok, err := card.VerifyPin(ctx, pin)
	if err != nil {
		return false, err
	}

	a.recordOutcome(ctx, card.AccountIdentifier(), ok)

	return ok, nil
}

func (a *CardAuthenticator) lockedOut(ctx context.Context, accountID string) bool {
	if a.attempts == nil {
		return false
	}

	failures, err := a.attempts.Failures(ctx, accountID)
	if err != nil {
		a.log.Warn().Err(err).Str("account_id", accountID).Msg("pin attempt check failed, allowing attempt")
		return false
	}

	if failures >= a.maxAttempts {
		a.log.Info().Str("account_id", accountID).Int64("failures", failures).Msg("card locked out")
		return true
	}

	return false
}

func (a *CardAuthenticator) recordOutcome(ctx context.Context, accountID string, ok bool) {
	if a.attempts == nil {
		return
	}

	if ok {
		if err := a.attempts.Reset(ctx, accountID); err != nil {
			a.log.Warn().Err(err).Str("account_id", accountID).Msg("failed to reset pin attempts")
		}
		return
	}

	if _, err := a.attempts.RecordFailure(ctx, accountID, a.lockoutTTL); err != nil {
		a.log.Warn().Err(err).Str("account_id", accountID).Msg("failed to record pin attempt")
	}
}
