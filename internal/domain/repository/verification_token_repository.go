// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"classrank/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrVerificationTokenNotFound is returned when no token row matches a lookup
// or a conditional delete. During concurrent redemption of the same raw token
// the loser of the race sees this error from DeleteByTokenHash.
var ErrVerificationTokenNotFound = errors.New("verification token not found")

// VerificationTokenRepository defines the interface for single-use
// verification token persistence. Deleting the row is what enforces
// single use, so deletes must be atomic conditional operations.
type VerificationTokenRepository interface {
	// Create persists a newly issued token.
	Create(ctx context.Context, token *entity.VerificationToken) error

	// FindByTokenHash retrieves a token by its digest regardless of expiry;
	// the caller decides between the expired and valid outcomes.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.VerificationToken, error)

	// DeleteByTokenHash atomically removes the token matching the digest.
	// Returns ErrVerificationTokenNotFound when no row was deleted, which is
	// how a second redemption of the same token is detected.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserAndPurpose removes every token of the purpose for the user.
	// Deleting zero rows is not an error.
	DeleteByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose string) error

	// DeleteExpired prunes rows whose expiry has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
