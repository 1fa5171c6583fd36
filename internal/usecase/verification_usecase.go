package usecase

import (
	"context"

	"classrank/internal/domain/entity"

	"github.com/google/uuid"
)

// VerificationUsecase manages single-use email verification tokens.
type VerificationUsecase interface {
	// Issue mints a fresh verification token for the user, clearing any
	// earlier tokens of the same purpose first, and returns the raw token.
	Issue(ctx context.Context, userID uuid.UUID, purpose string) (string, error)

	// Redeem consumes a raw token exactly once and returns the token record
	// it resolved to. A second redemption of the same token fails with
	// repository.ErrVerificationTokenNotFound; an expired token fails with
	// domainerrors.ErrTokenExpired.
	Redeem(ctx context.Context, rawToken string, purpose string) (*entity.VerificationToken, error)

	// ClearForUser removes all of the user's tokens for the purpose.
	ClearForUser(ctx context.Context, userID uuid.UUID, purpose string) error
}
