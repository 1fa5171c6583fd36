package usecase

import (
	"context"
	"time"

	"classrank/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Output DTOs ---

// IssuedSession pairs the raw opaque token with its expiry. The raw token
// exists only in this value; persistence holds its digest.
type IssuedSession struct {
	RawToken  string
	ExpiresAt time.Time
}

// SessionUsecase manages opaque browser sessions.
type SessionUsecase interface {
	// Create issues a session for the user. rememberMe selects the long TTL.
	Create(ctx context.Context, userID uuid.UUID, rememberMe bool) (*IssuedSession, error)

	// Validate resolves a raw token to its live session. Expired or unknown
	// tokens return repository.ErrSessionNotFound.
	Validate(ctx context.Context, rawToken string) (*entity.Session, error)

	// Revoke deletes the session behind the raw token. Revoking a token that
	// no longer resolves is not an error.
	Revoke(ctx context.Context, rawToken string) error

	// RevokeAllForUser deletes every session owned by the user.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}
