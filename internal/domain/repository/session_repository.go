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

// ErrSessionNotFound is returned when no usable session matches a lookup.
// An expired row is reported the same way as an absent one: once past its
// expiry a session is inert and must never authenticate a request.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for server-side session persistence.
// Multiple concurrent sessions per user are permitted.
type SessionRepository interface {
	// Create persists a new session, representing a logged-in client.
	Create(ctx context.Context, session *entity.Session) error

	// FindActiveByTokenHash retrieves the session whose digest matches and
	// whose expiry is strictly after now. Expired rows are not returned.
	FindActiveByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*entity.Session, error)

	// DeleteByTokenHash removes the session matching the digest, ending that
	// session. Returns ErrSessionNotFound when no row matched.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUserID removes every session for a user.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired prunes rows whose expiry has passed. Expired sessions are
	// already treated as absent, so this is hygiene, not a security measure.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
