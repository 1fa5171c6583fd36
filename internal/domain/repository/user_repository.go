// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"classrank/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
// Implementations must enforce uniqueness on the normalized email column;
// callers are responsible for normalizing before every lookup or insert.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage. A unique-constraint
	// violation on the email column surfaces as a Conflict domain error so
	// concurrent registrations of the same address stay safe.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// MarkEmailVerified sets the user's verification timestamp if it is
	// still unset. A repeated call is a no-op.
	MarkEmailVerified(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error
}
