package repository

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository exposes the slice of review persistence the auth subsystem
// needs: per-author counts for the session introspection summary. The full
// review CRUD surface lives outside this subsystem.
type ReviewRepository interface {
	// CountByAuthor returns how many reviews the user has written.
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error)
}
