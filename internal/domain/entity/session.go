// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side proof of an authenticated client. The client
// holds the raw bearer token in a cookie; only its SHA-256 digest is stored,
// so a leaked database never reveals a usable credential.
type Session struct {
	ID        uuid.UUID // The unique ID for this session record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 digest of the raw bearer token, used as the lookup key.
	ExpiresAt time.Time // The exact time when this session stops being accepted.
	CreatedAt time.Time // Timestamp of when this session was created (i.e., when the user logged in).
}
