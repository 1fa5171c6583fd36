// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurposeEmail tags tokens that prove ownership of an email address.
// It is the only purpose today; the column exists so future flows can share
// the table without a migration.
const TokenPurposeEmail = "email"

// VerificationToken is a single-use, time-boxed proof of email ownership.
// As with sessions, only the digest of the raw token is stored; deleting the
// row on redemption is what makes the token single-use.
type VerificationToken struct {
	ID        uuid.UUID // The unique ID for this token record.
	UserID    uuid.UUID // Links this token to the User it verifies.
	TokenHash string    // SHA-256 digest of the raw token, used as the lookup key.
	Purpose   string    // What this token proves, e.g. TokenPurposeEmail.
	ExpiresAt time.Time // The exact time when this token stops being redeemable.
	CreatedAt time.Time // Timestamp of when this token was issued.
}

// Expired reports whether the token can no longer be redeemed at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
