// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is the core identity record of the application. Accounts are created
// on registration and mutated by profile updates and email verification;
// they are never deleted in the normal flow.
type User struct {
	ID              uuid.UUID       // The unique identifier for the account.
	Email           string          // Normalized (trimmed, lower-cased) login email; unique across accounts.
	Name            string          // The user's display name.
	School          string          // Optional school the user attends or attended.
	GraduationYear  int             // Optional graduation year, 0 when unset.
	PasswordHash    string          // Bcrypt digest of the password. The raw password is never stored.
	EmailVerifiedAt *time.Time      // Set once the user redeems a verification token; nil means unverified.
	Preferences     json.RawMessage // Opaque UI preference blob owned by the frontend.
	CreatedAt       time.Time       // Timestamp of when this account was created.
	UpdatedAt       time.Time       // Timestamp of the last modification to this account.
}

// IsVerified reports whether the user has completed email verification.
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
