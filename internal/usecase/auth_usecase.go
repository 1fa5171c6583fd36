// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"classrank/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Validation tags are enforced by the delivery layer's validator.
type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Name            string `json:"name" validate:"omitempty,max=100"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// ResendVerificationInput carries the optional target email. When the caller
// is already authenticated the email comes from their account instead.
type ResendVerificationInput struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// --- Output DTOs ---

// RegisterOutput returns a generic acknowledgement. It deliberately carries
// no account state so the response cannot be used to probe for addresses.
type RegisterOutput struct {
	Message string
}

// LoginOutput returns the logged-in user together with the issued session.
type LoginOutput struct {
	User    *entity.User
	Session *IssuedSession
}

// SessionSummary is the session introspection payload. User is nil for
// anonymous callers; ReviewCount summarizes the user's tracked collections.
type SessionSummary struct {
	User        *entity.User
	ReviewCount int
}

// AuthUsecase defines the interface for credential lifecycle orchestration.
// This is the contract that the delivery layer (HTTP handlers) depends on.
type AuthUsecase interface {
	// Register creates an account and dispatches a verification email.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues a session.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Logout revokes the session behind the raw bearer token. Idempotent.
	Logout(ctx context.Context, rawToken string) error

	// ResendVerification issues a fresh verification token. The outcome is
	// indistinguishable for unknown and already-verified addresses.
	ResendVerification(ctx context.Context, rawSessionToken string, input *ResendVerificationInput) error

	// VerifyEmail redeems a verification token exactly once.
	VerifyEmail(ctx context.Context, rawToken string) error

	// CurrentSession resolves the bearer token to a profile summary. An
	// absent or invalid token yields an anonymous summary, never an error.
	CurrentSession(ctx context.Context, rawToken string) (*SessionSummary, error)
}
