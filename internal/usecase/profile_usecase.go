package usecase

import (
	"context"
	"encoding/json"

	"classrank/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UpdateProfileInput carries the editable profile fields. Zero values leave
// the corresponding field untouched.
type UpdateProfileInput struct {
	Name           string `json:"name" validate:"omitempty,max=100"`
	School         string `json:"school" validate:"omitempty,max=200"`
	GraduationYear int    `json:"graduationYear" validate:"omitempty,gte=1900,lte=2100"`
}

// UpdatePreferencesInput replaces the user's preference document wholesale.
type UpdatePreferencesInput struct {
	Preferences json.RawMessage `json:"preferences" validate:"required"`
}

// ProfileUsecase manages the mutable parts of a user account.
type ProfileUsecase interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input *UpdatePreferencesInput) (*entity.User, error)
}
