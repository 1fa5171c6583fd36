package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/domain/entity"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/domain/repository"
	"classrank/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// UpdateProfile applies the non-zero fields of the input to the user's profile.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to load account for profile update")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.School != "" {
		user.School = input.School
	}
	if input.GraduationYear != 0 {
		user.GraduationYear = input.GraduationYear
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", userID))

	return user, nil
}

// UpdatePreferences replaces the user's preference document. The payload is
// opaque to the backend apart from being well-formed JSON.
func (srv *profileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, input *usecase.UpdatePreferencesInput) (*entity.User, error) {
	if !json.Valid(input.Preferences) {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "preferences must be valid JSON")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account not found")
		}

		return nil, errors.Wrap(err, "failed to load account for preferences update")
	}

	user.Preferences = input.Preferences

	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to update preferences", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update preferences")
	}

	return user, nil
}
