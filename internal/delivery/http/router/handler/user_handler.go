package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"classrank/config"
	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/delivery/http/response"
	"classrank/internal/domain/entity"
	"classrank/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserView is the public shape of an account. The password hash and other
// internal columns never leave the server.
type UserView struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	School         string          `json:"school,omitempty"`
	GraduationYear int             `json:"graduationYear,omitempty"`
	EmailVerified  bool            `json:"emailVerified"`
	Preferences    json.RawMessage `json:"preferences,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func publicUser(user *entity.User) *UserView {
	return &UserView{
		ID:             user.ID.String(),
		Email:          user.Email,
		Name:           user.Name,
		School:         user.School,
		GraduationYear: user.GraduationYear,
		EmailVerified:  user.IsVerified(),
		Preferences:    user.Preferences,
		CreatedAt:      user.CreatedAt,
	}
}

// UserHandler holds dependencies for the authenticated account endpoints.
type UserHandler struct {
	uc        usecase.ProfileUsecase
	sessionUC usecase.SessionUsecase
	cfg       *config.Config
	logger    *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.ProfileUsecase, sessionUC usecase.SessionUsecase, cfg *config.Config, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:        uc,
		sessionUC: sessionUC,
		cfg:       cfg,
		logger:    logger,
	}
}

// UpdateProfile handles PUT /user/profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "UNAUTHORIZED", "authentication required")
	}

	var input *usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), session.UserID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, publicUser(user), "Profile updated")
}

// UpdatePreferences handles PUT /user/preferences.
func (h *UserHandler) UpdatePreferences(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "UNAUTHORIZED", "authentication required")
	}

	var input *usecase.UpdatePreferencesInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid preferences input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.UpdatePreferences(c.Request().Context(), session.UserID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, publicUser(user), "Preferences updated")
}

// LogoutAll handles POST /user/logout-all. It revokes every session of the
// account, signing the caller out on all devices including this one.
func (h *UserHandler) LogoutAll(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, "UNAUTHORIZED", "authentication required")
	}

	if err := h.sessionUC.RevokeAllForUser(c.Request().Context(), session.UserID); err != nil {
		return errors.WithStack(err)
	}

	expireSessionCookie(c, h.cfg.IsProduction())

	return response.Success(c, http.StatusOK, map[string]string{"message": "Signed out on all devices"}, "Sessions revoked")
}
