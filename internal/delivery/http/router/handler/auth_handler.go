// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"classrank/config"
	"classrank/internal/delivery/http/middleware"
	"classrank/internal/delivery/http/response"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for the credential endpoints.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		cfg:    cfg,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": output.Message}, output.Message)
}

// Login handles the login request and installs the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setSessionCookie(c, output.Session.RawToken, output.Session.ExpiresAt)

	return response.Success(c, http.StatusOK, publicUser(output.User), "Login successful")
}

// Logout revokes the current session and expires the cookie. It succeeds
// even when no session cookie is present.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.RawToken(c)); err != nil {
		return errors.WithStack(err)
	}

	h.clearSessionCookie(c)

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// ResendVerification re-issues a verification email. The response is the
// same for every resolvable and unresolvable target.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var input *usecase.ResendVerificationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resend input")
	}
	if input == nil {
		// A bodiless POST skips binding entirely. The email is optional, so
		// that is a valid anonymous-or-session request, not a 400.
		input = &usecase.ResendVerificationInput{}
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ResendVerification(c.Request().Context(), middleware.RawToken(c), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK,
		map[string]string{"message": "if the account exists and is unverified, a new email is on its way"},
		"Verification email requested")
}

// VerifyEmail redeems the token from the query string and redirects the
// browser to the frontend with the outcome in a status flag.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	err := h.uc.VerifyEmail(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		var appErr domainerrors.AppError
		if !errors.As(err, &appErr) {
			// Redirect flows swallow the cause; keep it in the logs.
			h.logger.Error("Email verification failed", slog.Any("error", err))
		}

		return c.Redirect(http.StatusFound, h.verifyRedirect("error"))
	}

	return c.Redirect(http.StatusFound, h.verifyRedirect("success"))
}

// Session is the introspection endpoint. It always answers 200; an
// anonymous caller gets a null user.
func (h *AuthHandler) Session(c echo.Context) error {
	summary, err := h.uc.CurrentSession(c.Request().Context(), middleware.RawToken(c))
	if err != nil {
		return errors.WithStack(err)
	}

	payload := map[string]any{"user": nil, "reviewCount": 0}
	if summary.User != nil {
		payload["user"] = publicUser(summary.User)
		payload["reviewCount"] = summary.ReviewCount
	}

	return response.Success(c, http.StatusOK, payload, "Session resolved")
}

func (h *AuthHandler) verifyRedirect(status string) string {
	base := h.cfg.HTTP.VerifyRedirectURL
	if base == "" {
		base = "/"
	}

	separator := "?"
	if parsed, err := url.Parse(base); err == nil && parsed.RawQuery != "" {
		separator = "&"
	}

	return base + separator + "status=" + status
}

func (h *AuthHandler) setSessionCookie(c echo.Context, rawToken string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    rawToken,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	expireSessionCookie(c, h.cfg.IsProduction())
}

// expireSessionCookie overwrites the session cookie with an already-expired
// one so the browser drops it.
func expireSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
