package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/delivery/http/response"
	"classrank/internal/domain/repository"
	"classrank/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionCookieName is the cookie carrying the raw opaque session token.
const SessionCookieName = "classrank_session"

// SessionMiddleware authenticates requests by resolving the session cookie.
type SessionMiddleware struct {
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(sessionUC usecase.SessionUsecase, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessionUC: sessionUC, logger: logger}
}

// RawToken extracts the raw session token from the request cookie. It
// returns the empty string when the cookie is absent.
func RawToken(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == nil {
		return ""
	}

	return cookie.Value
}

// Authenticate rejects requests without a live session and stores the
// resolved session in the request context for handlers.
func (m *SessionMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawToken := RawToken(c)
		if rawToken == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "authentication required")
		}

		session, err := m.sessionUC.Validate(c.Request().Context(), rawToken)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return response.Unauthorized(c, "UNAUTHORIZED", "authentication required")
			}
			m.logger.Error("Failed to resolve session", slog.Any("error", err))

			return response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "")
		}

		deliverycontext.SetSession(c, session)

		return next(c)
	}
}
