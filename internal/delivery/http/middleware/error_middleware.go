// Package middleware provides the HTTP-specific middleware of the service.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"classrank/internal/delivery/http/response"
	domainerrors "classrank/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware translates errors escaping the handlers into the shared
// response envelope. It is installed as Echo's HTTPErrorHandler.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError maps a returned error to a status and body. Domain errors
// carry their own codes, Echo errors keep theirs, and anything unclassified
// becomes a generic 500.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		response.Fail(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		response.Fail(c, httpErr.Code, "HTTP_ERROR", fmt.Sprintf("%v", httpErr.Message), "")

		return
	}

	// Anything unclassified is a server fault. The cause stays in the logs;
	// the client only learns that something went wrong.
	m.logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	response.Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "")
}
