// Package response shapes the JSON envelope shared by every endpoint.
// Handlers never write raw JSON. They return one of these helpers, or return
// an error and let the central error handler translate it, so clients see the
// same body shape regardless of which path produced it.
package response

import (
	"net/http"

	deliverycontext "classrank/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// Body is the envelope for every JSON response the API produces. RequestID
// mirrors the X-Request-Id header so a body quoted in a support ticket can be
// matched against the server logs.
type Body struct {
	Success   bool       `json:"success"`
	Code      int        `json:"code"`
	Message   string     `json:"message"`
	RequestID string     `json:"requestId,omitempty"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries the machine-readable half of a failure: a stable code
// clients can branch on, such as "EMAIL_TAKEN", plus optional human detail.
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func write(c echo.Context, statusCode int, body Body) error {
	body.Code = statusCode
	body.RequestID = deliverycontext.GetRequestID(c)

	return c.JSON(statusCode, body)
}

// Success writes a 2xx envelope wrapping data.
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return write(c, statusCode, Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail writes a failure envelope. An empty message falls back to the
// standard text for the status code.
func Fail(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return write(c, statusCode, Body{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BindingError rejects a request whose payload failed binding or validation.
func BindingError(c echo.Context, errorCode string, message string) error {
	return Fail(c, http.StatusBadRequest, errorCode, message, "")
}

// Unauthorized rejects a request that lacks a live session.
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Fail(c, http.StatusUnauthorized, errorCode, message, "")
}
