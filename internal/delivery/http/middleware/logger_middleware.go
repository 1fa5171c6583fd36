package middleware

import (
	"context"
	"log/slog"
	"time"

	"classrank/config"
	deliverycontext "classrank/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware logs each request with its outcome and latency. It is
// active only in debug mode to keep production logs focused on the service
// layer's structured events.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

// Handle wraps next with request logging. Outside debug mode it is a
// passthrough.
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	if !m.debug {
		return next
	}

	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		m.logRequest(c, start, err)

		return err
	}
}

// logRequest records one line per request. The path is logged without the
// query string; raw tokens travel in the verify-email query and must not
// reach the logs.
func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, err error) {
	req := c.Request()

	status := c.Response().Status
	attrs := []slog.Attr{
		slog.String("request_id", deliverycontext.GetRequestID(c)),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
		slog.String("user_agent", req.UserAgent()),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}

	m.logger.LogAttrs(context.Background(), statusLevel(status), "HTTP Request", attrs...)
}

func statusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
