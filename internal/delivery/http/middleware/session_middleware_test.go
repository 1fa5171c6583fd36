package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/domain/entity"
	"classrank/internal/domain/repository"
	"classrank/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionUsecase struct {
	session *entity.Session
	err     error
}

func (s *stubSessionUsecase) Create(context.Context, uuid.UUID, bool) (*usecase.IssuedSession, error) {
	return nil, nil
}

func (s *stubSessionUsecase) Validate(context.Context, string) (*entity.Session, error) {
	return s.session, s.err
}

func (s *stubSessionUsecase) Revoke(context.Context, string) error { return nil }

func (s *stubSessionUsecase) RevokeAllForUser(context.Context, uuid.UUID) error { return nil }

func runAuthenticate(t *testing.T, uc usecase.SessionUsecase, cookie *http.Cookie) (*httptest.ResponseRecorder, *entity.Session) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewSessionMiddleware(uc, logger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/user/profile", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *entity.Session
	handler := m.Authenticate(func(c echo.Context) error {
		seen = deliverycontext.GetSession(c)

		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return rec, seen
}

func TestSessionMiddleware_Authenticate(t *testing.T) {
	t.Run("rejects a request without a cookie", func(t *testing.T) {
		rec, seen := runAuthenticate(t, &stubSessionUsecase{}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("rejects a dead session", func(t *testing.T) {
		uc := &stubSessionUsecase{err: repository.ErrSessionNotFound}
		rec, seen := runAuthenticate(t, uc, &http.Cookie{Name: SessionCookieName, Value: "stale"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, seen)
	})

	t.Run("passes a live session to the handler", func(t *testing.T) {
		session := &entity.Session{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		rec, seen := runAuthenticate(t, &stubSessionUsecase{session: session},
			&http.Cookie{Name: SessionCookieName, Value: "live"})

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, session.UserID, seen.UserID)
	})
}
