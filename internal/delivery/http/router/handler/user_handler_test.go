package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"classrank/config"
	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/delivery/http/middleware"
	"classrank/internal/domain/entity"
	"classrank/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSessionManager records revocations so the logout-all flow can be
// tested without the service stack.
type stubSessionManager struct {
	revokedAllFor []uuid.UUID
	revokeAllErr  error
}

func (s *stubSessionManager) Create(context.Context, uuid.UUID, bool) (*usecase.IssuedSession, error) {
	return nil, nil
}

func (s *stubSessionManager) Validate(context.Context, string) (*entity.Session, error) {
	return nil, nil
}

func (s *stubSessionManager) Revoke(context.Context, string) error {
	return nil
}

func (s *stubSessionManager) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	s.revokedAllFor = append(s.revokedAllFor, userID)

	return s.revokeAllErr
}

func TestUserHandler_LogoutAll(t *testing.T) {
	t.Run("revokes every session of the account and expires the cookie", func(t *testing.T) {
		sessions := &stubSessionManager{}
		h := NewUserHandler(nil, sessions, &config.Config{}, slogDiscard())

		userID := uuid.New()
		c, rec := newAuthTestContext(t, http.MethodPost, "/user/logout-all", "")
		deliverycontext.SetSession(c, &entity.Session{
			ID:        uuid.New(),
			UserID:    userID,
			ExpiresAt: time.Now().Add(time.Hour),
		})

		require.NoError(t, h.LogoutAll(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []uuid.UUID{userID}, sessions.revokedAllFor)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		sessions := &stubSessionManager{}
		h := NewUserHandler(nil, sessions, &config.Config{}, slogDiscard())

		c, rec := newAuthTestContext(t, http.MethodPost, "/user/logout-all", "")

		require.NoError(t, h.LogoutAll(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, sessions.revokedAllFor)
	})
}
