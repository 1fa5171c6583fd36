// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"classrank/config"
	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/domain/entity"
	"classrank/internal/domain/repository"
	"classrank/internal/domain/service"
	"classrank/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	sessionRepo   repository.SessionRepository
	tokenService  service.TokenService
	sessionTTL    time.Duration
	rememberMeTTL time.Duration
	logger        *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	SessionRepo  repository.SessionRepository
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	sessionTTL := config.DefaultSessionTTL
	rememberMeTTL := config.DefaultRememberMeTTL
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.SessionTTL > 0 {
			sessionTTL = params.Config.Auth.SessionTTL
		}
		if params.Config.Auth.RememberMeTTL > 0 {
			rememberMeTTL = params.Config.Auth.RememberMeTTL
		}
	}

	return &sessionService{
		sessionRepo:   params.SessionRepo,
		tokenService:  params.TokenService,
		sessionTTL:    sessionTTL,
		rememberMeTTL: rememberMeTTL,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create issues a fresh opaque session token for the user and persists its
// digest. The raw token leaves this method exactly once, inside the output.
func (srv *sessionService) Create(ctx context.Context, userID uuid.UUID, rememberMe bool) (*usecase.IssuedSession, error) {
	rawToken, err := srv.tokenService.Generate()
	if err != nil {
		srv.log(ctx).Error("Failed to generate session token", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate session token")
	}

	ttl := srv.sessionTTL
	if rememberMe {
		ttl = srv.rememberMeTTL
	}
	expiresAt := time.Now().Add(ttl)

	session := &entity.Session{
		UserID:    userID,
		TokenHash: srv.tokenService.Digest(rawToken),
		ExpiresAt: expiresAt,
	}

	if err := srv.sessionRepo.Create(ctx, session); err != nil {
		srv.log(ctx).Error("Failed to persist session", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist session")
	}

	srv.log(ctx).Debug("Session created", slog.Any("userID", userID), slog.Bool("rememberMe", rememberMe), slog.Time("expiresAt", expiresAt))

	return &usecase.IssuedSession{RawToken: rawToken, ExpiresAt: expiresAt}, nil
}

// Validate resolves a raw bearer token to its live session. An expired
// session is indistinguishable from a missing one.
func (srv *sessionService) Validate(ctx context.Context, rawToken string) (*entity.Session, error) {
	if rawToken == "" {
		return nil, repository.ErrSessionNotFound
	}

	session, err := srv.sessionRepo.FindActiveByTokenHash(ctx, srv.tokenService.Digest(rawToken), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to look up session", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to look up session")
	}

	return session, nil
}

// Revoke deletes the session behind the raw token. A token that resolves to
// nothing is already revoked, so that outcome is swallowed.
func (srv *sessionService) Revoke(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	err := srv.sessionRepo.DeleteByTokenHash(ctx, srv.tokenService.Digest(rawToken))
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		srv.log(ctx).Error("Failed to revoke session", slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke session")
	}

	srv.log(ctx).Debug("Session revoked")

	return nil
}

// RevokeAllForUser deletes every session owned by the user.
func (srv *sessionService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if err := srv.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to revoke sessions for user", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke sessions for user")
	}

	return nil
}
