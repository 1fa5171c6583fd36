package impl

import (
	"context"
	"log/slog"
	"time"

	"classrank/config"
	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/domain/entity"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/domain/repository"
	"classrank/internal/domain/service"
	"classrank/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// verificationService implements the VerificationUsecase interface.
type verificationService struct {
	tokenRepo       repository.VerificationTokenRepository
	tokenService    service.TokenService
	verificationTTL time.Duration
	logger          *slog.Logger
}

// VerificationServiceParams holds dependencies for verificationService, injected by Fx.
type VerificationServiceParams struct {
	fx.In

	TokenRepo    repository.VerificationTokenRepository
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewVerificationService is the constructor for verificationService.
func NewVerificationService(params VerificationServiceParams) usecase.VerificationUsecase {
	verificationTTL := config.DefaultVerificationTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.VerificationTTL > 0 {
		verificationTTL = params.Config.Auth.VerificationTTL
	}

	return &verificationService{
		tokenRepo:       params.TokenRepo,
		tokenService:    params.TokenService,
		verificationTTL: verificationTTL,
		logger:          params.Logger,
	}
}

func (srv *verificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Issue clears the user's earlier tokens of the purpose and mints a new one.
// The clear and the insert are separate statements; a concurrent Issue for
// the same user may briefly leave two live tokens, which is harmless because
// each remains independently redeemable exactly once.
func (srv *verificationService) Issue(ctx context.Context, userID uuid.UUID, purpose string) (string, error) {
	if err := srv.tokenRepo.DeleteByUserAndPurpose(ctx, userID, purpose); err != nil {
		srv.log(ctx).Error("Failed to clear previous verification tokens", slog.Any("userID", userID), slog.String("purpose", purpose), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to clear previous verification tokens")
	}

	rawToken, err := srv.tokenService.Generate()
	if err != nil {
		srv.log(ctx).Error("Failed to generate verification token", slog.Any("userID", userID), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to generate verification token")
	}

	token := &entity.VerificationToken{
		UserID:    userID,
		TokenHash: srv.tokenService.Digest(rawToken),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(srv.verificationTTL),
	}

	if err := srv.tokenRepo.Create(ctx, token); err != nil {
		srv.log(ctx).Error("Failed to persist verification token", slog.Any("userID", userID), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to persist verification token")
	}

	srv.log(ctx).Debug("Verification token issued", slog.Any("userID", userID), slog.String("purpose", purpose))

	return rawToken, nil
}

// Redeem consumes a raw token exactly once. The conditional delete is the
// single-use gate: of two concurrent redemptions, exactly one observes a
// deleted row and wins; the other gets ErrVerificationTokenNotFound.
func (srv *verificationService) Redeem(ctx context.Context, rawToken string, purpose string) (*entity.VerificationToken, error) {
	if rawToken == "" {
		return nil, repository.ErrVerificationTokenNotFound
	}

	tokenHash := srv.tokenService.Digest(rawToken)

	token, err := srv.tokenRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationTokenNotFound) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to look up verification token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to look up verification token")
	}

	if token.Purpose != purpose {
		return nil, repository.ErrVerificationTokenNotFound
	}

	if token.Expired(time.Now()) {
		// An expired token is spent the moment someone presents it; later
		// replays of the same link report it as unknown.
		if err := srv.tokenRepo.DeleteByTokenHash(ctx, tokenHash); err != nil && !errors.Is(err, repository.ErrVerificationTokenNotFound) {
			srv.log(ctx).Error("Failed to discard expired verification token", slog.Any("error", err))
		}
		srv.log(ctx).Debug("Verification token expired", slog.Any("userID", token.UserID))

		return nil, errors.Wrap(domainerrors.ErrTokenExpired, "verification token expired")
	}

	if err := srv.tokenRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrVerificationTokenNotFound) {
			// Lost the race against a concurrent redemption of the same token.
			return nil, err
		}
		srv.log(ctx).Error("Failed to consume verification token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to consume verification token")
	}

	srv.log(ctx).Debug("Verification token redeemed", slog.Any("userID", token.UserID), slog.String("purpose", token.Purpose))

	return token, nil
}

// ClearForUser removes all of the user's tokens for the purpose.
func (srv *verificationService) ClearForUser(ctx context.Context, userID uuid.UUID, purpose string) error {
	if err := srv.tokenRepo.DeleteByUserAndPurpose(ctx, userID, purpose); err != nil {
		return errors.Wrap(err, "failed to clear verification tokens")
	}

	return nil
}
