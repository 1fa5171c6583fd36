package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "classrank/internal/delivery/context"
	"classrank/internal/domain/repository"
	"classrank/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maintenanceService implements the MaintenanceUsecase interface.
type maintenanceService struct {
	sessionRepo repository.SessionRepository
	tokenRepo   repository.VerificationTokenRepository
	logger      *slog.Logger
}

// MaintenanceServiceParams holds dependencies for maintenanceService, injected by Fx.
type MaintenanceServiceParams struct {
	fx.In

	SessionRepo repository.SessionRepository
	TokenRepo   repository.VerificationTokenRepository
	Logger      *slog.Logger
}

// NewMaintenanceService is the constructor for maintenanceService.
func NewMaintenanceService(params MaintenanceServiceParams) usecase.MaintenanceUsecase {
	return &maintenanceService{
		sessionRepo: params.SessionRepo,
		tokenRepo:   params.TokenRepo,
		logger:      params.Logger,
	}
}

func (srv *maintenanceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PruneExpired removes sessions and verification tokens whose expiry has
// passed. Lookups already ignore expired rows, so a partial failure here
// never changes observable behavior.
func (srv *maintenanceService) PruneExpired(ctx context.Context) (*usecase.PruneReport, error) {
	now := time.Now()
	report := &usecase.PruneReport{}

	sessions, err := srv.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prune expired sessions")
	}
	report.Sessions = sessions

	tokens, err := srv.tokenRepo.DeleteExpired(ctx, now)
	if err != nil {
		return report, errors.Wrap(err, "failed to prune expired verification tokens")
	}
	report.VerificationTokens = tokens

	if report.Sessions > 0 || report.VerificationTokens > 0 {
		srv.log(ctx).Info("Pruned expired credential state",
			slog.Int64("sessions", report.Sessions),
			slog.Int64("verificationTokens", report.VerificationTokens))
	}

	return report, nil
}
