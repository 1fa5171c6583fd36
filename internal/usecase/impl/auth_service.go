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
	"classrank/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// registeredMessage is returned for every successful registration. It never
// varies with account state.
const registeredMessage = "account created, check your inbox to verify your email"

// authService implements the AuthUsecase interface. It orchestrates the
// credential store, the session and verification services, and the mailer.
type authService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	reviewRepo        repository.ReviewRepository
	hasher            service.PasswordHasher
	mailer            service.Mailer
	sessionUC         usecase.SessionUsecase
	verificationUC    usecase.VerificationUsecase
	minPasswordLength int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	ReviewRepo     repository.ReviewRepository
	Hasher         service.PasswordHasher
	Mailer         service.Mailer
	SessionUC      usecase.SessionUsecase
	VerificationUC usecase.VerificationUsecase
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	minPasswordLength := config.DefaultMinPasswordLength
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MinPasswordLength > 0 {
		minPasswordLength = params.Config.Auth.MinPasswordLength
	}

	return &authService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		reviewRepo:        params.ReviewRepo,
		hasher:            params.Hasher,
		mailer:            params.Mailer,
		sessionUC:         params.SessionUC,
		verificationUC:    params.VerificationUC,
		minPasswordLength: minPasswordLength,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account and dispatches a verification email.
//
// The existence check and the insert run in one transaction, but a concurrent
// registration of the same address can still slip between them. The unique
// constraint on the email column is the safety net: the loser's insert fails
// and surfaces as the same conflict error the check would have produced.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := util.NormalizeEmail(input.Email)

	if len(input.Password) < srv.minPasswordLength {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet the minimum length")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	var newUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return errors.Wrap(domainerrors.ErrEmailTaken, "email already registered")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check for existing account")
		}

		newUser = &entity.User{
			Email:        email,
			Name:         input.Name,
			PasswordHash: hashedPassword,
		}

		// Create translates a unique-constraint violation into the same
		// conflict error, covering the window after the check above.
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	srv.dispatchVerification(ctx, newUser)

	return &usecase.RegisterOutput{Message: registeredMessage}, nil
}

// dispatchVerification issues a verification token and emails it. Failures
// are logged, not returned: the account exists either way and the user can
// always ask for a resend.
func (srv *authService) dispatchVerification(ctx context.Context, user *entity.User) {
	rawToken, err := srv.verificationUC.Issue(ctx, user.ID, entity.TokenPurposeEmail)
	if err != nil {
		srv.log(ctx).Error("Failed to issue verification token", slog.Any("userID", user.ID), slog.Any("error", err))

		return
	}

	if err := srv.mailer.SendVerificationEmail(ctx, user.Email, rawToken); err != nil {
		srv.log(ctx).Error("Failed to send verification email", slog.Any("userID", user.ID), slog.Any("error", err))
	}
}

// Login verifies credentials and issues a session. An unknown address and a
// wrong password produce the same error, so responses never reveal whether
// an account exists.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := util.NormalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login attempt for unknown email")

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "invalid credentials")
		}
		srv.log(ctx).Error("Failed to load account for login", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load account for login")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login attempt with wrong password", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "invalid credentials")
	}

	session, err := srv.sessionUC.Create(ctx, user.ID, input.RememberMe)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session during login")
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{User: user, Session: session}, nil
}

// Logout revokes the session behind the raw bearer token. A token that no
// longer resolves is already logged out.
func (srv *authService) Logout(ctx context.Context, rawToken string) error {
	if err := srv.sessionUC.Revoke(ctx, rawToken); err != nil {
		return errors.Wrap(err, "failed to revoke session during logout")
	}

	return nil
}

// ResendVerification issues a fresh verification token for the resolved
// account. Unknown addresses and already-verified accounts are silently
// acknowledged so the operation cannot be used to probe for accounts.
func (srv *authService) ResendVerification(ctx context.Context, rawSessionToken string, input *usecase.ResendVerificationInput) error {
	user, err := srv.resolveResendTarget(ctx, rawSessionToken, input)
	if err != nil {
		return err
	}
	if user == nil || user.IsVerified() {
		srv.log(ctx).Debug("Resend request resolved to no pending account")

		return nil
	}

	// Unlike registration, the user explicitly asked for this mail, so
	// issuance and delivery failures surface instead of being swallowed.
	rawToken, err := srv.verificationUC.Issue(ctx, user.ID, entity.TokenPurposeEmail)
	if err != nil {
		return errors.Wrap(err, "failed to issue verification token for resend")
	}

	if err := srv.mailer.SendVerificationEmail(ctx, user.Email, rawToken); err != nil {
		srv.log(ctx).Error("Failed to send verification email", slog.Any("userID", user.ID), slog.Any("error", err))

		return err
	}

	return nil
}

// resolveResendTarget prefers the authenticated session's account over the
// supplied email. A nil user with nil error means nothing to do.
func (srv *authService) resolveResendTarget(ctx context.Context, rawSessionToken string, input *usecase.ResendVerificationInput) (*entity.User, error) {
	if rawSessionToken != "" {
		session, err := srv.sessionUC.Validate(ctx, rawSessionToken)
		if err == nil {
			user, err := srv.userRepo.FindByID(ctx, session.UserID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return nil, nil
				}

				return nil, errors.Wrap(err, "failed to load account for resend")
			}

			return user, nil
		}
		if !errors.Is(err, repository.ErrSessionNotFound) {
			return nil, errors.Wrap(err, "failed to validate session for resend")
		}
	}

	if input == nil || input.Email == "" {
		return nil, nil
	}

	user, err := srv.userRepo.FindByEmail(ctx, util.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to load account for resend")
	}

	return user, nil
}

// VerifyEmail redeems a verification token exactly once and marks the
// account verified. Re-verifying an already verified account is a no-op at
// the persistence layer, so the first verification timestamp survives.
func (srv *authService) VerifyEmail(ctx context.Context, rawToken string) error {
	token, err := srv.verificationUC.Redeem(ctx, rawToken, entity.TokenPurposeEmail)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationTokenNotFound) {
			return errors.Wrap(domainerrors.ErrTokenNotFound, "verification token not found")
		}

		return err
	}

	if err := srv.userRepo.MarkEmailVerified(ctx, token.UserID, time.Now()); err != nil {
		srv.log(ctx).Error("Failed to mark email verified", slog.Any("userID", token.UserID), slog.Any("error", err))

		return errors.Wrap(err, "failed to mark email verified")
	}

	// Sibling tokens from earlier resends are now pointless; sweep them.
	if err := srv.verificationUC.ClearForUser(ctx, token.UserID, entity.TokenPurposeEmail); err != nil {
		srv.log(ctx).Warn("Failed to clear sibling verification tokens", slog.Any("userID", token.UserID), slog.Any("error", err))
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", token.UserID))

	return nil
}

// CurrentSession resolves the bearer token to a profile summary. Any token
// that does not resolve to a live session yields the anonymous summary.
func (srv *authService) CurrentSession(ctx context.Context, rawToken string) (*usecase.SessionSummary, error) {
	session, err := srv.sessionUC.Validate(ctx, rawToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return &usecase.SessionSummary{}, nil
		}

		return nil, errors.Wrap(err, "failed to validate session")
	}

	user, err := srv.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Session outlived its account; treat the caller as anonymous.
			return &usecase.SessionSummary{}, nil
		}

		return nil, errors.Wrap(err, "failed to load account for session")
	}

	reviewCount, err := srv.reviewRepo.CountByAuthor(ctx, user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to count reviews for session summary", slog.Any("userID", user.ID), slog.Any("error", err))
		reviewCount = 0
	}

	return &usecase.SessionSummary{User: user, ReviewCount: reviewCount}, nil
}
