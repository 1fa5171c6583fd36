package impl

import (
	"context"
	"testing"
	"time"

	"classrank/config"
	"classrank/internal/domain/entity"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/domain/service"
	"classrank/internal/infra/auth"
	"classrank/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// authFixture wires the auth service against in-memory repositories.
type authFixture struct {
	userRepo    *fakeUserRepo
	sessionRepo *fakeSessionRepo
	tokenRepo   *fakeTokenRepo
	reviewRepo  *fakeReviewRepo
	mailer      *fakeMailer
	tokenSvc    service.TokenService

	auth     usecase.AuthUsecase
	sessions usecase.SessionUsecase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        bcrypt.MinCost,
			MinPasswordLength: 8,
			SessionTTL:        config.DefaultSessionTTL,
			RememberMeTTL:     config.DefaultRememberMeTTL,
			VerificationTTL:   config.DefaultVerificationTTL,
		},
	}

	logger := testLogger()
	tokenSvc := auth.NewTokenService()

	f := &authFixture{
		userRepo:    newFakeUserRepo(),
		sessionRepo: newFakeSessionRepo(),
		tokenRepo:   newFakeTokenRepo(),
		reviewRepo:  newFakeReviewRepo(),
		mailer:      &fakeMailer{},
		tokenSvc:    tokenSvc,
	}

	f.sessions = NewSessionService(SessionServiceParams{
		SessionRepo:  f.sessionRepo,
		TokenService: tokenSvc,
		Config:       cfg,
		Logger:       logger,
	})

	verification := NewVerificationService(VerificationServiceParams{
		TokenRepo:    f.tokenRepo,
		TokenService: tokenSvc,
		Config:       cfg,
		Logger:       logger,
	})

	f.auth = NewAuthService(AuthServiceParams{
		TxManager: &fakeTxManager{
			userRepo:    f.userRepo,
			sessionRepo: f.sessionRepo,
			tokenRepo:   f.tokenRepo,
		},
		UserRepo:       f.userRepo,
		ReviewRepo:     f.reviewRepo,
		Hasher:         auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Mailer:         f.mailer,
		SessionUC:      f.sessions,
		VerificationUC: verification,
		Config:         cfg,
		Logger:         logger,
	})

	return f
}

func (f *authFixture) register(t *testing.T, email, password string) {
	t.Helper()

	_, err := f.auth.Register(context.Background(), &usecase.RegisterInput{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
		Name:            "Test Student",
	})
	require.NoError(t, err)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("normalizes the email and stores only a hash", func(t *testing.T) {
		f := newAuthFixture(t)

		f.register(t, "  Student@Example.COM ", "correct horse battery")

		user, err := f.userRepo.FindByEmail(context.Background(), "student@example.com")
		require.NoError(t, err)
		assert.Equal(t, "student@example.com", user.Email)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotContains(t, user.PasswordHash, "correct horse")
		assert.Nil(t, user.EmailVerifiedAt)
	})

	t.Run("sends a verification email whose token resolves to the stored digest", func(t *testing.T) {
		f := newAuthFixture(t)

		f.register(t, "student@example.com", "correct horse battery")

		deliveries := f.mailer.deliveries()
		require.Len(t, deliveries, 1)
		assert.Equal(t, "student@example.com", deliveries[0].to)

		stored, err := f.tokenRepo.FindByTokenHash(context.Background(), f.tokenSvc.Digest(deliveries[0].rawToken))
		require.NoError(t, err)
		assert.Equal(t, entity.TokenPurposeEmail, stored.Purpose)
	})

	t.Run("rejects a duplicate email with a conflict", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		_, err := f.auth.Register(context.Background(), &usecase.RegisterInput{
			Email:           "STUDENT@example.com",
			Password:        "another password",
			ConfirmPassword: "another password",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
	})

	t.Run("surfaces the unique constraint as the same conflict when the pre-check races", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		// Simulate the losing side of the race: the pre-check misses but the
		// insert hits the constraint.
		f.userRepo.missNextFindByEmail = true

		_, err := f.auth.Register(context.Background(), &usecase.RegisterInput{
			Email:           "student@example.com",
			Password:        "another password",
			ConfirmPassword: "another password",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
	})

	t.Run("rejects passwords under the minimum length", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.auth.Register(context.Background(), &usecase.RegisterInput{
			Email:           "student@example.com",
			Password:        "short",
			ConfirmPassword: "short",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues a session for valid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		output, err := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email:    "Student@Example.com",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
		require.NotNil(t, output.Session)
		assert.NotEmpty(t, output.Session.RawToken)

		session, err := f.sessions.Validate(context.Background(), output.Session.RawToken)
		require.NoError(t, err)
		assert.Equal(t, output.User.ID, session.UserID)
	})

	t.Run("remember me extends the session lifetime", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		short, err := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "student@example.com", Password: "correct horse battery",
		})
		require.NoError(t, err)

		long, err := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "student@example.com", Password: "correct horse battery", RememberMe: true,
		})
		require.NoError(t, err)

		assert.True(t, long.Session.ExpiresAt.After(short.Session.ExpiresAt.Add(20*24*time.Hour)),
			"remember-me session should outlive the default by weeks")
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		_, unknownErr := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "nobody@example.com", Password: "correct horse battery",
		})
		_, wrongErr := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "student@example.com", Password: "wrong password",
		})

		require.Error(t, unknownErr)
		require.Error(t, wrongErr)
		assert.True(t, errors.Is(unknownErr, domainerrors.ErrInvalidCredentials))
		assert.True(t, errors.Is(wrongErr, domainerrors.ErrInvalidCredentials))
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "student@example.com", "correct horse battery")

	output, err := f.auth.Login(context.Background(), &usecase.LoginInput{
		Email: "student@example.com", Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(context.Background(), output.Session.RawToken))

	_, err = f.sessions.Validate(context.Background(), output.Session.RawToken)
	assert.Error(t, err)

	// Logging out again, or with garbage, still succeeds.
	assert.NoError(t, f.auth.Logout(context.Background(), output.Session.RawToken))
	assert.NoError(t, f.auth.Logout(context.Background(), "not-a-token"))
	assert.NoError(t, f.auth.Logout(context.Background(), ""))
}

func TestAuthService_ResendVerification(t *testing.T) {
	t.Run("unknown and verified targets get the same silent acknowledgement", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		require.NoError(t, f.auth.VerifyEmail(context.Background(), f.mailer.deliveries()[0].rawToken))
		sentBefore := len(f.mailer.deliveries())

		err := f.auth.ResendVerification(context.Background(), "", &usecase.ResendVerificationInput{Email: "nobody@example.com"})
		require.NoError(t, err)

		err = f.auth.ResendVerification(context.Background(), "", &usecase.ResendVerificationInput{Email: "student@example.com"})
		require.NoError(t, err)

		assert.Len(t, f.mailer.deliveries(), sentBefore, "no mail for unknown or verified accounts")
	})

	t.Run("replaces the pending token for an unverified account", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		firstToken := f.mailer.deliveries()[0].rawToken

		err := f.auth.ResendVerification(context.Background(), "", &usecase.ResendVerificationInput{Email: "student@example.com"})
		require.NoError(t, err)

		deliveries := f.mailer.deliveries()
		require.Len(t, deliveries, 2)
		assert.Equal(t, 1, f.tokenRepo.count(), "old token cleared before the new one")

		// The original link is dead after the resend.
		err = f.auth.VerifyEmail(context.Background(), firstToken)
		assert.True(t, errors.Is(err, domainerrors.ErrTokenNotFound))
	})

	t.Run("prefers the authenticated session over the payload email", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		f.register(t, "other@example.com", "correct horse battery")

		login, err := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "student@example.com", Password: "correct horse battery",
		})
		require.NoError(t, err)
		sentBefore := len(f.mailer.deliveries())

		err = f.auth.ResendVerification(context.Background(), login.Session.RawToken,
			&usecase.ResendVerificationInput{Email: "other@example.com"})
		require.NoError(t, err)

		deliveries := f.mailer.deliveries()
		require.Len(t, deliveries, sentBefore+1)
		assert.Equal(t, "student@example.com", deliveries[len(deliveries)-1].to)
	})

	t.Run("propagates mail delivery failures", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		f.mailer.err = domainerrors.ErrMailDeliveryFailed

		err := f.auth.ResendVerification(context.Background(), "", &usecase.ResendVerificationInput{Email: "student@example.com"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrMailDeliveryFailed))
	})
}

func TestAuthService_VerifyEmail(t *testing.T) {
	t.Run("marks the account verified and consumes the token", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		rawToken := f.mailer.deliveries()[0].rawToken

		require.NoError(t, f.auth.VerifyEmail(context.Background(), rawToken))

		user, err := f.userRepo.FindByEmail(context.Background(), "student@example.com")
		require.NoError(t, err)
		assert.True(t, user.IsVerified())
		assert.Equal(t, 0, f.tokenRepo.count())
	})

	t.Run("a second redemption of the same token fails", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		rawToken := f.mailer.deliveries()[0].rawToken

		require.NoError(t, f.auth.VerifyEmail(context.Background(), rawToken))

		err := f.auth.VerifyEmail(context.Background(), rawToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrTokenNotFound))
	})

	t.Run("an expired token is rejected and leaves the account unverified", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		rawToken := f.mailer.deliveries()[0].rawToken

		digest := f.tokenSvc.Digest(rawToken)
		f.tokenRepo.mu.Lock()
		f.tokenRepo.tokens[digest].ExpiresAt = time.Now().Add(-time.Minute)
		f.tokenRepo.mu.Unlock()

		err := f.auth.VerifyEmail(context.Background(), rawToken)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))

		user, err := f.userRepo.FindByEmail(context.Background(), "student@example.com")
		require.NoError(t, err)
		assert.False(t, user.IsVerified())
	})

	t.Run("keeps the first verification timestamp", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")
		require.NoError(t, f.auth.VerifyEmail(context.Background(), f.mailer.deliveries()[0].rawToken))

		user, err := f.userRepo.FindByEmail(context.Background(), "student@example.com")
		require.NoError(t, err)
		firstVerifiedAt := *user.EmailVerifiedAt

		require.NoError(t, f.userRepo.MarkEmailVerified(context.Background(), user.ID, time.Now().Add(time.Hour)))

		user, err = f.userRepo.FindByEmail(context.Background(), "student@example.com")
		require.NoError(t, err)
		assert.Equal(t, firstVerifiedAt, *user.EmailVerifiedAt)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.auth.VerifyEmail(context.Background(), "completely-made-up")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerrors.ErrTokenNotFound))
	})
}

func TestAuthService_CurrentSession(t *testing.T) {
	t.Run("anonymous without a token", func(t *testing.T) {
		f := newAuthFixture(t)

		summary, err := f.auth.CurrentSession(context.Background(), "")
		require.NoError(t, err)
		assert.Nil(t, summary.User)
		assert.Zero(t, summary.ReviewCount)
	})

	t.Run("anonymous with a bogus token", func(t *testing.T) {
		f := newAuthFixture(t)

		summary, err := f.auth.CurrentSession(context.Background(), "bogus")
		require.NoError(t, err)
		assert.Nil(t, summary.User)
	})

	t.Run("returns the profile and review count for a live session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		login, err := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "student@example.com", Password: "correct horse battery",
		})
		require.NoError(t, err)
		f.reviewRepo.counts[login.User.ID] = 4

		summary, err := f.auth.CurrentSession(context.Background(), login.Session.RawToken)
		require.NoError(t, err)
		require.NotNil(t, summary.User)
		assert.Equal(t, "student@example.com", summary.User.Email)
		assert.Equal(t, 4, summary.ReviewCount)
	})

	t.Run("anonymous again after logout", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "student@example.com", "correct horse battery")

		login, err := f.auth.Login(context.Background(), &usecase.LoginInput{
			Email: "student@example.com", Password: "correct horse battery",
		})
		require.NoError(t, err)
		require.NoError(t, f.auth.Logout(context.Background(), login.Session.RawToken))

		summary, err := f.auth.CurrentSession(context.Background(), login.Session.RawToken)
		require.NoError(t, err)
		assert.Nil(t, summary.User)
	})
}
