package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"classrank/internal/domain/entity"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/domain/repository"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository keyed by ID and email.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*entity.User
	byEmail map[string]*entity.User

	createErr error
	findErr   error

	// missNextFindByEmail makes the next FindByEmail report not-found even
	// when the row exists, to rehearse the registration pre-check race.
	missNextFindByEmail bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*entity.User),
		byEmail: make(map[string]*entity.User),
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.missNextFindByEmail {
		r.missNextFindByEmail = false

		return nil, repository.ErrUserNotFound
	}
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.byEmail[user.Email]; exists {
		// Mirrors the unique constraint on the email column.
		return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	delete(r.byEmail, stored.Email)
	user.UpdatedAt = time.Now()
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone

	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if stored.EmailVerifiedAt == nil {
		at := verifiedAt
		stored.EmailVerifiedAt = &at
	}

	return nil
}

// fakeSessionRepo is an in-memory SessionRepository keyed by token hash.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session

	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	clone := *session
	r.sessions[session.TokenHash] = &clone

	return nil
}

func (r *fakeSessionRepo) FindActiveByTokenHash(_ context.Context, tokenHash string, now time.Time) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[tokenHash]
	if !ok || !session.ExpiresAt.After(now) {
		return nil, repository.ErrSessionNotFound
	}
	clone := *session

	return &clone, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[tokenHash]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.sessions, tokenHash)

	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, hash)
		}
	}

	return nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for hash, session := range r.sessions {
		if !session.ExpiresAt.After(now) {
			delete(r.sessions, hash)
			removed++
		}
	}

	return removed, nil
}

// fakeTokenRepo is an in-memory VerificationTokenRepository.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.VerificationToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*entity.VerificationToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *entity.VerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.TokenHash] = &clone

	return nil
}

func (r *fakeTokenRepo) FindByTokenHash(_ context.Context, tokenHash string) (*entity.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrVerificationTokenNotFound
	}
	clone := *token

	return &clone, nil
}

func (r *fakeTokenRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[tokenHash]; !ok {
		return repository.ErrVerificationTokenNotFound
	}
	delete(r.tokens, tokenHash)

	return nil
}

func (r *fakeTokenRepo) DeleteByUserAndPurpose(_ context.Context, userID uuid.UUID, purpose string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, token := range r.tokens {
		if token.UserID == userID && token.Purpose == purpose {
			delete(r.tokens, hash)
		}
	}

	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for hash, token := range r.tokens {
		if !token.ExpiresAt.After(now) {
			delete(r.tokens, hash)
			removed++
		}
	}

	return removed, nil
}

func (r *fakeTokenRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tokens)
}

// fakeReviewRepo serves fixed review counts.
type fakeReviewRepo struct {
	counts map[uuid.UUID]int
	err    error
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{counts: make(map[uuid.UUID]int)}
}

func (r *fakeReviewRepo) CountByAuthor(_ context.Context, authorID uuid.UUID) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	return r.counts[authorID], nil
}

// fakeTxManager hands the per-test repositories to the transactional
// function without any real transaction semantics.
type fakeTxManager struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tokenRepo   repository.VerificationTokenRepository
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *fakeTxManager) UserRepo() repository.UserRepository { return m.userRepo }

func (m *fakeTxManager) SessionRepo() repository.SessionRepository { return m.sessionRepo }

func (m *fakeTxManager) TokenRepo() repository.VerificationTokenRepository { return m.tokenRepo }

// fakeMailer records deliveries and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

type sentMail struct {
	to       string
	rawToken string
}

func (m *fakeMailer) SendVerificationEmail(_ context.Context, toAddress, rawToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: toAddress, rawToken: rawToken})

	return nil
}

func (m *fakeMailer) deliveries() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sentMail(nil), m.sent...)
}
