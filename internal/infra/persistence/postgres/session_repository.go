package postgres

import (
	"context"
	"time"

	"classrank/internal/domain/entity"
	domainerrors "classrank/internal/domain/errors"
	"classrank/internal/domain/repository"
	"classrank/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// sessionRepository implements the repository.SessionRepository interface.
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository is the constructor for sessionRepository.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Create persists a new session, representing a logged-in client.
func (repo *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	sessionM := fromSessionDomain(session)

	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUnauthorized.WrapMessage("invalid user reference for session")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create session")
	}

	session.ID = sessionM.ID
	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// FindActiveByTokenHash retrieves the session whose digest matches and whose
// expiry is strictly in the future. An expired row is reported as absent;
// pruning it is left to DeleteExpired since an expired session is inert.
func (repo *sessionRepository) FindActiveByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*entity.Session, error) {
	var sessionM model.SessionModel
	err := repo.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, now).
		First(&sessionM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find session by token hash")
	}

	return toSessionDomain(&sessionM), nil
}

// DeleteByTokenHash deletes the session matching the digest.
func (repo *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	result := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&model.SessionModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete session by token hash")
	}

	if result.RowsAffected == 0 {
		return repository.ErrSessionNotFound
	}

	return nil
}

// DeleteByUserID removes every session for a user.
func (repo *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.SessionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete sessions by user id")
	}

	return nil
}

// DeleteExpired prunes rows whose expiry has passed.
func (repo *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.SessionModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired sessions")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toSessionDomain converts a GORM SessionModel to a domain Session entity.
func toSessionDomain(data *model.SessionModel) *entity.Session {
	if data == nil {
		return nil
	}

	return &entity.Session{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromSessionDomain converts a domain Session entity to a GORM SessionModel.
func fromSessionDomain(data *entity.Session) *model.SessionModel {
	if data == nil {
		return nil
	}

	return &model.SessionModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
