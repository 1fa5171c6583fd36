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

// verificationTokenRepository implements the repository.VerificationTokenRepository interface.
type verificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository is the constructor for verificationTokenRepository.
func NewVerificationTokenRepository(db *gorm.DB) repository.VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

// Create persists a newly issued verification token.
func (repo *verificationTokenRepository) Create(ctx context.Context, token *entity.VerificationToken) error {
	tokenM := fromVerificationTokenDomain(token)

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference for verification token")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create verification token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByTokenHash retrieves a token by its digest regardless of expiry.
func (repo *verificationTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.VerificationToken, error) {
	var tokenM model.VerificationTokenModel
	err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&tokenM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrVerificationTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification token by hash")
	}

	return toVerificationTokenDomain(&tokenM), nil
}

// DeleteByTokenHash atomically removes the token matching the digest. The
// single DELETE ... WHERE token_hash = ? statement is what serializes
// concurrent redemptions: exactly one caller observes a deleted row, every
// other caller gets ErrVerificationTokenNotFound.
func (repo *verificationTokenRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	result := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Delete(&model.VerificationTokenModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete verification token by hash")
	}

	if result.RowsAffected == 0 {
		return repository.ErrVerificationTokenNotFound
	}

	return nil
}

// DeleteByUserAndPurpose removes every token of the purpose for the user.
func (repo *verificationTokenRepository) DeleteByUserAndPurpose(ctx context.Context, userID uuid.UUID, purpose string) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		Delete(&model.VerificationTokenModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete verification tokens for user")
	}

	return nil
}

// DeleteExpired prunes rows whose expiry has passed.
func (repo *verificationTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.VerificationTokenModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired verification tokens")
	}

	return result.RowsAffected, nil
}

// --- Mapper Functions ---

// toVerificationTokenDomain converts a GORM model to a domain entity.
func toVerificationTokenDomain(data *model.VerificationTokenModel) *entity.VerificationToken {
	if data == nil {
		return nil
	}

	return &entity.VerificationToken{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		Purpose:   data.Purpose,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromVerificationTokenDomain converts a domain entity to a GORM model.
func fromVerificationTokenDomain(data *entity.VerificationToken) *model.VerificationTokenModel {
	if data == nil {
		return nil
	}

	return &model.VerificationTokenModel{
		ID:        data.ID,
		UserID:    data.UserID,
		TokenHash: data.TokenHash,
		Purpose:   data.Purpose,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
