package postgres

import (
	"context"

	"classrank/internal/domain/repository"
	"classrank/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the slice of review persistence the auth
// subsystem consumes.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// CountByAuthor returns how many reviews the user has written.
func (repo *reviewRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("author_id = ?", authorID).
		Count(&count).Error

	if err != nil {
		return 0, errors.Wrap(err, "failed to count reviews by author")
	}

	return int(count), nil
}
