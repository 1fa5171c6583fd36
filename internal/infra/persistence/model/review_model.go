package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel mirrors the 'reviews' table. The auth subsystem only counts
// rows per author; the review feature owns the rest of the columns.
type ReviewModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	School      string    `gorm:"type:varchar(255);not null"`
	TeacherName string    `gorm:"type:varchar(255);not null"`
	Rating      int       `gorm:"not null"`
	Comment     string    `gorm:"type:text"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
