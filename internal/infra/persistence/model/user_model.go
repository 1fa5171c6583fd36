package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// The email column stores the normalized form and carries the uniqueness
// constraint that backs the registration race safety net.
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email           string    `gorm:"type:varchar(255);unique;not null"`
	Name            string    `gorm:"type:varchar(100)"`
	School          string    `gorm:"type:varchar(255)"`
	GraduationYear  int
	PasswordHash    string         `gorm:"type:varchar(255);not null"`
	EmailVerifiedAt *time.Time     `gorm:"index"`
	Preferences     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Sessions           []SessionModel           `gorm:"foreignKey:UserID"`
	VerificationTokens []VerificationTokenModel `gorm:"foreignKey:UserID"`
	Reviews            []ReviewModel            `gorm:"foreignKey:AuthorID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
