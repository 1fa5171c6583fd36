package model

import (
	"time"

	"github.com/google/uuid"
)

// VerificationTokenModel mirrors the 'verification_tokens' table. Rows are
// deleted on redemption, expiry cleanup, or resend supersession.
type VerificationTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_verification_user_purpose"`
	TokenHash string    `gorm:"type:varchar(64);unique;not null"`
	Purpose   string    `gorm:"type:varchar(32);not null;index:idx_verification_user_purpose"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}
