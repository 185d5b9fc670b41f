package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// Credential is the login record. Status is mirrored with the linked
// User row; the two must never diverge outside a transaction.
type Credential struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string              `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string              `gorm:"column:password_hash;not null"`
	Role         enums.MemberRole    `gorm:"column:role;type:member_role;not null"`
	Status       enums.AccountStatus `gorm:"column:status;type:account_status;not null;default:'pending'"`
	Version      int64               `gorm:"column:version;not null;default:1"`
	LastLoginAt  *time.Time          `gorm:"column:last_login_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
