package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// User is the profile record linked 1:1 to a Credential.
type User struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CredentialID uuid.UUID           `gorm:"column:credential_id;type:uuid;not null;uniqueIndex"`
	FirstName    string              `gorm:"column:first_name;not null"`
	LastName     string              `gorm:"column:last_name;not null"`
	Phone        *string             `gorm:"column:phone"`
	Role         enums.MemberRole    `gorm:"column:role;type:member_role;not null"`
	Status       enums.AccountStatus `gorm:"column:status;type:account_status;not null;default:'pending'"`
	Version      int64               `gorm:"column:version;not null;default:1"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
