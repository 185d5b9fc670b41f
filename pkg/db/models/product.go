package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a seller listing. The price captured on an Order at
// creation time is authoritative for that order even if this row changes.
type Product struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID      `gorm:"column:seller_id;type:uuid;not null"`
	SKU         string         `gorm:"column:sku;not null"`
	Title       string         `gorm:"column:title;not null"`
	Description *string        `gorm:"column:description"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	Inventory   *InventoryItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
