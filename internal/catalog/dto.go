package catalog

import (
	"github.com/google/uuid"
)

// CreateProductInput captures a seller's new listing.
type CreateProductInput struct {
	SellerID    uuid.UUID
	SKU         string
	Title       string
	Description *string
	PriceCents  int
	InitialQty  int
}

// UpdateProductInput carries the optional fields a seller may change.
// Nil fields stay untouched.
type UpdateProductInput struct {
	SellerID    uuid.UUID
	ProductID   uuid.UUID
	Title       *string
	Description *string
	PriceCents  *int
	IsActive    *bool
}

// SetInventoryInput replaces the available quantity for a listing.
type SetInventoryInput struct {
	SellerID  uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// ItemView is the buyer-facing product read, including advisory stock.
type ItemView struct {
	ID           uuid.UUID `json:"id"`
	SellerID     uuid.UUID `json:"sellerId"`
	SKU          string    `json:"sku"`
	Title        string    `json:"title"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int       `json:"priceCents"`
	AvailableQty int       `json:"availableQty"`
}
