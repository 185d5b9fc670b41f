package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// Order represents one purchase attempt. Payment fields are mutated only
// by settlement; the shipment status only by the fulfillment flow.
type Order struct {
	ID                     uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID                uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID               uuid.UUID            `gorm:"column:seller_id;type:uuid;not null"`
	ProductID              uuid.UUID            `gorm:"column:product_id;type:uuid;not null"`
	Quantity               int                  `gorm:"column:quantity;not null"`
	UnitAmountCents        int                  `gorm:"column:unit_amount_cents;not null"`
	TotalCents             int                  `gorm:"column:total_cents;not null"`
	Currency               string               `gorm:"column:currency;type:text;not null;default:'INR'"`
	GatewayIntentRef       string               `gorm:"column:gateway_intent_ref;not null"`
	GatewayConfirmationRef *string              `gorm:"column:gateway_confirmation_ref"`
	GatewaySignature       *string              `gorm:"column:gateway_signature"`
	PaymentStatus          enums.PaymentStatus  `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	ShipmentStatus         enums.ShipmentStatus `gorm:"column:shipment_status;type:shipment_status;not null;default:'ordered'"`
	RefundStatus           enums.RefundStatus   `gorm:"column:refund_status;type:refund_status;not null;default:'none'"`
	ShippingAddress        string               `gorm:"column:shipping_address;type:text;not null"`
	SettledAt              *time.Time           `gorm:"column:settled_at"`
	DeliveredAt            *time.Time           `gorm:"column:delivered_at"`
	CanceledAt             *time.Time           `gorm:"column:canceled_at"`
	CreatedAt              time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
