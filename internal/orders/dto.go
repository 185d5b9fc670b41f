package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// CreateOrderInput captures a buyer's purchase request.
type CreateOrderInput struct {
	BuyerID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	ShippingAddress string
}

// CreateOrderResult returns the identifiers the buyer needs to complete
// payment at the gateway.
type CreateOrderResult struct {
	OrderID     uuid.UUID `json:"orderId"`
	IntentRef   string    `json:"intentRef"`
	AmountCents int       `json:"amountCents"`
	Currency    string    `json:"currency"`
}

// SettleInput carries the gateway callback fields for settlement.
type SettleInput struct {
	OrderID         uuid.UUID
	ConfirmationRef string
	Signature       string
	ActorID         uuid.UUID
}

// SettleResult reports the settlement outcome. AlreadySettled marks the
// idempotent replay path.
type SettleResult struct {
	OrderID        uuid.UUID `json:"orderId"`
	AlreadySettled bool      `json:"alreadySettled"`
}

// AdvanceShipmentInput moves an order one step along the fulfillment chain.
type AdvanceShipmentInput struct {
	OrderID   uuid.UUID
	Target    enums.ShipmentStatus
	ActorID   uuid.UUID
	ActorRole enums.MemberRole
}

// CancelOrderInput cancels an order on behalf of the buyer or the seller.
type CancelOrderInput struct {
	OrderID   uuid.UUID
	ActorID   uuid.UUID
	ActorRole enums.MemberRole
}

// OrderFilters describe the optional list filters.
type OrderFilters struct {
	PaymentStatus  *enums.PaymentStatus
	ShipmentStatus *enums.ShipmentStatus
}

// OrderSummary is the list row returned to buyers and sellers.
type OrderSummary struct {
	ID             uuid.UUID            `json:"id"`
	ProductID      uuid.UUID            `json:"productId"`
	Quantity       int                  `json:"quantity"`
	TotalCents     int                  `json:"totalCents"`
	Currency       string               `json:"currency"`
	PaymentStatus  enums.PaymentStatus  `json:"paymentStatus"`
	ShipmentStatus enums.ShipmentStatus `json:"shipmentStatus"`
	RefundStatus   enums.RefundStatus   `json:"refundStatus"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}
