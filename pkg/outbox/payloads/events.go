package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// OrderCreatedEvent signals a new purchase attempt with a pending intent.
type OrderCreatedEvent struct {
	OrderID    uuid.UUID `json:"orderId"`
	BuyerID    uuid.UUID `json:"buyerId"`
	SellerID   uuid.UUID `json:"sellerId"`
	ProductID  uuid.UUID `json:"productId"`
	Quantity   int       `json:"quantity"`
	TotalCents int       `json:"totalCents"`
	IntentRef  string    `json:"intentRef"`
}

// PaymentSettledEvent is emitted once per order when settlement commits.
type PaymentSettledEvent struct {
	OrderID         uuid.UUID `json:"orderId"`
	BuyerID         uuid.UUID `json:"buyerId"`
	SellerID        uuid.UUID `json:"sellerId"`
	ProductID       uuid.UUID `json:"productId"`
	Quantity        int       `json:"quantity"`
	TotalCents      int       `json:"totalCents"`
	ConfirmationRef string    `json:"confirmationRef"`
	SettledAt       time.Time `json:"settledAt"`
}

// PaymentFlaggedEvent marks a settled payment that needs a manual refund.
type PaymentFlaggedEvent struct {
	OrderID    uuid.UUID `json:"orderId"`
	BuyerID    uuid.UUID `json:"buyerId"`
	SellerID   uuid.UUID `json:"sellerId"`
	ProductID  uuid.UUID `json:"productId"`
	Quantity   int       `json:"quantity"`
	TotalCents int       `json:"totalCents"`
	Reason     string    `json:"reason"`
	FlaggedAt  time.Time `json:"flaggedAt"`
}

// ShipmentUpdatedEvent records a fulfillment transition.
type ShipmentUpdatedEvent struct {
	OrderID   uuid.UUID            `json:"orderId"`
	BuyerID   uuid.UUID            `json:"buyerId"`
	SellerID  uuid.UUID            `json:"sellerId"`
	From      enums.ShipmentStatus `json:"from"`
	To        enums.ShipmentStatus `json:"to"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// OrderCanceledEvent is emitted whenever an order is cancelled.
type OrderCanceledEvent struct {
	OrderID    uuid.UUID        `json:"orderId"`
	BuyerID    uuid.UUID        `json:"buyerId"`
	SellerID   uuid.UUID        `json:"sellerId"`
	CanceledBy enums.MemberRole `json:"canceledBy"`
	CanceledAt time.Time        `json:"canceledAt"`
	Restocked  bool             `json:"restocked"`
}

// AccountStatusChangedEvent mirrors a credential/profile status change.
type AccountStatusChangedEvent struct {
	UserID       uuid.UUID           `json:"userId"`
	CredentialID uuid.UUID           `json:"credentialId"`
	Status       enums.AccountStatus `json:"status"`
	ChangedBy    uuid.UUID           `json:"changedBy"`
	ChangedAt    time.Time           `json:"changedAt"`
}
