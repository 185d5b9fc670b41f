package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox/payloads"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
	"github.com/shopcart-app/shopcart-backend/pkg/razorpay"
)

const orderCurrency = "INR"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type catalogReader interface {
	GetItem(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

// InventoryLedger covers the stock operations the purchase flow needs.
type InventoryLedger interface {
	Available(ctx context.Context, productID uuid.UUID) (int, error)
	DecrementWithFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
	Increment(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// PaymentGateway is the slice of the gateway adapter the order flow uses.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifySignature(intentRef, confirmationRef, signature string) bool
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Settle(ctx context.Context, input SettleInput) (*SettleResult, error)
	AdvanceShipment(ctx context.Context, input AdvanceShipmentInput) error
	CancelOrder(ctx context.Context, input CancelOrderInput) error
	GetOrder(ctx context.Context, orderID, actorID uuid.UUID, role enums.MemberRole) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
}

// ServiceParams lists the collaborators the order service needs.
type ServiceParams struct {
	Repo            Repository
	Tx              txRunner
	Outbox          outboxPublisher
	Catalog         catalogReader
	Inventory       InventoryLedger
	Gateway         PaymentGateway
	RestockOnCancel bool
}

type service struct {
	repo            Repository
	tx              txRunner
	outbox          outboxPublisher
	catalog         catalogReader
	inventory       InventoryLedger
	gateway         PaymentGateway
	restockOnCancel bool
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &service{
		repo:            params.Repo,
		tx:              params.Tx,
		outbox:          params.Outbox,
		catalog:         params.Catalog,
		inventory:       params.Inventory,
		gateway:         params.Gateway,
		restockOnCancel: params.RestockOnCancel,
	}, nil
}

// Create opens a payment intent and persists the order. The gateway call
// happens before the insert transaction, so a failed intent never leaves
// an orphan order row behind.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}

	product, err := s.catalog.GetItem(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	// Advisory only: the authoritative guard runs at settlement.
	available, err := s.inventory.Available(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if available < input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}

	total := product.PriceCents * input.Quantity
	orderID := uuid.New()

	intent, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		AmountCents: total,
		Currency:    orderCurrency,
		Receipt:     orderID.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	order := &models.Order{
		ID:               orderID,
		BuyerID:          input.BuyerID,
		SellerID:         product.SellerID,
		ProductID:        product.ID,
		Quantity:         input.Quantity,
		UnitAmountCents:  product.PriceCents,
		TotalCents:       total,
		Currency:         orderCurrency,
		GatewayIntentRef: intent.ID,
		PaymentStatus:    enums.PaymentStatusPending,
		ShipmentStatus:   enums.ShipmentStatusOrdered,
		RefundStatus:     enums.RefundStatusNone,
		ShippingAddress:  strings.TrimSpace(input.ShippingAddress),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.BuyerID, enums.MemberRoleBuyer),
			Data: payloads.OrderCreatedEvent{
				OrderID:    order.ID,
				BuyerID:    order.BuyerID,
				SellerID:   order.SellerID,
				ProductID:  order.ProductID,
				Quantity:   order.Quantity,
				TotalCents: order.TotalCents,
				IntentRef:  order.GatewayIntentRef,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	return &CreateOrderResult{
		OrderID:     order.ID,
		IntentRef:   order.GatewayIntentRef,
		AmountCents: order.TotalCents,
		Currency:    order.Currency,
	}, nil
}

// Settle verifies the gateway signature and commits the settlement as one
// atomic unit: payment flip, stock decrement, confirmation bookkeeping and
// the outbox event all land together or not at all. A stock shortfall
// still commits the payment (flagged for manual refund) and surfaces as a
// conflict only after the transaction is durable.
func (s *service) Settle(ctx context.Context, input SettleInput) (*SettleResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if strings.TrimSpace(input.ConfirmationRef) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "confirmation ref required")
	}
	if strings.TrimSpace(input.Signature) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "signature required")
	}

	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !s.gateway.VerifySignature(order.GatewayIntentRef, input.ConfirmationRef, input.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeSecurity, "settlement signature mismatch")
	}

	result := &SettleResult{OrderID: order.ID}
	stockShort := false

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.MarkPaid(ctx, order.ID, input.ConfirmationRef, input.Signature)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if rows == 0 {
			current, err := repo.FindOrder(ctx, order.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
			}
			if current.PaymentStatus == enums.PaymentStatusPaid {
				result.AlreadySettled = true
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment is not pending")
		}

		settledAt := time.Now().UTC()

		ok, err := s.inventory.DecrementWithFloor(ctx, tx, order.ProductID, order.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			// Funds are captured but stock ran out since the advisory
			// check. Keep the payment, flag for a manual refund.
			stockShort = true
			if err := repo.SetRefundStatus(ctx, order.ID, enums.RefundStatusManualReview); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flag refund")
			}
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPaymentFlagged,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Version:       1,
				Actor:         buildActor(input.ActorID, enums.MemberRoleBuyer),
				Data: payloads.PaymentFlaggedEvent{
					OrderID:    order.ID,
					BuyerID:    order.BuyerID,
					SellerID:   order.SellerID,
					ProductID:  order.ProductID,
					Quantity:   order.Quantity,
					TotalCents: order.TotalCents,
					Reason:     "insufficient stock at settlement",
					FlaggedAt:  settledAt,
				},
			})
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentSettled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorID, enums.MemberRoleBuyer),
			Data: payloads.PaymentSettledEvent{
				OrderID:         order.ID,
				BuyerID:         order.BuyerID,
				SellerID:        order.SellerID,
				ProductID:       order.ProductID,
				Quantity:        order.Quantity,
				TotalCents:      order.TotalCents,
				ConfirmationRef: input.ConfirmationRef,
				SettledAt:       settledAt,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	if stockShort {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock; payment flagged for manual refund")
	}
	return result, nil
}

// AdvanceShipment moves an order one step forward. Only the seller who
// owns the order may advance it; cancellation goes through CancelOrder.
func (s *service) AdvanceShipment(ctx context.Context, input AdvanceShipmentInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown shipment status")
	}
	if input.Target == enums.ShipmentStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeValidation, "use the cancel operation to cancel an order")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.SellerID != input.ActorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to seller")
		}

		current := order.ShipmentStatus
		if !current.CanTransitionTo(input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move shipment from %s to %s", current, input.Target))
		}

		rows, err := repo.AdvanceShipmentStatus(ctx, order.ID, current, input.Target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance shipment")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "shipment status changed concurrently")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventShipmentUpdated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorID, input.ActorRole),
			Data: payloads.ShipmentUpdatedEvent{
				OrderID:   order.ID,
				BuyerID:   order.BuyerID,
				SellerID:  order.SellerID,
				From:      current,
				To:        input.Target,
				UpdatedAt: time.Now().UTC(),
			},
		})
	})
}

// CancelOrder cancels from any non-terminal state. Buyers may only cancel
// their own order while it is still in the ordered state; sellers may
// cancel any non-terminal order they own.
func (s *service) CancelOrder(ctx context.Context, input CancelOrderInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		current := order.ShipmentStatus
		if current.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already in a terminal state")
		}

		switch input.ActorRole {
		case enums.MemberRoleBuyer:
			if order.BuyerID != input.ActorID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
			}
			if current != enums.ShipmentStatusOrdered {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "buyers can cancel only before the order ships")
			}
		case enums.MemberRoleSeller:
			if order.SellerID != input.ActorID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to seller")
			}
		default:
			return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot cancel orders")
		}

		rows, err := repo.AdvanceShipmentStatus(ctx, order.ID, current, enums.ShipmentStatusCancelled)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "shipment status changed concurrently")
		}

		// Stock is only taken at settlement, so restocking applies to
		// paid orders and only when the operator opted in.
		restocked := false
		if s.restockOnCancel && order.PaymentStatus == enums.PaymentStatusPaid {
			if err := s.inventory.Increment(ctx, tx, order.ProductID, order.Quantity); err != nil {
				return err
			}
			restocked = true
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         buildActor(input.ActorID, input.ActorRole),
			Data: payloads.OrderCanceledEvent{
				OrderID:    order.ID,
				BuyerID:    order.BuyerID,
				SellerID:   order.SellerID,
				CanceledBy: input.ActorRole,
				CanceledAt: time.Now().UTC(),
				Restocked:  restocked,
			},
		})
	})
}

// GetOrder returns an order to its buyer, its seller or an admin.
func (s *service) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, role enums.MemberRole) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if role != enums.MemberRoleAdmin && order.BuyerID != actorID && order.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
	}
	return order, nil
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.repo.ListBuyerOrders(ctx, buyerID, params, filters)
}

func (s *service) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.repo.ListSellerOrders(ctx, sellerID, params, filters)
}

func buildActor(userID uuid.UUID, role enums.MemberRole) *outbox.ActorRef {
	if userID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{
		UserID: userID,
		Role:   string(role),
	}
}
