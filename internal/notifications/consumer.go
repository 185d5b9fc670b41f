package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	"github.com/shopcart-app/shopcart-backend/pkg/logger"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox/idempotency"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox/payloads"
)

const userNotificationConsumer = "user-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and turns settlement and account status
// transitions into in-app notifications.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a notification consumer for one subscription.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	}
	logCtx := c.logg.WithFields(ctx, fields)

	switch eventType {
	case enums.EventPaymentSettled, enums.EventPaymentFlagged, enums.EventAccountStatusChanged:
	default:
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, userNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handleEvent(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, userNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) handleEvent(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventPaymentSettled:
		var payload payloads.PaymentSettledEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse payment_settled payload: %w", err)
		}
		return c.notifySettlement(ctx, payload, logCtx)
	case enums.EventPaymentFlagged:
		var payload payloads.PaymentFlaggedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse payment_flagged payload: %w", err)
		}
		return c.notifyFlaggedPayment(ctx, payload, logCtx)
	case enums.EventAccountStatusChanged:
		var payload payloads.AccountStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse account_status_changed payload: %w", err)
		}
		return c.notifyAccountStatus(ctx, payload, logCtx)
	}
	return nil
}

func (c *Consumer) notifySettlement(ctx context.Context, payload payloads.PaymentSettledEvent, logCtx context.Context) error {
	if payload.BuyerID == uuid.Nil || payload.SellerID == uuid.Nil {
		return fmt.Errorf("buyer or seller id missing")
	}
	orderLink := fmt.Sprintf("/orders/%s", payload.OrderID)

	buyerNote := &models.Notification{
		UserID:  payload.BuyerID,
		Type:    enums.NotificationTypeOrderAlert,
		Title:   "Payment received",
		Message: fmt.Sprintf("Your payment for order %s is confirmed.", payload.OrderID),
		Link:    stringPtr(orderLink),
	}
	if err := c.repo.Create(ctx, buyerNote); err != nil {
		return err
	}

	sellerNote := &models.Notification{
		UserID:  payload.SellerID,
		Type:    enums.NotificationTypeOrderAlert,
		Title:   "New paid order",
		Message: fmt.Sprintf("Order %s has been paid and is ready to ship.", payload.OrderID),
		Link:    stringPtr(orderLink),
	}
	if err := c.repo.Create(ctx, sellerNote); err != nil {
		return err
	}

	c.logg.Info(logCtx, "settlement notifications created")
	return nil
}

func (c *Consumer) notifyFlaggedPayment(ctx context.Context, payload payloads.PaymentFlaggedEvent, logCtx context.Context) error {
	if payload.BuyerID == uuid.Nil {
		return fmt.Errorf("buyer id missing")
	}
	notification := &models.Notification{
		UserID:  payload.BuyerID,
		Type:    enums.NotificationTypeOrderAlert,
		Title:   "Order needs attention",
		Message: fmt.Sprintf("Your payment for order %s was received but the item ran out of stock. Our team will arrange a refund.", payload.OrderID),
		Link:    stringPtr(fmt.Sprintf("/orders/%s", payload.OrderID)),
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "flagged payment notification created")
	return nil
}

func (c *Consumer) notifyAccountStatus(ctx context.Context, payload payloads.AccountStatusChangedEvent, logCtx context.Context) error {
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("user id missing")
	}
	title := "Account status updated"
	message := fmt.Sprintf("Your account status changed to %s.", payload.Status)
	if payload.Status == enums.AccountStatusApproved {
		title = "Account approved"
		message = "Your account has been approved. You can now sign in."
	}
	notification := &models.Notification{
		UserID:  payload.UserID,
		Type:    enums.NotificationTypeAccountAlert,
		Title:   title,
		Message: message,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(logCtx, "account status notification created")
	return nil
}

func stringPtr(value string) *string {
	return &value
}
