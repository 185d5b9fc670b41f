package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
	"github.com/shopcart-app/shopcart-backend/pkg/razorpay"
)

type stubOrdersRepo struct {
	order         *models.Order
	created       *models.Order
	markPaidRows  int64
	markPaidCalls int
	refundStatus  enums.RefundStatus
	advanceRows   int64
	advanceFrom   enums.ShipmentStatus
	advanceTo     enums.ShipmentStatus
}

func newStubRepo(order *models.Order) *stubOrdersRepo {
	return &stubOrdersRepo{order: order, markPaidRows: 1, advanceRows: 1}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.order
	return &copied, nil
}

func (s *stubOrdersRepo) MarkPaid(ctx context.Context, orderID uuid.UUID, confirmationRef, signature string) (int64, error) {
	s.markPaidCalls++
	if s.markPaidRows > 0 && s.order != nil {
		s.order.PaymentStatus = enums.PaymentStatusPaid
		s.order.GatewayConfirmationRef = &confirmationRef
		s.order.GatewaySignature = &signature
	}
	return s.markPaidRows, nil
}

func (s *stubOrdersRepo) SetRefundStatus(ctx context.Context, orderID uuid.UUID, status enums.RefundStatus) error {
	s.refundStatus = status
	if s.order != nil {
		s.order.RefundStatus = status
	}
	return nil
}

func (s *stubOrdersRepo) AdvanceShipmentStatus(ctx context.Context, orderID uuid.UUID, from, to enums.ShipmentStatus) (int64, error) {
	s.advanceFrom = from
	s.advanceTo = to
	if s.advanceRows > 0 && s.order != nil {
		s.order.ShipmentStatus = to
	}
	return s.advanceRows, nil
}

func (s *stubOrdersRepo) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (s *stubOrdersRepo) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *stubOutboxPublisher) lastEventType() enums.OutboxEventType {
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1].EventType
}

type stubCatalog struct {
	product *models.Product
	err     error
}

func (s *stubCatalog) GetItem(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

type inventoryCall struct {
	productID uuid.UUID
	qty       int
}

type stubInventory struct {
	available   int
	decrementOK bool
	decrements  []inventoryCall
	increments  []inventoryCall
}

func (s *stubInventory) Available(ctx context.Context, productID uuid.UUID) (int, error) {
	return s.available, nil
}

func (s *stubInventory) DecrementWithFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	s.decrements = append(s.decrements, inventoryCall{productID: productID, qty: qty})
	return s.decrementOK, nil
}

func (s *stubInventory) Increment(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	s.increments = append(s.increments, inventoryCall{productID: productID, qty: qty})
	return nil
}

type stubGateway struct {
	intent      *razorpay.Order
	createErr   error
	createCalls int
	verifyOK    bool
}

func (s *stubGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.intent != nil {
		return s.intent, nil
	}
	return &razorpay.Order{ID: "order_gw_1", Amount: req.AmountCents, Currency: req.Currency, Status: "created"}, nil
}

func (s *stubGateway) VerifySignature(intentRef, confirmationRef, signature string) bool {
	return s.verifyOK
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, params ServiceParams) Service {
	t.Helper()
	if params.Tx == nil {
		params.Tx = stubTxRunner{}
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %T: %v", err, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s got %s (%v)", code, typed.Code(), err)
	}
}

func TestCreateOrder(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	product := &models.Product{ID: uuid.New(), SellerID: sellerID, PriceCents: 79900, IsActive: true}
	repo := newStubRepo(nil)
	outboxStub := &stubOutboxPublisher{}
	gateway := &stubGateway{}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{product: product},
		Inventory: &stubInventory{available: 5},
		Gateway:   gateway,
	})

	result, err := svc.Create(context.Background(), CreateOrderInput{
		BuyerID:         buyerID,
		ProductID:       product.ID,
		Quantity:        2,
		ShippingAddress: "14 MG Road, Bengaluru",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.AmountCents != 159800 {
		t.Fatalf("expected total 159800 got %d", result.AmountCents)
	}
	if result.Currency != "INR" {
		t.Fatalf("unexpected currency %s", result.Currency)
	}
	if result.IntentRef != "order_gw_1" {
		t.Fatalf("unexpected intent ref %s", result.IntentRef)
	}
	if repo.created == nil {
		t.Fatal("expected order persisted")
	}
	if repo.created.SellerID != sellerID {
		t.Fatalf("seller not copied from product")
	}
	if repo.created.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment got %s", repo.created.PaymentStatus)
	}
	if repo.created.ShipmentStatus != enums.ShipmentStatusOrdered {
		t.Fatalf("expected ordered shipment got %s", repo.created.ShipmentStatus)
	}
	if outboxStub.lastEventType() != enums.EventOrderCreated {
		t.Fatalf("unexpected event %s", outboxStub.lastEventType())
	}
}

func TestCreateOrderGatewayFailureWritesNothing(t *testing.T) {
	product := &models.Product{ID: uuid.New(), SellerID: uuid.New(), PriceCents: 1000}
	repo := newStubRepo(nil)
	outboxStub := &stubOutboxPublisher{}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{product: product},
		Inventory: &stubInventory{available: 5},
		Gateway:   &stubGateway{createErr: errors.New("gateway timeout")},
	})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		BuyerID:         uuid.New(),
		ProductID:       product.ID,
		Quantity:        1,
		ShippingAddress: "14 MG Road, Bengaluru",
	})
	expectCode(t, err, pkgerrors.CodeDependency)
	if repo.created != nil {
		t.Fatal("failed intent must not leave an order row")
	}
	if len(outboxStub.events) != 0 {
		t.Fatal("failed intent must not emit events")
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	product := &models.Product{ID: uuid.New(), SellerID: uuid.New(), PriceCents: 1000}
	gateway := &stubGateway{}
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(nil),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{product: product},
		Inventory: &stubInventory{available: 1},
		Gateway:   gateway,
	})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		BuyerID:         uuid.New(),
		ProductID:       product.ID,
		Quantity:        2,
		ShippingAddress: "14 MG Road, Bengaluru",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
	if gateway.createCalls != 0 {
		t.Fatal("advisory stock check must run before the gateway call")
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(nil),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		BuyerID:         uuid.New(),
		ProductID:       uuid.New(),
		Quantity:        0,
		ShippingAddress: "addr",
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), CreateOrderInput{
		BuyerID:         uuid.New(),
		ProductID:       uuid.New(),
		Quantity:        1,
		ShippingAddress: "   ",
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func pendingOrder(buyerID, sellerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:               uuid.New(),
		BuyerID:          buyerID,
		SellerID:         sellerID,
		ProductID:        uuid.New(),
		Quantity:         2,
		UnitAmountCents:  500,
		TotalCents:       1000,
		Currency:         "INR",
		GatewayIntentRef: "order_gw_1",
		PaymentStatus:    enums.PaymentStatusPending,
		ShipmentStatus:   enums.ShipmentStatusOrdered,
		RefundStatus:     enums.RefundStatusNone,
	}
}

func TestSettle(t *testing.T) {
	order := pendingOrder(uuid.New(), uuid.New())
	repo := newStubRepo(order)
	outboxStub := &stubOutboxPublisher{}
	inventory := &stubInventory{decrementOK: true}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{},
		Inventory: inventory,
		Gateway:   &stubGateway{verifyOK: true},
	})

	result, err := svc.Settle(context.Background(), SettleInput{
		OrderID:         order.ID,
		ConfirmationRef: "pay_gw_1",
		Signature:       "deadbeef",
		ActorID:         order.BuyerID,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if result.AlreadySettled {
		t.Fatal("first settlement must not read as replay")
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid got %s", order.PaymentStatus)
	}
	if len(inventory.decrements) != 1 || inventory.decrements[0].qty != 2 {
		t.Fatalf("unexpected decrements %+v", inventory.decrements)
	}
	if outboxStub.lastEventType() != enums.EventPaymentSettled {
		t.Fatalf("unexpected event %s", outboxStub.lastEventType())
	}
}

func TestSettleSignatureMismatch(t *testing.T) {
	order := pendingOrder(uuid.New(), uuid.New())
	repo := newStubRepo(order)
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{decrementOK: true},
		Gateway:   &stubGateway{verifyOK: false},
	})

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:         order.ID,
		ConfirmationRef: "pay_gw_1",
		Signature:       "forged",
	})
	expectCode(t, err, pkgerrors.CodeSecurity)
	if repo.markPaidCalls != 0 {
		t.Fatal("rejected signature must not touch the order")
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("order mutated after rejected signature: %s", order.PaymentStatus)
	}
}

func TestSettleIdempotentReplay(t *testing.T) {
	order := pendingOrder(uuid.New(), uuid.New())
	order.PaymentStatus = enums.PaymentStatusPaid
	repo := newStubRepo(order)
	repo.markPaidRows = 0
	outboxStub := &stubOutboxPublisher{}
	inventory := &stubInventory{decrementOK: true}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{},
		Inventory: inventory,
		Gateway:   &stubGateway{verifyOK: true},
	})

	result, err := svc.Settle(context.Background(), SettleInput{
		OrderID:         order.ID,
		ConfirmationRef: "pay_gw_1",
		Signature:       "deadbeef",
	})
	if err != nil {
		t.Fatalf("replay must succeed, got %v", err)
	}
	if !result.AlreadySettled {
		t.Fatal("expected already-settled marker")
	}
	if len(inventory.decrements) != 0 {
		t.Fatal("replay must not decrement stock again")
	}
	if len(outboxStub.events) != 0 {
		t.Fatal("replay must not emit events")
	}
}

func TestSettleStockShortFlagsPayment(t *testing.T) {
	order := pendingOrder(uuid.New(), uuid.New())
	repo := newStubRepo(order)
	outboxStub := &stubOutboxPublisher{}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{decrementOK: false},
		Gateway:   &stubGateway{verifyOK: true},
	})

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:         order.ID,
		ConfirmationRef: "pay_gw_1",
		Signature:       "deadbeef",
	})
	expectCode(t, err, pkgerrors.CodeConflict)
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatal("payment must stay recorded when stock runs out")
	}
	if repo.refundStatus != enums.RefundStatusManualReview {
		t.Fatalf("expected manual review refund, got %s", repo.refundStatus)
	}
	if outboxStub.lastEventType() != enums.EventPaymentFlagged {
		t.Fatalf("unexpected event %s", outboxStub.lastEventType())
	}
}

func TestSettleNonPendingState(t *testing.T) {
	order := pendingOrder(uuid.New(), uuid.New())
	order.PaymentStatus = enums.PaymentStatusFailed
	repo := newStubRepo(order)
	repo.markPaidRows = 0
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{verifyOK: true},
	})

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:         order.ID,
		ConfirmationRef: "pay_gw_1",
		Signature:       "deadbeef",
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestSettleOrderNotFound(t *testing.T) {
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(nil),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{verifyOK: true},
	})

	_, err := svc.Settle(context.Background(), SettleInput{
		OrderID:         uuid.New(),
		ConfirmationRef: "pay_gw_1",
		Signature:       "deadbeef",
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestAdvanceShipment(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	order.PaymentStatus = enums.PaymentStatusPaid
	repo := newStubRepo(order)
	outboxStub := &stubOutboxPublisher{}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.AdvanceShipment(context.Background(), AdvanceShipmentInput{
		OrderID:   order.ID,
		Target:    enums.ShipmentStatusShipped,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.advanceFrom != enums.ShipmentStatusOrdered || repo.advanceTo != enums.ShipmentStatusShipped {
		t.Fatalf("unexpected transition %s -> %s", repo.advanceFrom, repo.advanceTo)
	}
	if outboxStub.lastEventType() != enums.EventShipmentUpdated {
		t.Fatalf("unexpected event %s", outboxStub.lastEventType())
	}
}

func TestAdvanceShipmentForbiddenForOtherSeller(t *testing.T) {
	order := pendingOrder(uuid.New(), uuid.New())
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(order),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.AdvanceShipment(context.Background(), AdvanceShipmentInput{
		OrderID:   order.ID,
		Target:    enums.ShipmentStatusShipped,
		ActorID:   uuid.New(),
		ActorRole: enums.MemberRoleSeller,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestAdvanceShipmentRejectsSkippedState(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(order),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.AdvanceShipment(context.Background(), AdvanceShipmentInput{
		OrderID:   order.ID,
		Target:    enums.ShipmentStatusDelivered,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAdvanceShipmentLostRace(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	repo := newStubRepo(order)
	repo.advanceRows = 0
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.AdvanceShipment(context.Background(), AdvanceShipmentInput{
		OrderID:   order.ID,
		Target:    enums.ShipmentStatusShipped,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestCancelOrderBuyerWhileOrdered(t *testing.T) {
	buyerID := uuid.New()
	order := pendingOrder(buyerID, uuid.New())
	repo := newStubRepo(order)
	outboxStub := &stubOutboxPublisher{}
	inventory := &stubInventory{}
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    outboxStub,
		Catalog:   &stubCatalog{},
		Inventory: inventory,
		Gateway:   &stubGateway{},
	})

	err := svc.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   order.ID,
		ActorID:   buyerID,
		ActorRole: enums.MemberRoleBuyer,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.advanceTo != enums.ShipmentStatusCancelled {
		t.Fatalf("expected cancellation, got %s", repo.advanceTo)
	}
	if len(inventory.increments) != 0 {
		t.Fatal("unpaid cancel must not restock")
	}
	if outboxStub.lastEventType() != enums.EventOrderCanceled {
		t.Fatalf("unexpected event %s", outboxStub.lastEventType())
	}
}

func TestCancelOrderBuyerAfterShipped(t *testing.T) {
	buyerID := uuid.New()
	order := pendingOrder(buyerID, uuid.New())
	order.ShipmentStatus = enums.ShipmentStatusShipped
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(order),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   order.ID,
		ActorID:   buyerID,
		ActorRole: enums.MemberRoleBuyer,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelOrderSellerInTransit(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	order.ShipmentStatus = enums.ShipmentStatusInTransit
	repo := newStubRepo(order)
	svc := newTestService(t, ServiceParams{
		Repo:      repo,
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   order.ID,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.advanceFrom != enums.ShipmentStatusInTransit {
		t.Fatalf("expected cancel from in_transit, got %s", repo.advanceFrom)
	}
}

func TestCancelOrderTerminalState(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	order.ShipmentStatus = enums.ShipmentStatusDelivered
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(order),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	err := svc.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   order.ID,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelOrderRestockFlag(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	order.PaymentStatus = enums.PaymentStatusPaid
	repo := newStubRepo(order)
	outboxStub := &stubOutboxPublisher{}
	inventory := &stubInventory{}
	svc := newTestService(t, ServiceParams{
		Repo:            repo,
		Outbox:          outboxStub,
		Catalog:         &stubCatalog{},
		Inventory:       inventory,
		Gateway:         &stubGateway{},
		RestockOnCancel: true,
	})

	err := svc.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   order.ID,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(inventory.increments) != 1 || inventory.increments[0].qty != order.Quantity {
		t.Fatalf("expected restock, got %+v", inventory.increments)
	}
}

func TestCancelOrderPaidWithoutFlagDoesNotRestock(t *testing.T) {
	sellerID := uuid.New()
	order := pendingOrder(uuid.New(), sellerID)
	order.PaymentStatus = enums.PaymentStatusPaid
	inventory := &stubInventory{}
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(order),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: inventory,
		Gateway:   &stubGateway{},
	})

	err := svc.CancelOrder(context.Background(), CancelOrderInput{
		OrderID:   order.ID,
		ActorID:   sellerID,
		ActorRole: enums.MemberRoleSeller,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(inventory.increments) != 0 {
		t.Fatal("restock must stay off by default")
	}
}

func TestGetOrderAccessControl(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()
	order := pendingOrder(buyerID, sellerID)
	svc := newTestService(t, ServiceParams{
		Repo:      newStubRepo(order),
		Outbox:    &stubOutboxPublisher{},
		Catalog:   &stubCatalog{},
		Inventory: &stubInventory{},
		Gateway:   &stubGateway{},
	})

	got, err := svc.GetOrder(context.Background(), order.ID, buyerID, enums.MemberRoleBuyer)
	if err != nil {
		t.Fatalf("buyer fetch failed: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("unexpected order %s", got.ID)
	}

	if _, err := svc.GetOrder(context.Background(), order.ID, sellerID, enums.MemberRoleSeller); err != nil {
		t.Fatalf("seller fetch failed: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), order.ID, uuid.New(), enums.MemberRoleAdmin); err != nil {
		t.Fatalf("admin fetch failed: %v", err)
	}

	_, err = svc.GetOrder(context.Background(), order.ID, uuid.New(), enums.MemberRoleBuyer)
	expectCode(t, err, pkgerrors.CodeForbidden)
}
