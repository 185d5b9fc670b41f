package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips payment_status pending -> paid and records the gateway
// confirmation in one statement. Zero rows affected means the order was
// not pending; the caller re-reads to find out why.
func (r *repository) MarkPaid(ctx context.Context, orderID uuid.UUID, confirmationRef, signature string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, enums.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status":           enums.PaymentStatusPaid,
			"gateway_confirmation_ref": confirmationRef,
			"gateway_signature":        signature,
			"settled_at":               time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) SetRefundStatus(ctx context.Context, orderID uuid.UUID, status enums.RefundStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("refund_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdvanceShipmentStatus applies the transition with the previous status in
// the WHERE clause so racing writers lose instead of overwriting.
func (r *repository) AdvanceShipmentStatus(ctx context.Context, orderID uuid.UUID, from, to enums.ShipmentStatus) (int64, error) {
	updates := map[string]any{"shipment_status": to}
	switch to {
	case enums.ShipmentStatusDelivered:
		updates["delivered_at"] = time.Now().UTC()
	case enums.ShipmentStatusCancelled:
		updates["canceled_at"] = time.Now().UTC()
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND shipment_status = ?", orderID, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return r.list(ctx, "buyer_id", buyerID, params, filters)
}

func (r *repository) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	return r.list(ctx, "seller_id", sellerID, params, filters)
}

func (r *repository) list(ctx context.Context, ownerColumn string, ownerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where(ownerColumn+" = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1)
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}
	if filters.ShipmentStatus != nil {
		query = query.Where("shipment_status = ?", *filters.ShipmentStatus)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	list := &OrderList{Orders: make([]OrderSummary, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		list.Orders = append(list.Orders, OrderSummary{
			ID:             row.ID,
			ProductID:      row.ProductID,
			Quantity:       row.Quantity,
			TotalCents:     row.TotalCents,
			Currency:       row.Currency,
			PaymentStatus:  row.PaymentStatus,
			ShipmentStatus: row.ShipmentStatus,
			RefundStatus:   row.RefundStatus,
			CreatedAt:      row.CreatedAt,
		})
	}
	return list, nil
}
