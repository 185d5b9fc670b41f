package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

// Repository defines persistence operations for order rows. Status
// mutations are compare-and-set statements; callers inspect the affected
// row count to detect lost races.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, confirmationRef, signature string) (int64, error)
	SetRefundStatus(ctx context.Context, orderID uuid.UUID, status enums.RefundStatus) error
	AdvanceShipmentStatus(ctx context.Context, orderID uuid.UUID, from, to enums.ShipmentStatus) (int64, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
}
