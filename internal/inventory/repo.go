package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
)

// Repository is the stock ledger. All mutations are single atomic
// statements so concurrent settlements cannot oversell.
type Repository interface {
	Upsert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Get(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error)
	Available(ctx context.Context, productID uuid.UUID) (int, error)
	DecrementWithFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error)
	Increment(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) Get(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return &item, nil
}

// Available reports the advisory stock level. A missing ledger row reads
// as zero so unseeded products simply cannot be ordered.
func (r *repository) Available(ctx context.Context, productID uuid.UUID) (int, error) {
	item, err := r.Get(ctx, productID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return 0, nil
		}
		return 0, err
	}
	return item.AvailableQty, nil
}

// DecrementWithFloor subtracts qty only when enough stock remains. The
// guard lives in the WHERE clause; zero rows affected means the floor
// would have been crossed and nothing was written.
func (r *repository) DecrementWithFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_qty = available_qty - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND available_qty >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement inventory")
	}
	return res.RowsAffected > 0, nil
}

// Increment returns qty to the ledger, used by restock-on-cancel.
func (r *repository) Increment(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_qty = available_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "increment inventory")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
	}
	return nil
}
