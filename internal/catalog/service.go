package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryStore interface {
	Upsert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	Available(ctx context.Context, productID uuid.UUID) (int, error)
}

// Service exposes the seller listing operations plus the public item read.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, input UpdateProductInput) error
	SetInventory(ctx context.Context, input SetInventoryInput) error
	GetItem(ctx context.Context, productID uuid.UUID) (*ItemView, error)
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*ProductList, error)
}

// ServiceParams bundles the catalog service dependencies.
type ServiceParams struct {
	Repo      Repository
	Tx        txRunner
	Inventory inventoryStore
}

type service struct {
	repo      Repository
	tx        txRunner
	inventory inventoryStore
}

// NewService constructs the catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		inventory: params.Inventory,
	}, nil
}

// CreateProduct writes the listing and its stock row in one transaction so
// a new product is orderable the moment it appears.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.SellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.InitialQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    input.SellerID,
		SKU:         strings.TrimSpace(input.SKU),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		PriceCents:  input.PriceCents,
		IsActive:    true,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		if _, err := s.inventory.Upsert(ctx, &models.InventoryItem{
			ProductID:    product.ID,
			AvailableQty: input.InitialQty,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed inventory")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, input UpdateProductInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product.SellerID != input.SellerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}

	updates := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "title cannot be blank")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateProduct(ctx, input.ProductID, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return nil
}

// SetInventory replaces the available quantity. Price changes on open
// orders never apply retroactively; neither do stock edits.
func (s *service) SetInventory(ctx context.Context, input SetInventoryInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	product, err := s.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product.SellerID != input.SellerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}

	if _, err := s.inventory.Upsert(ctx, &models.InventoryItem{
		ProductID:    input.ProductID,
		AvailableQty: input.Quantity,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write inventory")
	}
	return nil
}

func (s *service) GetItem(ctx context.Context, productID uuid.UUID) (*ItemView, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.GetItem(ctx, productID)
	if err != nil {
		return nil, err
	}
	available, err := s.inventory.Available(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ItemView{
		ID:           product.ID,
		SellerID:     product.SellerID,
		SKU:          product.SKU,
		Title:        product.Title,
		Description:  product.Description,
		PriceCents:   product.PriceCents,
		AvailableQty: available,
	}, nil
}

func (s *service) ListSellerProducts(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*ProductList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.repo.ListSellerProducts(ctx, sellerID, params)
}
