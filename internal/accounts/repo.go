package accounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

// Repository persists the credential/profile pair. Status writes are
// compare-and-set on the profile version; the credential row is updated
// in the same transaction so the two never diverge.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindUserByCredential(ctx context.Context, credentialID uuid.UUID) (*models.User, error)
	UpdateUserStatus(ctx context.Context, userID uuid.UUID, status enums.AccountStatus, expectedVersion int64) (int64, error)
	UpdateCredentialStatus(ctx context.Context, credentialID uuid.UUID, status enums.AccountStatus) (int64, error)
	RecordLogin(ctx context.Context, credentialID uuid.UUID) error
	ListAccounts(ctx context.Context, params pagination.Params, filters AccountFilters) (*AccountList, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCredential(ctx context.Context, credential *models.Credential) (*models.Credential, error) {
	if err := r.db.WithContext(ctx).Create(credential).Error; err != nil {
		return nil, err
	}
	return credential, nil
}

func (r *repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var credential models.Credential
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&credential).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByCredential(ctx context.Context, credentialID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "credential_id = ?", credentialID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserStatus bumps the version alongside the status so a stale
// writer affects zero rows instead of clobbering a newer state.
func (r *repository) UpdateUserStatus(ctx context.Context, userID uuid.UUID, status enums.AccountStatus, expectedVersion int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND version = ?", userID, expectedVersion).
		Updates(map[string]any{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateCredentialStatus(ctx context.Context, credentialID uuid.UUID, status enums.AccountStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Credential{}).
		Where("id = ?", credentialID).
		Updates(map[string]any{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) RecordLogin(ctx context.Context, credentialID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Credential{}).
		Where("id = ?", credentialID).
		UpdateColumn("last_login_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *repository) ListAccounts(ctx context.Context, params pagination.Params, filters AccountFilters) (*AccountList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.User
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accounts")
	}

	list := &AccountList{Accounts: make([]AccountSummary, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		list.Accounts = append(list.Accounts, AccountSummary{
			UserID:    row.ID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Role:      row.Role,
			Status:    row.Status,
			Version:   row.Version,
			CreatedAt: row.CreatedAt,
		})
	}
	return list, nil
}
