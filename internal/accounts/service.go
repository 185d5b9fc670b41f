package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopcart-app/shopcart-backend/pkg/db/models"
	"github.com/shopcart-app/shopcart-backend/pkg/enums"
	pkgerrors "github.com/shopcart-app/shopcart-backend/pkg/errors"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox"
	"github.com/shopcart-app/shopcart-backend/pkg/outbox/payloads"
	"github.com/shopcart-app/shopcart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes the admin account-status operations.
type Service interface {
	SetStatus(ctx context.Context, input SetStatusInput) (*AccountView, error)
	GetAccount(ctx context.Context, userID uuid.UUID) (*AccountView, error)
	ListAccounts(ctx context.Context, params pagination.Params, filters AccountFilters) (*AccountList, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// ServiceParams bundles the dependencies for the accounts service.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Outbox outboxPublisher
}

// NewService constructs the accounts service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("accounts repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		outbox: params.Outbox,
	}, nil
}

// SetStatus writes the new status to the profile and the credential in one
// transaction. The profile version guards against concurrent admin edits.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*AccountView, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account status")
	}
	if input.ExpectedVersion <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected version is required")
	}
	if input.ActorRole != enums.MemberRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change account status")
	}

	user, err := s.repo.FindUser(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		rows, err := repo.UpdateUserStatus(ctx, input.UserID, input.Status, input.ExpectedVersion)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "account was modified concurrently")
		}

		rows, err = repo.UpdateCredentialStatus(ctx, user.CredentialID, input.Status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update credential status")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeInternal, "credential record missing for account")
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventAccountStatusChanged,
			AggregateType: enums.AggregateAccount,
			AggregateID:   user.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: string(enums.MemberRoleAdmin)},
			Data: payloads.AccountStatusChangedEvent{
				UserID:       user.ID,
				CredentialID: user.CredentialID,
				Status:       input.Status,
				ChangedBy:    input.ActorID,
				ChangedAt:    time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	user.Status = input.Status
	user.Version++
	return viewFromUser(user), nil
}

func (s *service) GetAccount(ctx context.Context, userID uuid.UUID) (*AccountView, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return viewFromUser(user), nil
}

func (s *service) ListAccounts(ctx context.Context, params pagination.Params, filters AccountFilters) (*AccountList, error) {
	return s.repo.ListAccounts(ctx, params, filters)
}

func viewFromUser(user *models.User) *AccountView {
	return &AccountView{
		UserID:       user.ID,
		CredentialID: user.CredentialID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Phone:        user.Phone,
		Role:         user.Role,
		Status:       user.Status,
		Version:      user.Version,
		CreatedAt:    user.CreatedAt,
	}
}
