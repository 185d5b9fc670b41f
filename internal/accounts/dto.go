package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// SetStatusInput carries an admin's status decision for one account.
// ExpectedVersion is the profile version the admin last read.
type SetStatusInput struct {
	UserID          uuid.UUID
	Status          enums.AccountStatus
	ExpectedVersion int64
	ActorID         uuid.UUID
	ActorRole       enums.MemberRole
}

// AccountView is the full account detail returned to admins.
type AccountView struct {
	UserID       uuid.UUID           `json:"userId"`
	CredentialID uuid.UUID           `json:"credentialId"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Phone        *string             `json:"phone,omitempty"`
	Role         enums.MemberRole    `json:"role"`
	Status       enums.AccountStatus `json:"status"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// AccountFilters describe the optional list filters.
type AccountFilters struct {
	Status *enums.AccountStatus
	Role   *enums.MemberRole
}

// AccountSummary is the list row returned to admins.
type AccountSummary struct {
	UserID    uuid.UUID           `json:"userId"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Role      enums.MemberRole    `json:"role"`
	Status    enums.AccountStatus `json:"status"`
	Version   int64               `json:"version"`
	CreatedAt time.Time           `json:"createdAt"`
}

// AccountList wraps the paginated accounts plus the next page cursor.
type AccountList struct {
	Accounts   []AccountSummary `json:"accounts"`
	NextCursor string           `json:"nextCursor,omitempty"`
}
