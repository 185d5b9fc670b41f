package auth

import (
	"github.com/google/uuid"

	"github.com/shopcart-app/shopcart-backend/pkg/enums"
)

// RegisterRequest contains the payload for onboarding a new account.
// Accounts start pending; an admin approves them before first login.
type RegisterRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role" validate:"required,oneof=buyer seller"`
}

// RegisterResponse reports the created account and its initial status.
type RegisterResponse struct {
	UserID uuid.UUID           `json:"userId"`
	Status enums.AccountStatus `json:"status"`
}

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionUser is the profile snapshot returned alongside the tokens.
type SessionUser struct {
	ID        uuid.UUID           `json:"id"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Role      enums.MemberRole    `json:"role"`
	Status    enums.AccountStatus `json:"status"`
}

// LoginResponse contains the token pair and the logged-in user.
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         SessionUser `json:"user"`
}
