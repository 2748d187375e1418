// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// LoginOutput returns the issued credentials after a successful login.
type LoginOutput struct {
	UserID          uuid.UUID
	Username        string
	Token           string
	TokenExpiresAt  time.Time
	PasswordExpired bool
}

// PasswordStatusOutput reports the expiry state of the caller's password.
type PasswordStatusOutput struct {
	Expired       bool
	ResetRequired bool
	ChangedAt     *time.Time
}

// AccountUsecase defines the account-management operations exposed to the
// delivery layer. These are the application flows that invoke the password
// policy engine and the token store.
type AccountUsecase interface {
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	PasswordStatus(ctx context.Context, userID uuid.UUID) (*PasswordStatusOutput, error)
}
