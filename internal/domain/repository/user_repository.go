// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"freightdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByUsername retrieves a single user by their login username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user entity to the storage. Account provisioning
	// itself lives outside this core; this exists for onboarding tooling and tests.
	Create(ctx context.Context, user *entity.User) error

	// UpdatePassword atomically sets the password hash, stamps the change
	// timestamp and clears the forced-reset flag in one statement. A partial
	// update (hash changed but flag still set) is a correctness bug.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error

	// BulkSetResetRequired flags every user whose username is not in the
	// exemption allow-list for a forced password reset, as a single
	// conditional UPDATE. It returns the number of rows actually flipped.
	BulkSetResetRequired(ctx context.Context, exemptUsernames []string, now time.Time) (int64, error)
}
