// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"freightdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// ValidationResult is the outcome of a password complexity check.
// Valid is true iff no violations were collected; Errors lists every rule
// the password broke, in rule order. Not an error value: a failed validation
// is a normal result.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ForceResetOutput is the structured outcome of the administrative bulk
// reset, shaped for tooling that must display it to a human.
type ForceResetOutput struct {
	Affected int64
}

// PasswordUsecase defines the password policy engine: complexity validation
// against composable rules and a personal-information denylist, password
// expiry tracking, and the administrative bulk force-reset.
type PasswordUsecase interface {
	// ValidateComplexity checks the password against all structural rules and
	// the denylist built from the user's personal information. All rules are
	// evaluated independently; violations are collected, not short-circuited.
	// Pure function: identical inputs always yield identical results.
	ValidateComplexity(password, firstName, lastName, email string) ValidationResult

	// IsExpired reports whether the user's password is expired at the given
	// time. Exempt usernames are never expired, regardless of flags or dates.
	IsExpired(user *entity.User, now time.Time) bool

	// UpdatePassword atomically sets the new hash, stamps the change time and
	// clears the forced-reset flag. Returns an error on store failure; the
	// caller decides how to surface it.
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error

	// ForceResetAll flags every non-exempt user for a forced password reset
	// in a single bulk conditional update and reports how many rows flipped.
	ForceResetAll(ctx context.Context) (*ForceResetOutput, error)
}
