// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"freightdesk/internal/domain/entity"
)

// ErrTokenNotFound is returned when no valid access token matches the
// presented credential string. Lookups never distinguish "unknown",
// "expired" and "revoked"; they all collapse to this error.
var ErrTokenNotFound = errors.New("access token not found")

// AccessTokenRepository defines the standard operations for bearer-token persistence.
type AccessTokenRepository interface {
	// Create persists a newly issued access token.
	Create(ctx context.Context, token *entity.AccessToken) error

	// FindValidToken retrieves the token record matching the exact credential
	// string, provided it satisfies the validity invariant at the given time:
	// not revoked, and not expired. Anything else returns ErrTokenNotFound.
	FindValidToken(ctx context.Context, token string, now time.Time) (*entity.AccessToken, error)

	// TouchLastUsed updates the token's last-used timestamp. Best-effort:
	// callers are expected to swallow its failure.
	TouchLastUsed(ctx context.Context, token string, now time.Time) error

	// Revoke permanently invalidates the token (logical delete; the row persists).
	Revoke(ctx context.Context, token string, now time.Time) error
}
