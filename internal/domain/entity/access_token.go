// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken represents an opaque bearer-token credential. Many tokens may
// map to one user; each token maps to exactly one user. Revocation is a
// logical delete: the row persists, the token is permanently invalid.
type AccessToken struct {
	ID     uuid.UUID // The unique ID for this token record itself.
	Token  string    // The opaque credential string presented by callers.
	UserID uuid.UUID // Links this token to the User it belongs to.

	ExpiresAt  *time.Time // nil means the token never expires.
	RevokedAt  *time.Time // Once set, the token is permanently invalid.
	LastUsedAt *time.Time // Updated best-effort on each successful verification.

	CreatedAt time.Time // Timestamp of token issuance.
}

// ValidAt reports whether the token is valid at the given instant:
// RevokedAt unset AND (ExpiresAt unset OR ExpiresAt after now).
func (t *AccessToken) ValidAt(now time.Time) bool {
	if t.RevokedAt != nil {
		return false
	}

	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}
