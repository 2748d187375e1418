// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record at the centre of the access-control core.
// Besides login identity it carries the personal information used as a
// denylist source for password content checks, and the state the password
// expiry policy is evaluated against.
type User struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the user.
	Username  string    // Unique login identifier.
	FirstName string    // Used only as a denylist source for password content checks.
	LastName  string    // Used only as a denylist source for password content checks.
	Email     string    // Used only as a denylist source for password content checks.

	// PasswordHash stores the bcrypt-hashed credential. Never stored or logged in plaintext.
	PasswordHash string

	// PasswordChangedAt is nil when the password has never been changed,
	// which the expiry policy treats as immediately expired.
	PasswordChangedAt *time.Time

	// PasswordResetRequired forces expiration regardless of PasswordChangedAt.
	PasswordResetRequired bool

	CreatedAt time.Time // Timestamp of when this user account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this user's data.
}
