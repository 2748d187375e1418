// Package service defines interfaces for core, stateless domain logic.
package service

import "freightdesk/internal/domain/entity"

// SessionCodec encodes session state into an opaque string the delivery layer
// can hand to a client (a signed cookie), and decodes it back. The credential
// verifier itself only ever sees the decoded entity.Session value.
type SessionCodec interface {
	// Encode serializes and signs the session state.
	Encode(session entity.Session) (string, error)

	// Decode verifies and deserializes a previously encoded session.
	// Any tampered, malformed or expired value decodes to a logged-out session.
	Decode(raw string) entity.Session
}
