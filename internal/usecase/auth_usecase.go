// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"freightdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// AuthSource records which credential established the caller's identity.
type AuthSource string

const (
	// AuthSourceToken means a valid bearer token established the identity.
	AuthSourceToken AuthSource = "token"
	// AuthSourceSession means the request fell back to session state.
	AuthSourceSession AuthSource = "session"
)

// AuthenticateInput carries everything the credential verifier needs for one
// inbound request. The session state and clock are explicit inputs so the
// verifier stays a pure function of its arguments.
type AuthenticateInput struct {
	// AuthorizationHeader is the raw Authorization header value, empty when absent.
	AuthorizationHeader string
	// Session is the decoded fallback session state for this connection.
	Session entity.Session
	// Now is the instant the decision is evaluated at.
	Now time.Time
}

// AuthResult is the outcome of an authentication decision. A zero value means
// unauthenticated. It never explains why a credential was rejected; "bad
// token" and "no token" are indistinguishable to the caller.
type AuthResult struct {
	Authenticated bool
	UserID        uuid.UUID
	Source        AuthSource
}

// AuthUsecase defines the credential verifier: decide, for one inbound
// request, whether it is authenticated, and resolve the acting user.
// Token-based authentication takes precedence over session-based
// authentication whenever a valid token is supplied; a failed token check
// silently falls through to the session. No error channel exists toward the
// caller; store failures during lookup are logged and degrade to the
// invalid-token path.
type AuthUsecase interface {
	Authenticate(ctx context.Context, input AuthenticateInput) AuthResult
}
