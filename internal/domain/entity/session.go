// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "github.com/google/uuid"

// Session is the fallback authentication state tied to a single client
// connection. It is owned by the request context: the credential verifier
// receives it as an explicit input and never reads ambient global state.
type Session struct {
	LoggedIn bool      // Whether the connection has an authenticated session.
	UserID   uuid.UUID // The user the session belongs to, when LoggedIn is true.
}
