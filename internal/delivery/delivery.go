// Package delivery defines the inbound transport contract served by main.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by the application entrypoint.
type Delivery interface {
	// Serve blocks until the server stops or the context is cancelled.
	Serve(ctx context.Context) error
}
