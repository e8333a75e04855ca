// Package delivery defines the contract all transport servers implement.
package delivery

import "context"

// Delivery is a transport server (e.g. HTTP) managed by the application lifecycle.
type Delivery interface {
	// Serve starts the server and blocks until it stops.
	Serve(ctx context.Context) error
}
