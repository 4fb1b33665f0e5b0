// Package context holds the timeout conventions used by todo-manager.
package context

import (
	"context"
	"time"
)

const (
	// DefaultShutdownTimeout bounds graceful HTTP shutdown.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultPingTimeout bounds connectivity checks against backing stores.
	DefaultPingTimeout = 5 * time.Second
	// DefaultRequestTimeout bounds a single API call from the client.
	DefaultRequestTimeout = 10 * time.Second
)

// WithShutdownTimeout returns a background context bounded by DefaultShutdownTimeout.
func WithShutdownTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultShutdownTimeout)
}

// WithPingTimeout derives a context bounded by DefaultPingTimeout. A nil
// parent means context.Background.
func WithPingTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, DefaultPingTimeout)
}
