package ports

import "context"

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used to log or reload programs edited while a server runs.
type Watchable interface {
	// Watch returns a channel carrying the names of changed programs.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
