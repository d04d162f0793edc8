package domain

import "context"

// EventRepository tracks webhook event ids that have already been
// handled, so redelivered events do not multiply side effects. Entries
// are time-windowed, not durable.
type EventRepository interface {
	// Seen reports whether the event id was already marked.
	Seen(ctx context.Context, eventID string) (bool, error)

	// Mark records the event id. Called only after the event's side
	// effects succeeded, so a failed delivery stays retryable.
	Mark(ctx context.Context, eventID string) error
}
