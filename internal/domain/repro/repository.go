package repro

import "context"

// EventRepository is the append-only audit trail. Rejected events are
// appended too.
type EventRepository interface {
	Append(ctx context.Context, e Event) error

	// ListByCow returns the cow's events newest first, optionally filtered
	// by type (empty = all). limit <= 0 means no limit.
	ListByCow(ctx context.Context, farmID, cowID string, t EventType, limit int) ([]Event, error)
}
