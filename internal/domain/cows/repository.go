package cows

import "context"

type Repository interface {
	Create(ctx context.Context, c Cow) error
	Get(ctx context.Context, farmID, id string) (Cow, error)

	// Save persists the cow only when the stored Version matches c.Version,
	// then bumps it. Returns ErrVersionConflict otherwise.
	Save(ctx context.Context, c Cow) error

	ListByFarm(ctx context.Context, farmID string) ([]Cow, error)

	// ListActive returns every active cow across all farms, for the overdue
	// sweep.
	ListActive(ctx context.Context) ([]Cow, error)
}
