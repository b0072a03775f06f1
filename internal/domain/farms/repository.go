package farms

import "context"

type Repository interface {
	Create(ctx context.Context, f Farm) error
	Get(ctx context.Context, id string) (Farm, error)
	Save(ctx context.Context, f Farm) error
	List(ctx context.Context) ([]Farm, error)
}
