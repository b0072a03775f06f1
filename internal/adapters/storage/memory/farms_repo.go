package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dairy-herd-manager/internal/domain/farms"
)

type farmRepo struct {
	mu   sync.RWMutex
	byID map[string]farms.Farm
}

func NewFarmRepo() farms.Repository {
	return &farmRepo{
		byID: make(map[string]farms.Farm),
	}
}

func (r *farmRepo) Create(ctx context.Context, f farms.Farm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("farm id required")
	}
	if _, exists := r.byID[f.ID]; exists {
		return errors.New("farm already exists")
	}
	r.byID[f.ID] = cloneFarm(f)
	return nil
}

func (r *farmRepo) Get(ctx context.Context, id string) (farms.Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return farms.Farm{}, farms.ErrNotFound
	}
	return cloneFarm(f), nil
}

func (r *farmRepo) Save(ctx context.Context, f farms.Farm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[f.ID]; !exists {
		return farms.ErrNotFound
	}
	r.byID[f.ID] = cloneFarm(f)
	return nil
}

func (r *farmRepo) List(ctx context.Context) ([]farms.Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]farms.Farm, 0, len(r.byID))
	for _, f := range r.byID {
		out = append(out, cloneFarm(f))
	}

	// Stable order for dev and tests.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// cloneFarm keeps callers from sharing the staff pointers with the store.
func cloneFarm(f farms.Farm) farms.Farm {
	if f.Inseminator != nil {
		s := *f.Inseminator
		f.Inseminator = &s
	}
	if f.Doctor != nil {
		s := *f.Doctor
		f.Doctor = &s
	}
	return f
}
