package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"dairy-herd-manager/internal/domain/cows"
)

type cowRepo struct {
	mu    sync.RWMutex
	byKey map[string]cows.Cow
}

func NewCowRepo() cows.Repository {
	return &cowRepo{
		byKey: make(map[string]cows.Cow),
	}
}

func cowKey(farmID, id string) string { return farmID + "/" + id }

func (r *cowRepo) Create(ctx context.Context, c cows.Cow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.FarmID) == "" || strings.TrimSpace(c.ID) == "" {
		return errors.New("farm id and cow id required")
	}
	k := cowKey(c.FarmID, c.ID)
	if _, exists := r.byKey[k]; exists {
		return cows.ErrAlreadyExists
	}
	r.byKey[k] = c
	return nil
}

func (r *cowRepo) Get(ctx context.Context, farmID, id string) (cows.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byKey[cowKey(farmID, id)]
	if !ok {
		return cows.Cow{}, cows.ErrNotFound
	}
	return c, nil
}

func (r *cowRepo) Save(ctx context.Context, c cows.Cow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := cowKey(c.FarmID, c.ID)
	cur, ok := r.byKey[k]
	if !ok {
		return cows.ErrNotFound
	}
	if cur.Version != c.Version {
		return cows.ErrVersionConflict
	}
	c.Version++
	r.byKey[k] = c
	return nil
}

func (r *cowRepo) ListByFarm(ctx context.Context, farmID string) ([]cows.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cows.Cow, 0)
	for _, c := range r.byKey {
		if c.FarmID == farmID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cowRepo) ListActive(ctx context.Context) ([]cows.Cow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cows.Cow, 0)
	for _, c := range r.byKey {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return cowKey(out[i].FarmID, out[i].ID) < cowKey(out[j].FarmID, out[j].ID)
	})
	return out, nil
}
