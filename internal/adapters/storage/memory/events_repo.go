package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"dairy-herd-manager/internal/domain/repro"
)

type eventRepo struct {
	mu   sync.RWMutex
	rows []repro.Event
}

func NewEventRepo() repro.EventRepository {
	return &eventRepo{}
}

func (r *eventRepo) Append(ctx context.Context, e repro.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	r.rows = append(r.rows, e)
	return nil
}

func (r *eventRepo) ListByCow(ctx context.Context, farmID, cowID string, t repro.EventType, limit int) ([]repro.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Append order is record order: walk backwards for newest first.
	out := make([]repro.Event, 0)
	for i := len(r.rows) - 1; i >= 0; i-- {
		e := r.rows[i]
		if e.FarmID != farmID || e.CowID != cowID {
			continue
		}
		if t != "" && e.Type != t {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
