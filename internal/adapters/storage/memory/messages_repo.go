package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"dairy-herd-manager/internal/domain/messaging"
)

type messageRepo struct {
	mu   sync.RWMutex
	byID map[string]messaging.Message
	ord  []string
}

func NewMessageRepo() messaging.Repository {
	return &messageRepo{
		byID: make(map[string]messaging.Message),
	}
}

func (r *messageRepo) Append(ctx context.Context, m messaging.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("message id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("message already exists")
	}
	r.byID[m.ID] = m
	r.ord = append(r.ord, m.ID)
	return nil
}

func (r *messageRepo) Finalize(ctx context.Context, id string, status messaging.Status, errText, providerRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return errors.New("message not found")
	}
	if m.Status != messaging.StatusPending {
		return errors.New("message already finalized")
	}
	m.Status = status
	m.Error = errText
	m.ProviderRef = providerRef
	r.byID[id] = m
	return nil
}

func (r *messageRepo) HasSentToday(ctx context.Context, farmID, cowID string, t messaging.MessageType, day time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	y, mo, d := day.UTC().Date()
	for _, m := range r.byID {
		if m.FarmID != farmID || m.CowID != cowID || m.Type != t || m.Status != messaging.StatusSent {
			continue
		}
		my, mmo, md := m.SentAt.UTC().Date()
		if my == y && mmo == mo && md == d {
			return true, nil
		}
	}
	return false, nil
}

func (r *messageRepo) HasSentSince(ctx context.Context, farmID, cowID string, t messaging.MessageType, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.byID {
		if m.FarmID != farmID || m.CowID != cowID || m.Type != t || m.Status != messaging.StatusSent {
			continue
		}
		if !m.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *messageRepo) ListByFarm(ctx context.Context, farmID string, limit int) ([]messaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(limit, func(m messaging.Message) bool {
		return m.FarmID == farmID
	}), nil
}

func (r *messageRepo) ListByCow(ctx context.Context, farmID, cowID string, limit int) ([]messaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(limit, func(m messaging.Message) bool {
		return m.FarmID == farmID && m.CowID == cowID
	}), nil
}

func (r *messageRepo) ListFailedSince(ctx context.Context, cutoff time.Time, limit int) ([]messaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(limit, func(m messaging.Message) bool {
		return m.Status == messaging.StatusFailed && !m.SentAt.Before(cutoff)
	}), nil
}

func (r *messageRepo) HasResend(ctx context.Context, originalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.byID {
		if m.ResendOf == originalID {
			return true, nil
		}
	}
	return false, nil
}

// filter walks newest first. Callers hold the read lock.
func (r *messageRepo) filter(limit int, keep func(messaging.Message) bool) []messaging.Message {
	out := make([]messaging.Message, 0)
	for i := len(r.ord) - 1; i >= 0; i-- {
		m := r.byID[r.ord[i]]
		if !keep(m) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
