package sim

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu   sync.Mutex
	sims map[string]Sim
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{sims: make(map[string]Sim)}
}

func (r *memoryRepository) EnsurePrimary(_ context.Context, sim Sim) (Sim, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var byNumber *Sim
	for _, existing := range r.sims {
		if existing.UserID != sim.UserID {
			continue
		}
		if existing.IsPrimary {
			return existing, false, nil
		}
		if existing.MobileNumber == sim.MobileNumber {
			e := existing
			byNumber = &e
		}
	}
	if byNumber != nil {
		return *byNumber, false, nil
	}
	sim.IsPrimary = true
	sim.IsActive = true
	r.sims[sim.ID] = sim
	return sim, true, nil
}

func (r *memoryRepository) ListActive(_ context.Context, userID string) ([]Sim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sims []Sim
	for _, s := range r.sims {
		if s.UserID == userID && s.IsActive {
			sims = append(sims, s)
		}
	}
	sort.Slice(sims, func(i, j int) bool {
		if sims[i].IsPrimary != sims[j].IsPrimary {
			return sims[i].IsPrimary
		}
		return sims[i].CreatedAt.Before(sims[j].CreatedAt)
	})
	return sims, nil
}

func (r *memoryRepository) FindOwned(_ context.Context, id, userID string) (Sim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sims[id]
	if !ok || s.UserID != userID {
		return Sim{}, ErrSimNotFound
	}
	return s, nil
}
