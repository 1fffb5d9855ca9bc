package plans

import (
	"context"
	"sort"
	"sync"

	"github.com/rechargex/rechargex/internal/operator"
)

type memoryRepository struct {
	mu    sync.RWMutex
	plans []Plan
}

// NewMemoryRepository builds an in-memory plan store for tests and local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) ListByOperator(_ context.Context, op operator.Operator) ([]Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Plan
	for _, p := range r.plans {
		if p.Operator == op && p.IsActive {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r *memoryRepository) ListAll(_ context.Context) ([]Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Plan(nil), r.plans...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Operator != out[j].Operator {
			return out[i].Operator < out[j].Operator
		}
		return out[i].Price < out[j].Price
	})
	return out, nil
}

func (r *memoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.plans)), nil
}

func (r *memoryRepository) InsertMany(_ context.Context, plans []Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans = append(r.plans, plans...)
	return nil
}

func (r *memoryRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.plans))
	r.plans = nil
	return n, nil
}
