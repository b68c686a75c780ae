package insights

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Insight
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Insight)}
}

func (r *MemoryRepo) Get(ctx context.Context, industry string) (Insight, error) {
	if err := ctx.Err(); err != nil {
		return Insight{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.items[industry]
	if !ok {
		return Insight{}, ErrNotFound
	}
	return in, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, insight Insight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[insight.Industry] = insight
	return nil
}
