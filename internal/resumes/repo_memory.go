package resumes

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Resume)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, userID, content string, score int, feedback string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	res, ok := r.byUser[userID]
	if !ok {
		res = Resume{ID: uuid.NewString(), UserID: userID, CreatedAt: now}
	}
	res.Content = content
	res.ATSScore = score
	res.Feedback = feedback
	res.UpdatedAt = now
	r.byUser[userID] = res
	return res, nil
}

func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byUser[userID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// Count returns the number of stored resumes.
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
