package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu         sync.RWMutex
	users      map[string]User
	byExternal map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:      make(map[string]User),
		byExternal: make(map[string]string),
	}
}

func (r *MemoryRepo) Provision(ctx context.Context, identity Identity) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if id, ok := r.byExternal[identity.ExternalID]; ok {
		user := r.users[id]
		user.Email = identity.Email
		user.FullName = identity.FullName
		user.PictureURL = identity.PictureURL
		user.UpdatedAt = now
		r.users[id] = user
		return cloneUser(user), nil
	}

	user := User{
		ID:         uuid.NewString(),
		ExternalID: identity.ExternalID,
		Email:      identity.Email,
		FullName:   identity.FullName,
		PictureURL: identity.PictureURL,
		Skills:     []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.users[user.ID] = user
	r.byExternal[identity.ExternalID] = user.ID
	return cloneUser(user), nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryRepo) GetByExternalID(ctx context.Context, externalID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byExternal[externalID]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *MemoryRepo) UpdateProfile(ctx context.Context, userID string, profile Profile) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	user.Industry = profile.Industry
	user.Experience = profile.Experience
	user.Skills = append([]string(nil), profile.Skills...)
	user.Bio = profile.Bio
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return cloneUser(user), nil
}

func cloneUser(u User) User {
	u.Skills = append([]string{}, u.Skills...)
	return u
}
