package identity

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for tests and local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return ErrUserExists
	}
	if r.conflicts(user) {
		return ErrUserExists
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryRepository) Update(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; !exists {
		return ErrUserNotFound
	}
	if r.conflicts(user) {
		return ErrUserExists
	}
	r.users[user.ID] = user
	return nil
}

// conflicts reports whether another user already holds one of user's natural keys.
func (r *memoryRepository) conflicts(user User) bool {
	for id, existing := range r.users {
		if id == user.ID {
			continue
		}
		if user.Mobile != "" && existing.Mobile == user.Mobile {
			return true
		}
		if user.Email != "" && existing.Email == user.Email {
			return true
		}
		if user.FirebaseUID != "" && existing.FirebaseUID == user.FirebaseUID {
			return true
		}
	}
	return false
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByMobile(_ context.Context, mobile string) (User, error) {
	if mobile == "" {
		return User{}, ErrUserNotFound
	}
	return r.find(func(u User) bool { return u.Mobile == mobile })
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, ErrUserNotFound
	}
	return r.find(func(u User) bool { return u.Email == email })
}

func (r *memoryRepository) FindByFirebaseUID(_ context.Context, uid string) (User, error) {
	if uid == "" {
		return User{}, ErrUserNotFound
	}
	return r.find(func(u User) bool { return u.FirebaseUID == uid })
}

func (r *memoryRepository) find(match func(User) bool) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if match(user) {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}
