package repository

import (
	"sync"
	"time"

	"github.com/memberbase/member-registry/internal/domain"
)

type MemoryUserRepository struct {
	mu     sync.Mutex
	users  map[uint]domain.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]domain.User),
		nextID: 1,
	}
}

func (r *MemoryUserRepository) FindByID(id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByUsername(username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return ErrDuplicateUser
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}
