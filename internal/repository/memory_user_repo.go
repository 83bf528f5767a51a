package repository

import (
	"context"
	"sync"
	"time"

	"loan_predictor/internal/model"
)

type memoryUserRepository struct {
	mu              sync.Mutex
	nextID          int64
	byUsername      map[string]*model.User
	byAccountNumber map[string]*model.User
}

// NewMemoryUserRepository creates a UserRepository that keeps users in process memory.
// It is meant for local development and tests; data is lost on restart.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byUsername:      make(map[string]*model.User),
		byAccountNumber: make(map[string]*model.User),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return ErrDuplicateUsername
	}
	if _, exists := r.byAccountNumber[user.AccountNumber]; exists {
		return ErrDuplicateAccountNumber
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()

	stored := *user
	r.byUsername[stored.Username] = &stored
	r.byAccountNumber[stored.AccountNumber] = &stored
	return nil
}

func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *memoryUserRepository) Ping(ctx context.Context) error {
	return nil
}
