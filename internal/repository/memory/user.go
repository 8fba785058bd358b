package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mpetrov/user-service/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in process memory. Contents are lost on
// restart. Email uniqueness is intentionally not enforced here; only the
// postgres store carries the constraint.
type UserRepository struct {
	mu     sync.RWMutex
	users  []model.User
	nextID int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make([]model.User, 0),
		nextID: 1,
	}
}

// List returns users in insertion order.
func (r *UserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, params model.CreateUserParams) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := model.User{
		ID:        r.nextID,
		Name:      params.Name,
		Email:     params.Email,
		Age:       params.Age,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.users = append(r.users, user)

	return user, nil
}

func (r *UserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}
