package memory

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// UserRepository 用户仓储内存实现
type UserRepository struct {
	s *Store
}

// NewUserRepository 创建用户仓储
func NewUserRepository(s *Store) user.Repository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	defer r.s.lock(ctx)()

	if err := r.checkUnique(u); err != nil {
		return err
	}
	r.s.state.nextUserID++
	u.ID = r.s.state.nextUserID
	r.s.state.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	defer r.s.lock(ctx)()

	u, ok := r.s.state.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	defer r.s.lock(ctx)()

	for _, u := range r.s.state.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	defer r.s.lock(ctx)()

	if _, ok := r.s.state.users[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if err := r.checkUnique(u); err != nil {
		return err
	}
	r.s.state.users[u.ID] = *u
	return nil
}

// checkUnique 调用方已持锁
func (r *UserRepository) checkUnique(u *user.User) error {
	for id, existing := range r.s.state.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
		if existing.Username == u.Username {
			return apperrors.ErrUsernameDuplicate
		}
	}
	return nil
}
