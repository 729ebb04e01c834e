package memstore

import (
	"context"
	"fmt"
	"sort"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type userRepo struct{ s *Store }

func (r *userRepo) uniqueLocked(user *entity.User) error {
	for _, u := range r.s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	return nil
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return fmt.Errorf("create user %s: %w", user.Username, repository.ErrDuplicate)
	}
	if err := r.uniqueLocked(user); err != nil {
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) find(match func(*entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id }), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username }), nil
}

func (r *userRepo) filtered(search string) []*entity.User {
	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if containsFold(u.Username, search) {
			cp := *u
			users = append(users, &cp)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r *userRepo) FindAll(_ context.Context, search string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paginate(r.filtered(search), limit, offset), nil
}

func (r *userRepo) CountAll(_ context.Context, search string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filtered(search))), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return fmt.Errorf("update user %s: %w", user.ID.String(), repository.ErrNotFound)
	}
	if err := r.uniqueLocked(user); err != nil {
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("delete user %s: %w", id.String(), repository.ErrNotFound)
	}
	delete(r.s.users, id)

	for rid, rv := range r.s.reviews {
		if rv.AuthorID == id {
			r.s.deleteReviewLocked(rid)
		}
	}
	for cid, c := range r.s.comments {
		if c.AuthorID == id {
			delete(r.s.comments, cid)
		}
	}
	for codeID, code := range r.s.codes {
		if code.UserID == id {
			delete(r.s.codes, codeID)
		}
	}
	return nil
}
