package memstore

import (
	"context"
	"fmt"

	"review-catalog/internal/data/entity"
	"review-catalog/internal/data/repository"

	"github.com/google/uuid"
)

type confirmationRepo struct{ s *Store }

func (r *confirmationRepo) Create(_ context.Context, code *entity.ConfirmationCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[code.UserID]; !ok {
		return fmt.Errorf("create confirmation code: user %s does not exist", code.UserID.String())
	}

	cp := *code
	r.s.codes[code.ID] = &cp
	return nil
}

func (r *confirmationRepo) FindLatestUnused(_ context.Context, userID uuid.UUID, email string) (*entity.ConfirmationCode, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *entity.ConfirmationCode
	for _, c := range r.s.codes {
		if c.UserID != userID || c.Email != email || c.IsUsed {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}

	cp := *latest
	return &cp, nil
}

func (r *confirmationRepo) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.codes[id]
	if !ok || c.IsUsed {
		return fmt.Errorf("mark confirmation code %s as used: %w", id.String(), repository.ErrNotFound)
	}
	c.IsUsed = true
	return nil
}

func (r *confirmationRepo) InvalidateForUser(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.codes {
		if c.UserID == userID {
			c.IsUsed = true
		}
	}
	return nil
}
