package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationCode is the stored form of a signup code. Only the bcrypt hash
// of the code is persisted.
type ConfirmationCode struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Email     string    `db:"email"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

func (c *ConfirmationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
