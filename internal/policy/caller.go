package policy

import (
	"review-catalog/internal/data/entity"

	"github.com/google/uuid"
)

// Caller is the identity resolved from the request credentials. The zero
// value is an anonymous caller.
type Caller struct {
	UserID      uuid.UUID
	Username    string
	Role        entity.UserRole
	IsStaff     bool
	IsSuperuser bool
}

func Anonymous() Caller { return Caller{} }

// CallerFromUser builds the caller for an authenticated, active user.
func CallerFromUser(u *entity.User) Caller {
	return Caller{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}

func (c Caller) Authenticated() bool { return c.UserID != uuid.Nil }

// IsAdmin reports admin role or superuser privilege.
func (c Caller) IsAdmin() bool {
	return c.Authenticated() && (c.Role == entity.RoleAdmin || c.IsSuperuser)
}

// IsModerator reports privileges to edit other users' content.
func (c Caller) IsModerator() bool {
	return c.Authenticated() && (c.IsSuperuser || c.IsStaff)
}
