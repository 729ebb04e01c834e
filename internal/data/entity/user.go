package entity

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username    string   `db:"username"`
	Email       string   `db:"email"`
	FirstName   string   `db:"first_name"`
	LastName    string   `db:"last_name"`
	Bio         string   `db:"bio"`
	Role        UserRole `db:"role"`
	IsActive    bool     `db:"is_active"`
	IsStaff     bool     `db:"is_staff"`
	IsSuperuser bool     `db:"is_superuser"`
}

// Normalize derives the privilege flags from the role. Every write path
// calls it right before persisting the user.
func (u *User) Normalize() {
	if !u.Role.Valid() {
		u.Role = RoleUser
	}
	u.IsSuperuser = u.Role == RoleAdmin
	u.IsStaff = u.Role == RoleModerator
}
