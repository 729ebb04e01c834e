package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_Normalize(t *testing.T) {
	tests := []struct {
		role      UserRole
		wantRole  UserRole
		superuser bool
		staff     bool
	}{
		{RoleAdmin, RoleAdmin, true, false},
		{RoleModerator, RoleModerator, false, true},
		{RoleUser, RoleUser, false, false},
		{"", RoleUser, false, false},
		{"overlord", RoleUser, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			u := &User{Role: tt.role, IsSuperuser: !tt.superuser, IsStaff: !tt.staff}
			u.Normalize()
			assert.Equal(t, tt.wantRole, u.Role)
			assert.Equal(t, tt.superuser, u.IsSuperuser)
			assert.Equal(t, tt.staff, u.IsStaff)
		})
	}
}
