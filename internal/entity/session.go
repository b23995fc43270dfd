package entity

import "time"

// Session is the explicit credential object handed to every flow: who is
// calling, with which role, and the token forwarded to the backend.
type Session struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Token  string `json:"-"`

	// IssuedAt is the token's iat claim; zero when the token has none.
	IssuedAt time.Time `json:"-"`
}

func (s Session) Can(permission string) bool {
	return HasPermission(s.Role, permission)
}

func (s Session) Permissions() []string {
	return GetPermissionsByRole(s.Role)
}
