package models

// Role is the privilege level of an authenticated identity.
type Role int

const (
	// RoleUnknown is used whenever the role could not be determined.
	// It is never authorized for anything privileged.
	RoleUnknown Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// RoleFromProfile maps the stored admin flag onto a Role.
func RoleFromProfile(p *UserProfile) Role {
	if p == nil {
		return RoleUnknown
	}
	if p.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the caller of an operation, resolved once per request.
type Identity struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      Role   `json:"-"`
	SessionID string `json:"-"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
