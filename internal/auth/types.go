package auth

import "time"

// Role is the privilege tier of a principal. It is determined by which
// storage class the account record lives in, never by a free-form field.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole maps a wire value onto a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// Account is a stored principal record. CollegeID is set iff Role is ADMIN;
// super administrators are global and carry no tenant reference.
type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	CollegeID    string     `json:"college_id,omitempty"`
	Active       bool       `json:"is_active"`
	Phone        string     `json:"phone,omitempty"`
	DOB          string     `json:"dob,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastLogoutAt *time.Time `json:"last_logout_at,omitempty"`
}

// AdminSummary is an admin account joined with its college name for listings.
type AdminSummary struct {
	Account
	CollegeName string `json:"college_name"`
}

// Principal is the resolved identity attached to an authenticated request.
type Principal struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	CollegeID string `json:"college_id,omitempty"`
}

// IsSuperAdmin reports whether the principal is globally scoped.
func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// Scope derives the tenant visibility for this principal.
func (p Principal) Scope() Scope {
	if p.Role == RoleSuperAdmin {
		return Scope{All: true}
	}
	return Scope{CollegeID: p.CollegeID}
}

// Scope is the set of colleges a principal's queries are restricted to:
// either every college (super admin) or exactly one.
type Scope struct {
	All       bool
	CollegeID string
}

// Allows reports whether data owned by collegeID is visible in this scope.
func (s Scope) Allows(collegeID string) bool {
	return s.All || (s.CollegeID != "" && s.CollegeID == collegeID)
}
