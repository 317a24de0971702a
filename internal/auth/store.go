package auth

import (
	"context"
	"time"
)

// ProfileUpdate carries the self-service profile fields. Empty DOB and
// PhotoURL are stored as absent, not as empty strings.
type ProfileUpdate struct {
	FullName string
	DOB      string
	Phone    string
	PhotoURL string
}

// AccountStore persists the two disjoint principal storage classes. The role
// argument selects the class; implementations must never answer a lookup for
// one role from the other's records.
type AccountStore interface {
	FindByUsername(ctx context.Context, role Role, username string) (*Account, error)
	FindByID(ctx context.Context, role Role, id string) (*Account, error)

	CreateAdmin(ctx context.Context, acct *Account) error
	ListAdmins(ctx context.Context) ([]AdminSummary, error)
	SetAdminActive(ctx context.Context, id string, active bool) error
	DeleteAdmin(ctx context.Context, id string) error

	RecordLogin(ctx context.Context, role Role, id string, at time.Time) error
	RecordLogout(ctx context.Context, role Role, id string, at time.Time) error

	UpdateProfile(ctx context.Context, role Role, id string, upd ProfileUpdate) error
	UpdatePassword(ctx context.Context, role Role, id string, passwordHash string) error
}
