package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/ids"
)

// Service verifies credentials, issues session tokens and manages admin
// accounts. All mutations emit audit entries through the non-blocking
// recorder; a failed audit write never fails the operation.
type Service struct {
	accounts AccountStore
	rec      *audit.Recorder
	tokenTTL time.Duration
	now      func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithTokenTTL overrides the session token validity window.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the credential and session component.
func NewService(accounts AccountStore, rec *audit.Recorder, opts ...ServiceOption) *Service {
	svc := &Service{
		accounts: accounts,
		rec:      rec,
		tokenTTL: DefaultSessionTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// LoginResult is the issued session plus the principal summary returned to
// the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
	PhotoURL  string
}

// Login authenticates username/password within the storage class implied by
// claimedRole. Unknown username and password mismatch are indistinguishable.
func (s *Service) Login(ctx context.Context, username, password, claimedRole string) (LoginResult, error) {
	role, ok := ParseRole(claimedRole)
	if !ok {
		return LoginResult{}, fmt.Errorf("%w: unknown role", ErrInvalidInput)
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	acct, err := s.accounts.FindByUsername(ctx, role, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	// A deactivated admin is blocked before the password check so the
	// outcome does not depend on credential correctness.
	if role == RoleAdmin && !acct.Active {
		return LoginResult{}, ErrAccountDeactivated
	}

	if err := VerifyPassword(acct.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := s.accounts.RecordLogin(ctx, role, acct.ID, s.now().UTC()); err != nil {
		return LoginResult{}, err
	}

	principal := Principal{
		ID:        acct.ID,
		Username:  acct.Username,
		FullName:  acct.FullName,
		Role:      role,
		CollegeID: acct.CollegeID,
	}

	switch role {
	case RoleSuperAdmin:
		s.rec.Record(ctx, actorOf(principal), audit.ActionLogin, "Super admin logged in")
	default:
		s.rec.Record(ctx, actorOf(principal), audit.ActionLogin,
			fmt.Sprintf("Admin logged in for college %s", acct.CollegeID))
	}

	token, expiresAt, err := GenerateToken(principal, s.tokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: principal,
		PhotoURL:  acct.PhotoURL,
	}, nil
}

// Logout stamps the principal's last logout time. The session token itself
// remains valid until natural expiry.
func (s *Service) Logout(ctx context.Context, p Principal) error {
	if err := s.accounts.RecordLogout(ctx, p.Role, p.ID, s.now().UTC()); err != nil {
		return err
	}
	s.rec.Record(ctx, actorOf(p), audit.ActionLogout, "User logged out")
	return nil
}

// Authenticate resolves a bearer token into its principal. Validity is
// purely cryptographic and expiry-based; there is no revocation list.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	return ParseAndValidate(token)
}

// CreateAdminRequest carries the fields for a new college admin account.
type CreateAdminRequest struct {
	Username  string
	Password  string
	CollegeID string
	FullName  string
}

// CreateAdmin provisions a college admin account. Super admin only.
func (s *Service) CreateAdmin(ctx context.Context, actor Principal, req CreateAdminRequest) (*Account, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	req.Username = strings.TrimSpace(req.Username)
	req.CollegeID = strings.TrimSpace(req.CollegeID)
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if req.CollegeID == "" {
		return nil, fmt.Errorf("%w: college_id is required", ErrInvalidInput)
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = req.Username
	}
	acct := &Account{
		ID:           ids.New(),
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         RoleAdmin,
		CollegeID:    req.CollegeID,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.CreateAdmin(ctx, acct); err != nil {
		return nil, err
	}
	s.rec.Record(ctx, actorOf(actor), audit.ActionCreateUser,
		fmt.Sprintf("Created admin user: %s (%s)", acct.Username, acct.ID))
	return acct, nil
}

// ListAdmins returns every college admin joined with its college name.
// Super admin only.
func (s *Service) ListAdmins(ctx context.Context, actor Principal) ([]AdminSummary, error) {
	if !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	return s.accounts.ListAdmins(ctx)
}

// SetAdminActive toggles the soft-deactivation flag on an admin account.
// A deactivated account is unconditionally blocked from logging in.
func (s *Service) SetAdminActive(ctx context.Context, actor Principal, id string, active bool) error {
	if !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	acct, err := s.accounts.FindByID(ctx, RoleAdmin, id)
	if err != nil {
		return err
	}
	if err := s.accounts.SetAdminActive(ctx, id, active); err != nil {
		return err
	}
	verb := "Deactivated"
	if active {
		verb = "Activated"
	}
	s.rec.Record(ctx, actorOf(actor), audit.ActionToggleUserStatus,
		fmt.Sprintf("%s admin user: %s (%s)", verb, acct.Username, acct.ID))
	return nil
}

// DeleteAdmin hard-deletes an admin account. Super admin only.
func (s *Service) DeleteAdmin(ctx context.Context, actor Principal, id string) error {
	if !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	acct, err := s.accounts.FindByID(ctx, RoleAdmin, id)
	if err != nil {
		return err
	}
	if err := s.accounts.DeleteAdmin(ctx, id); err != nil {
		return err
	}
	s.rec.Record(ctx, actorOf(actor), audit.ActionDeleteUser,
		fmt.Sprintf("Deleted admin user: %s (%s)", acct.Username, acct.ID))
	return nil
}

func actorOf(p Principal) audit.Actor {
	return audit.Actor{ID: p.ID, Role: string(p.Role), Name: p.Username}
}
