package tenancy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/ids"
)

// Service owns the college lifecycle. Mutations are super-admin only and are
// audited; reads used by login-scoped views (the dropdown list) are open to
// any authenticated principal.
type Service struct {
	store Store
	rec   *audit.Recorder
	now   func() time.Time
}

// NewService constructs the college service.
func NewService(store Store, rec *audit.Recorder) *Service {
	return &Service{store: store, rec: rec, now: time.Now}
}

// CollegeInput carries the writable college fields.
type CollegeInput struct {
	Name      string
	ShortCode string
	Address   string
}

// Create registers a new college. Super admin only.
func (s *Service) Create(ctx context.Context, actor auth.Principal, in CollegeInput) (*College, error) {
	if !actor.IsSuperAdmin() {
		return nil, auth.ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	c := &College{
		ID:        ids.New(),
		Name:      in.Name,
		ShortCode: strings.TrimSpace(in.ShortCode),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateCollege(ctx, c); err != nil {
		return nil, err
	}
	s.rec.Record(ctx, actorOf(actor), audit.ActionCreateCollege,
		fmt.Sprintf("Created college: %s (%s)", c.Name, c.ShortCode))
	return c, nil
}

// Update rewrites a college's descriptive fields. Super admin only.
func (s *Service) Update(ctx context.Context, actor auth.Principal, id string, in CollegeInput) (*College, error) {
	if !actor.IsSuperAdmin() {
		return nil, auth.ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	c, err := s.store.GetCollege(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.ShortCode = strings.TrimSpace(in.ShortCode)
	c.Address = strings.TrimSpace(in.Address)
	if err := s.store.UpdateCollege(ctx, c); err != nil {
		return nil, err
	}
	s.rec.Record(ctx, actorOf(actor), audit.ActionUpdateCollege,
		fmt.Sprintf("Updated college: %s", c.Name))
	return c, nil
}

// Delete removes a college. Super admin only. The pre-image name is captured
// for the audit description before the row disappears.
func (s *Service) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if !actor.IsSuperAdmin() {
		return auth.ErrForbidden
	}
	c, err := s.store.GetCollege(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCollege(ctx, id); err != nil {
		return err
	}
	s.rec.Record(ctx, actorOf(actor), audit.ActionDeleteCollege,
		fmt.Sprintf("Deleted college: %s", c.Name))
	return nil
}

// ListRefs returns the id+name pairs for dropdowns. Any session may call it.
func (s *Service) ListRefs(ctx context.Context) ([]Ref, error) {
	return s.store.ListCollegeRefs(ctx)
}

// ListWithStats returns all colleges with rollups. Super admin only.
func (s *Service) ListWithStats(ctx context.Context, actor auth.Principal) ([]WithStats, error) {
	if !actor.IsSuperAdmin() {
		return nil, auth.ErrForbidden
	}
	return s.store.ListCollegesWithStats(ctx)
}

// GetDetails returns the drill-down view of one college. Super admin only.
func (s *Service) GetDetails(ctx context.Context, actor auth.Principal, id string) (*Details, error) {
	if !actor.IsSuperAdmin() {
		return nil, auth.ErrForbidden
	}
	return s.store.CollegeDetails(ctx, id)
}

func actorOf(p auth.Principal) audit.Actor {
	return audit.Actor{ID: p.ID, Role: string(p.Role), Name: p.Username}
}
