// Package memory is an in-process implementation of every persistence
// contract. It backs the test suites and lets the API run without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/tenancy"
)

type otpRecord struct {
	phone     string
	code      string
	expiresAt time.Time
}

// Store holds all records behind one mutex. Cross-entity operations such as
// the conditional status update are atomic by construction.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*auth.Account // both roles, keyed by id
	colleges  map[string]*tenancy.College
	inquiries map[string]*admissions.Inquiry
	fees      map[string][]admissions.FeeRecord // inquiry id -> payments
	entries   []audit.Entry
	otps      map[string]otpRecord // account id -> pending code
}

// New creates an empty store.
func New() *Store {
	return &Store{
		accounts:  make(map[string]*auth.Account),
		colleges:  make(map[string]*tenancy.College),
		inquiries: make(map[string]*admissions.Inquiry),
		fees:      make(map[string][]admissions.FeeRecord),
		otps:      make(map[string]otpRecord),
	}
}

// SeedAccount inserts an account of either role, bypassing the create path.
// Used for bootstrap and tests.
func (s *Store) SeedAccount(acct auth.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = &acct
}

// --- auth.AccountStore ---

func (s *Store) FindByUsername(_ context.Context, role auth.Role, username string) (*auth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acct := range s.accounts {
		if acct.Role == role && strings.EqualFold(acct.Username, username) {
			out := *acct
			return &out, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *Store) FindByID(_ context.Context, role auth.Role, id string) (*auth.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok || acct.Role != role {
		return nil, auth.ErrNotFound
	}
	out := *acct
	return &out, nil
}

func (s *Store) CreateAdmin(_ context.Context, acct *auth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Username, acct.Username) {
			return auth.ErrConflict
		}
	}
	if _, ok := s.colleges[acct.CollegeID]; !ok {
		return tenancy.ErrNotFound
	}
	cp := *acct
	s.accounts[acct.ID] = &cp
	return nil
}

func (s *Store) ListAdmins(_ context.Context) ([]auth.AdminSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]auth.AdminSummary, 0)
	for _, acct := range s.accounts {
		if acct.Role != auth.RoleAdmin {
			continue
		}
		sum := auth.AdminSummary{Account: *acct}
		if c, ok := s.colleges[acct.CollegeID]; ok {
			sum.CollegeName = c.Name
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SetAdminActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok || acct.Role != auth.RoleAdmin {
		return auth.ErrNotFound
	}
	acct.Active = active
	return nil
}

func (s *Store) DeleteAdmin(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok || acct.Role != auth.RoleAdmin {
		return auth.ErrNotFound
	}
	delete(s.accounts, id)
	delete(s.otps, acct.ID)
	return nil
}

func (s *Store) RecordLogin(_ context.Context, role auth.Role, id string, at time.Time) error {
	return s.stamp(role, id, func(acct *auth.Account) { acct.LastLoginAt = &at })
}

func (s *Store) RecordLogout(_ context.Context, role auth.Role, id string, at time.Time) error {
	return s.stamp(role, id, func(acct *auth.Account) { acct.LastLogoutAt = &at })
}

func (s *Store) stamp(role auth.Role, id string, apply func(*auth.Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok || acct.Role != role {
		return auth.ErrNotFound
	}
	apply(acct)
	return nil
}

func (s *Store) UpdateProfile(_ context.Context, role auth.Role, id string, upd auth.ProfileUpdate) error {
	return s.stamp(role, id, func(acct *auth.Account) {
		acct.FullName = upd.FullName
		acct.DOB = upd.DOB
		acct.Phone = upd.Phone
		acct.PhotoURL = upd.PhotoURL
	})
}

func (s *Store) UpdatePassword(_ context.Context, role auth.Role, id string, passwordHash string) error {
	return s.stamp(role, id, func(acct *auth.Account) { acct.PasswordHash = passwordHash })
}

// --- admissions.Store ---

func (s *Store) InsertInquiry(_ context.Context, inq *admissions.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colleges[inq.CollegeID]; !ok {
		return admissions.ErrNotFound
	}
	cp := *inq
	s.inquiries[inq.ID] = &cp
	return nil
}

func (s *Store) ListInquiries(_ context.Context, scope auth.Scope) ([]admissions.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]admissions.Inquiry, 0)
	for _, inq := range s.inquiries {
		if scope.Allows(inq.CollegeID) {
			out = append(out, *inq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetInquiry(_ context.Context, id string) (*admissions.Inquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return nil, admissions.ErrNotFound
	}
	out := *inq
	return &out, nil
}

func (s *Store) UpdateInquiryStatus(_ context.Context, scope auth.Scope, id string, status admissions.WorkflowStatus, notes string) (*admissions.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq, ok := s.inquiries[id]
	if !ok {
		return nil, admissions.ErrNotFound
	}
	if !scope.Allows(inq.CollegeID) {
		return nil, admissions.ErrForbidden
	}
	prev := *inq
	inq.Status = status
	if notes != "" {
		inq.AdminNotes = notes
	}
	return &prev, nil
}

func (s *Store) InsertFee(_ context.Context, scope auth.Scope, fee *admissions.FeeRecord) (*admissions.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inq, ok := s.inquiries[fee.InquiryID]
	if !ok {
		return nil, admissions.ErrNotFound
	}
	if !scope.Allows(inq.CollegeID) {
		return nil, admissions.ErrForbidden
	}
	s.fees[fee.InquiryID] = append(s.fees[fee.InquiryID], *fee)
	out := *inq
	return &out, nil
}

func (s *Store) ListFees(_ context.Context, inquiryID string) ([]admissions.FeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]admissions.FeeRecord, len(s.fees[inquiryID]))
	copy(out, s.fees[inquiryID])
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (s *Store) StatusCounts(_ context.Context, scope auth.Scope) (int, []admissions.StatusCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	buckets := make(map[admissions.WorkflowStatus]int)
	for _, inq := range s.inquiries {
		if !scope.Allows(inq.CollegeID) {
			continue
		}
		total++
		buckets[inq.Status]++
	}
	out := make([]admissions.StatusCount, 0, len(buckets))
	for status, n := range buckets {
		out = append(out, admissions.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return total, out, nil
}

func (s *Store) CollegeCounts(_ context.Context) ([]admissions.CollegeCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	buckets := make(map[string]int)
	for _, inq := range s.inquiries {
		buckets[inq.CollegeID]++
	}
	out := make([]admissions.CollegeCount, 0, len(buckets))
	for collegeID, n := range buckets {
		cc := admissions.CollegeCount{CollegeID: collegeID, Count: n}
		if c, ok := s.colleges[collegeID]; ok {
			cc.Name = c.Name
		}
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

// --- tenancy.Store ---

func (s *Store) CreateCollege(_ context.Context, c *tenancy.College) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.colleges[c.ID] = &cp
	return nil
}

func (s *Store) GetCollege(_ context.Context, id string) (*tenancy.College, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.colleges[id]
	if !ok {
		return nil, tenancy.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *Store) UpdateCollege(_ context.Context, c *tenancy.College) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.colleges[c.ID]
	if !ok {
		return tenancy.ErrNotFound
	}
	existing.Name = c.Name
	existing.ShortCode = c.ShortCode
	existing.Address = c.Address
	return nil
}

func (s *Store) DeleteCollege(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.colleges[id]; !ok {
		return tenancy.ErrNotFound
	}
	delete(s.colleges, id)
	return nil
}

func (s *Store) ListCollegeRefs(_ context.Context) ([]tenancy.Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tenancy.Ref, 0, len(s.colleges))
	for _, c := range s.colleges {
		out = append(out, tenancy.Ref{ID: c.ID, Name: c.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListCollegesWithStats(_ context.Context) ([]tenancy.WithStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tenancy.WithStats, 0, len(s.colleges))
	for _, c := range s.colleges {
		ws := tenancy.WithStats{College: *c}
		for _, inq := range s.inquiries {
			if inq.CollegeID != c.ID {
				continue
			}
			ws.Stats.TotalInquiries++
			for _, fee := range s.fees[inq.ID] {
				ws.Stats.TotalFeesCollected += fee.Amount
			}
		}
		for _, acct := range s.accounts {
			if acct.Role == auth.RoleAdmin && acct.CollegeID == c.ID && acct.Active {
				ws.Stats.ActiveAdmins++
			}
		}
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CollegeDetails(_ context.Context, id string) (*tenancy.Details, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.colleges[id]
	if !ok {
		return nil, tenancy.ErrNotFound
	}
	det := &tenancy.Details{College: *c}
	buckets := make(map[admissions.WorkflowStatus]int)
	for _, inq := range s.inquiries {
		if inq.CollegeID != id {
			continue
		}
		buckets[inq.Status]++
		paid := false
		for _, fee := range s.fees[inq.ID] {
			det.Fees.TotalCollected += fee.Amount
			paid = true
		}
		if paid {
			det.Fees.PaidStudents++
		}
	}
	for status, n := range buckets {
		det.StatusBreakdown = append(det.StatusBreakdown, admissions.StatusCount{Status: status, Count: n})
	}
	sort.Slice(det.StatusBreakdown, func(i, j int) bool {
		return det.StatusBreakdown[i].Status < det.StatusBreakdown[j].Status
	})

	// Recent activity of this college's admins, newest first.
	admins := make(map[string]bool)
	for _, acct := range s.accounts {
		if acct.Role == auth.RoleAdmin && acct.CollegeID == id {
			admins[acct.ID] = true
		}
	}
	for i := len(s.entries) - 1; i >= 0 && len(det.RecentActivity) < 10; i-- {
		if admins[s.entries[i].ActorID] {
			det.RecentActivity = append(det.RecentActivity, s.entries[i])
		}
	}
	return det, nil
}

// --- audit.Store ---

func (s *Store) AppendEntry(_ context.Context, entry *audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *Store) ListEntries(_ context.Context, f audit.Filter) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Entry, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if f.Date != "" && e.CreatedAt.UTC().Format("2006-01-02") != f.Date {
			continue
		}
		if f.ActorID != "" && e.ActorID != f.ActorID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) SummarizeEntries(_ context.Context, fromDate, toDate string) ([]audit.SummaryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type key struct {
		date   string
		action audit.Action
	}
	buckets := make(map[key]int)
	for _, e := range s.entries {
		date := e.CreatedAt.UTC().Format("2006-01-02")
		if fromDate != "" && date < fromDate {
			continue
		}
		if toDate != "" && date > toDate {
			continue
		}
		buckets[key{date, e.Action}]++
	}
	out := make([]audit.SummaryRow, 0, len(buckets))
	for k, n := range buckets {
		out = append(out, audit.SummaryRow{Date: k.date, Action: k.action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Action < out[j].Action
	})
	return out, nil
}

// --- profile.OTPStore ---

func (s *Store) UpsertOTP(_ context.Context, accountID, phone, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[accountID] = otpRecord{phone: phone, code: code, expiresAt: expiresAt}
	return nil
}

func (s *Store) ConsumeOTP(_ context.Context, accountID, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.otps[accountID]
	if !ok || rec.code != code || !now.Before(rec.expiresAt) {
		return false, nil
	}
	delete(s.otps, accountID)
	return true, nil
}
