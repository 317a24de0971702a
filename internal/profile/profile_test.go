package profile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/tenancy"
)

type fakeAccounts struct {
	account auth.Account
	updated *auth.ProfileUpdate
	newHash string
}

func (f *fakeAccounts) FindByUsername(context.Context, auth.Role, string) (*auth.Account, error) {
	return nil, auth.ErrNotFound
}

func (f *fakeAccounts) FindByID(_ context.Context, _ auth.Role, id string) (*auth.Account, error) {
	if id != f.account.ID {
		return nil, auth.ErrNotFound
	}
	acct := f.account
	return &acct, nil
}

func (f *fakeAccounts) CreateAdmin(context.Context, *auth.Account) error { return nil }

func (f *fakeAccounts) ListAdmins(context.Context) ([]auth.AdminSummary, error) { return nil, nil }

func (f *fakeAccounts) SetAdminActive(context.Context, string, bool) error { return nil }

func (f *fakeAccounts) DeleteAdmin(context.Context, string) error { return nil }

func (f *fakeAccounts) RecordLogin(context.Context, auth.Role, string, time.Time) error { return nil }

func (f *fakeAccounts) RecordLogout(context.Context, auth.Role, string, time.Time) error { return nil }

func (f *fakeAccounts) UpdateProfile(_ context.Context, _ auth.Role, _ string, upd auth.ProfileUpdate) error {
	f.updated = &upd
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, _ auth.Role, _ string, hash string) error {
	f.newHash = hash
	return nil
}

type fakeColleges struct {
	tenancy.Store
}

func (fakeColleges) GetCollege(_ context.Context, id string) (*tenancy.College, error) {
	return &tenancy.College{ID: id, Name: "Evergreen Institute"}, nil
}

type memOTPs struct {
	mu        sync.Mutex
	accountID string
	code      string
	expiresAt time.Time
}

func (m *memOTPs) UpsertOTP(_ context.Context, accountID, _, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountID = accountID
	m.code = code
	m.expiresAt = expiresAt
	return nil
}

func (m *memOTPs) ConsumeOTP(_ context.Context, accountID, code string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accountID != accountID || m.code != code || m.code == "" || !now.Before(m.expiresAt) {
		return false, nil
	}
	m.accountID, m.code = "", ""
	return true, nil
}

type captureSMS struct {
	phone   string
	message string
}

func (c *captureSMS) Send(_ context.Context, phone, message string) error {
	c.phone = phone
	c.message = message
	return nil
}

type nopAuditStore struct{}

func (nopAuditStore) AppendEntry(context.Context, *audit.Entry) error { return nil }

func (nopAuditStore) ListEntries(context.Context, audit.Filter) ([]audit.Entry, error) {
	return nil, nil
}

func (nopAuditStore) SummarizeEntries(context.Context, string, string) ([]audit.SummaryRow, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *fakeAccounts, *memOTPs, *captureSMS) {
	t.Helper()
	hash, err := auth.HashPassword("orig-secret-1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	accounts := &fakeAccounts{account: auth.Account{
		ID:           "adm_1",
		Username:     "ridge-admin",
		PasswordHash: hash,
		FullName:     "Ridge Admin",
		Role:         auth.RoleAdmin,
		CollegeID:    "col_1",
	}}
	otps := &memOTPs{}
	sms := &captureSMS{}
	svc := NewService(accounts, fakeColleges{}, otps, sms, audit.NewRecorder(nopAuditStore{}))
	return svc, accounts, otps, sms
}

func principal() auth.Principal {
	return auth.Principal{ID: "adm_1", Username: "ridge-admin", Role: auth.RoleAdmin, CollegeID: "col_1"}
}

func TestSendOTPValidatesPhone(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	for _, phone := range []string{"", "12345", "98765-4321", "98765432101"} {
		if err := svc.SendOTP(context.Background(), principal(), phone); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("phone %q: got %v, want ErrInvalidInput", phone, err)
		}
	}
}

func TestSendOTPDeliversSixDigitCode(t *testing.T) {
	svc, _, otps, sms := newTestService(t)
	if err := svc.SendOTP(context.Background(), principal(), "9876543210"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if sms.phone != "9876543210" {
		t.Errorf("sms sent to %q", sms.phone)
	}
	if len(otps.code) != 6 {
		t.Errorf("stored code %q, want 6 digits", otps.code)
	}
	if !strings.Contains(sms.message, otps.code) {
		t.Errorf("message %q does not carry code %q", sms.message, otps.code)
	}
}

func TestUpdateConsumesOTPExactlyOnce(t *testing.T) {
	svc, accounts, otps, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.SendOTP(ctx, principal(), "9876543210"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	req := UpdateRequest{FullName: "Ridge Admin", Phone: "9876543210", OTP: otps.code}

	if err := svc.Update(ctx, principal(), req); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if accounts.updated == nil || accounts.updated.Phone != "9876543210" {
		t.Fatalf("profile update not applied: %+v", accounts.updated)
	}

	// The same code must not work a second time.
	if err := svc.Update(ctx, principal(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("second update: got %v, want ErrInvalidInput", err)
	}
}

func TestUpdateRejectsWrongOTP(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.SendOTP(ctx, principal(), "9876543210"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	err := svc.Update(ctx, principal(), UpdateRequest{FullName: "Ridge Admin", OTP: "000000"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestUpdateRejectsExpiredOTP(t *testing.T) {
	svc, _, otps, _ := newTestService(t)
	ctx := context.Background()
	if err := svc.SendOTP(ctx, principal(), "9876543210"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	err := svc.Update(ctx, principal(), UpdateRequest{FullName: "Ridge Admin", OTP: otps.code})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestChangePasswordVerifiesOldPassword(t *testing.T) {
	svc, accounts, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, principal(), "wrong-password", "next-secret-1")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: got %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(ctx, principal(), "orig-secret-1", "next-secret-1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if accounts.newHash == "" {
		t.Fatal("password hash not updated")
	}
	if err := auth.VerifyPassword(accounts.newHash, "next-secret-1"); err != nil {
		t.Errorf("new hash does not verify: %v", err)
	}
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	err := svc.ChangePassword(context.Background(), principal(), "orig-secret-1", "short")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}
