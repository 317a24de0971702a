// Package profile covers principal self-service: reading and updating one's
// own record, OTP-gated profile edits, and password changes.
package profile

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/tenancy"
)

var ErrInvalidInput = errors.New("profile: invalid input")

// otpTTL is recomputed from issuance on every send, so concurrent requests
// for the same principal serialize to last-write-wins.
const otpTTL = 5 * time.Minute

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// OTPStore persists at most one pending code per principal.
type OTPStore interface {
	UpsertOTP(ctx context.Context, accountID, phone, code string, expiresAt time.Time) error

	// ConsumeOTP atomically deletes a matching unexpired code. It reports
	// false when no such code exists, so a code can never be used twice.
	ConsumeOTP(ctx context.Context, accountID, code string, now time.Time) (bool, error)
}

// SMSSender delivers a message to a phone number. Delivery is an external
// collaborator; implementations live at the process boundary.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// Profile is a principal's own record plus, for admins, the owning college.
type Profile struct {
	auth.Account
	College *tenancy.Ref `json:"college,omitempty"`
}

// Service implements principal self-service.
type Service struct {
	accounts auth.AccountStore
	colleges tenancy.Store
	otps     OTPStore
	sms      SMSSender
	rec      *audit.Recorder
	now      func() time.Time
}

// NewService constructs the profile service.
func NewService(accounts auth.AccountStore, colleges tenancy.Store, otps OTPStore, sms SMSSender, rec *audit.Recorder) *Service {
	return &Service{
		accounts: accounts,
		colleges: colleges,
		otps:     otps,
		sms:      sms,
		rec:      rec,
		now:      time.Now,
	}
}

// Get returns the caller's own profile.
func (s *Service) Get(ctx context.Context, p auth.Principal) (*Profile, error) {
	acct, err := s.accounts.FindByID(ctx, p.Role, p.ID)
	if err != nil {
		return nil, err
	}
	prof := &Profile{Account: *acct}
	prof.PasswordHash = ""
	if p.Role == auth.RoleAdmin && acct.CollegeID != "" {
		college, err := s.colleges.GetCollege(ctx, acct.CollegeID)
		if err == nil {
			prof.College = &tenancy.Ref{ID: college.ID, Name: college.Name}
		}
	}
	return prof, nil
}

// SendOTP issues a fresh 6-digit code for the caller and hands it to the SMS
// gateway. A newer code always replaces the pending one.
func (s *Service) SendOTP(ctx context.Context, p auth.Principal, phone string) error {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: phone must be 10 digits", ErrInvalidInput)
	}
	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.otps.UpsertOTP(ctx, p.ID, phone, code, s.now().UTC().Add(otpTTL)); err != nil {
		return err
	}
	return s.sms.Send(ctx, phone, fmt.Sprintf("Your admitdesk verification code is %s. It expires in 5 minutes.", code))
}

// UpdateRequest carries the OTP-gated profile fields.
type UpdateRequest struct {
	FullName string
	DOB      string
	Phone    string
	PhotoURL string
	OTP      string
}

// Update applies the profile edit after consuming the OTP. A stale, wrong or
// already-used code fails validation.
func (s *Service) Update(ctx context.Context, p auth.Principal, req UpdateRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrInvalidInput)
	}
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return fmt.Errorf("%w: phone must be 10 digits", ErrInvalidInput)
	}
	req.OTP = strings.TrimSpace(req.OTP)
	if req.OTP == "" {
		return fmt.Errorf("%w: otp is required", ErrInvalidInput)
	}

	ok, err := s.otps.ConsumeOTP(ctx, p.ID, req.OTP, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: invalid or expired OTP", ErrInvalidInput)
	}

	upd := auth.ProfileUpdate{
		FullName: req.FullName,
		DOB:      strings.TrimSpace(req.DOB),
		Phone:    req.Phone,
		PhotoURL: strings.TrimSpace(req.PhotoURL),
	}
	if err := s.accounts.UpdateProfile(ctx, p.Role, p.ID, upd); err != nil {
		return err
	}
	s.rec.Record(ctx, actorOf(p), audit.ActionUpdateProfile, "Updated profile information")
	return nil
}

// ChangePassword verifies the old password against the stored hash before
// writing a new bcrypt hash.
func (s *Service) ChangePassword(ctx context.Context, p auth.Principal, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: new password must be at least 8 characters", ErrInvalidInput)
	}
	acct, err := s.accounts.FindByID(ctx, p.Role, p.ID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(acct.PasswordHash, oldPassword); err != nil {
		return auth.ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, p.Role, p.ID, hash); err != nil {
		return err
	}
	s.rec.Record(ctx, actorOf(p), audit.ActionChangePassword, "Changed password")
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func actorOf(p auth.Principal) audit.Actor {
	return audit.Actor{ID: p.ID, Role: string(p.Role), Name: p.Username}
}
