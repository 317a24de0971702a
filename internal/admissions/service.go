package admissions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"admitdesk.org/internal/audit"
	"admitdesk.org/internal/auth"
	"admitdesk.org/internal/ids"
)

// Service enforces tenant scope on every inquiry and fee operation and emits
// audit entries for mutations at this command boundary, so no transport
// handler can forget them.
type Service struct {
	store Store
	rec   *audit.Recorder
	now   func() time.Time
}

// NewService constructs the admissions service.
func NewService(store Store, rec *audit.Recorder) *Service {
	return &Service{store: store, rec: rec, now: time.Now}
}

// SubmitRequest is a public inquiry submission.
type SubmitRequest struct {
	CollegeID          string
	CandidateName      string
	CandidateMobile    string
	CandidateEmail     string
	ParentMobile       string
	ResidentialAddress string
	TwelfthPercentage  *float64
	YearOfPassing      int
	TwelfthBoard       string
}

// Submit evaluates eligibility once and persists the inquiry regardless of
// the verdict; a rejected inquiry is retained, not discarded.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Inquiry, error) {
	req.CollegeID = strings.TrimSpace(req.CollegeID)
	req.CandidateName = strings.TrimSpace(req.CandidateName)
	if req.CollegeID == "" {
		return nil, fmt.Errorf("%w: college_id is required", ErrInvalidInput)
	}
	if req.CandidateName == "" {
		return nil, fmt.Errorf("%w: candidate_name is required", ErrInvalidInput)
	}

	eligibility, status := Evaluate(req.TwelfthPercentage)
	inq := &Inquiry{
		ID:                 ids.New(),
		CollegeID:          req.CollegeID,
		CandidateName:      req.CandidateName,
		CandidateMobile:    strings.TrimSpace(req.CandidateMobile),
		CandidateEmail:     strings.TrimSpace(strings.ToLower(req.CandidateEmail)),
		ParentMobile:       strings.TrimSpace(req.ParentMobile),
		ResidentialAddress: strings.TrimSpace(req.ResidentialAddress),
		TwelfthPercentage:  req.TwelfthPercentage,
		YearOfPassing:      req.YearOfPassing,
		TwelfthBoard:       strings.TrimSpace(req.TwelfthBoard),
		Eligibility:        eligibility,
		Status:             status,
		CreatedAt:          s.now().UTC(),
	}
	if err := s.store.InsertInquiry(ctx, inq); err != nil {
		return nil, err
	}
	return inq, nil
}

// List returns the inquiries visible to the principal, newest first. An
// admin scoped to a college with no inquiries gets an empty list, not an
// authorization failure.
func (s *Service) List(ctx context.Context, p auth.Principal) ([]Inquiry, error) {
	return s.store.ListInquiries(ctx, p.Scope())
}

// Get returns one inquiry. A row owned by another college is Forbidden, a
// missing row NotFound.
func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (*Inquiry, error) {
	inq, err := s.store.GetInquiry(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Scope().Allows(inq.CollegeID) {
		return nil, ErrForbidden
	}
	return inq, nil
}

// UpdateStatus moves an inquiry through the workflow. The scope check and
// the write are one atomic statement, so two concurrent updates cannot
// interleave a stale read between them.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, id string, status WorkflowStatus, notes string) error {
	if !ValidWorkflowStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	pre, err := s.store.UpdateInquiryStatus(ctx, p.Scope(), id, status, notes)
	if err != nil {
		return err
	}
	s.rec.Record(ctx, actorOf(p), audit.ActionUpdateInquiry,
		fmt.Sprintf("Updated inquiry %s (%s) status to %s", id, pre.CandidateName, status))
	return nil
}

// RecordFeeRequest is a fee collection against an inquiry.
type RecordFeeRequest struct {
	Amount         int64
	PaymentMode    string
	TransactionRef string
	Remarks        string
}

// RecordFee appends a payment. Ownership is re-validated against the
// inquiry's college, not only the principal's; mismatch is Forbidden.
// Fee recording is not idempotent: a retried submission creates a second row.
func (s *Service) RecordFee(ctx context.Context, p auth.Principal, inquiryID string, req RecordFeeRequest) (*FeeRecord, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	mode := strings.TrimSpace(req.PaymentMode)
	if mode == "" {
		return nil, fmt.Errorf("%w: payment_mode is required", ErrInvalidInput)
	}
	fee := &FeeRecord{
		ID:             ids.New(),
		InquiryID:      inquiryID,
		Amount:         req.Amount,
		PaymentMode:    mode,
		TransactionRef: strings.TrimSpace(req.TransactionRef),
		Remarks:        strings.TrimSpace(req.Remarks),
		PaidAt:         s.now().UTC(),
	}
	inq, err := s.store.InsertFee(ctx, p.Scope(), fee)
	if err != nil {
		return nil, err
	}
	s.rec.Record(ctx, actorOf(p), audit.ActionCollectFee,
		fmt.Sprintf("Collected fee of %d from candidate %s (inquiry %s)", fee.Amount, inq.CandidateName, inquiryID))
	return fee, nil
}

// ListFees returns the payments against one inquiry, scope-checked through
// the owning inquiry.
func (s *Service) ListFees(ctx context.Context, p auth.Principal, inquiryID string) ([]FeeRecord, error) {
	inq, err := s.store.GetInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if !p.Scope().Allows(inq.CollegeID) {
		return nil, ErrForbidden
	}
	return s.store.ListFees(ctx, inquiryID)
}

// DashboardStats returns the aggregate counts for the principal's scope.
// Super admins additionally get the per-college breakdown.
func (s *Service) DashboardStats(ctx context.Context, p auth.Principal) (*DashboardStats, error) {
	scope := p.Scope()
	total, byStatus, err := s.store.StatusCounts(ctx, scope)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{TotalInquiries: total, StatusBreakdown: byStatus}
	if scope.All {
		byCollege, err := s.store.CollegeCounts(ctx)
		if err != nil {
			return nil, err
		}
		stats.CollegeBreakdown = byCollege
	}
	return stats, nil
}

func actorOf(p auth.Principal) audit.Actor {
	return audit.Actor{ID: p.ID, Role: string(p.Role), Name: p.Username}
}
