// Package admissions holds the inquiry and fee domain: intake, eligibility,
// tenant-scoped reads and writes, and dashboard aggregates.
package admissions

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("admissions: not found")
	ErrForbidden    = errors.New("admissions: forbidden")
	ErrInvalidInput = errors.New("admissions: invalid input")
)

// EligibilityStatus is the fixed verdict of the eligibility evaluation.
// It is immutable once the inquiry is persisted.
type EligibilityStatus string

const (
	Eligible    EligibilityStatus = "ELIGIBLE"
	NotEligible EligibilityStatus = "NOT_ELIGIBLE"
)

// WorkflowStatus tracks an inquiry through the admission pipeline.
type WorkflowStatus string

const (
	StatusNew       WorkflowStatus = "NEW"
	StatusContacted WorkflowStatus = "CONTACTED"
	StatusEnrolled  WorkflowStatus = "ENROLLED"
	StatusRejected  WorkflowStatus = "REJECTED"
	StatusClosed    WorkflowStatus = "CLOSED"
)

var workflowStatuses = map[WorkflowStatus]bool{
	StatusNew:       true,
	StatusContacted: true,
	StatusEnrolled:  true,
	StatusRejected:  true,
	StatusClosed:    true,
}

// ValidWorkflowStatus reports whether s is an admin-assignable status.
func ValidWorkflowStatus(s WorkflowStatus) bool {
	return workflowStatuses[s]
}

// Inquiry is a candidate's admission inquiry, owned by one college.
// CollegeID and Eligibility never change after creation.
type Inquiry struct {
	ID                 string            `json:"id"`
	CollegeID          string            `json:"college_id"`
	CandidateName      string            `json:"candidate_name"`
	CandidateMobile    string            `json:"candidate_mobile,omitempty"`
	CandidateEmail     string            `json:"candidate_email,omitempty"`
	ParentMobile       string            `json:"parent_mobile,omitempty"`
	ResidentialAddress string            `json:"residential_address,omitempty"`
	TwelfthPercentage  *float64          `json:"twelfth_percentage,omitempty"`
	YearOfPassing      int               `json:"year_of_passing,omitempty"`
	TwelfthBoard       string            `json:"twelfth_board,omitempty"`
	Eligibility        EligibilityStatus `json:"eligibility_status"`
	Status             WorkflowStatus    `json:"status"`
	AdminNotes         string            `json:"admin_notes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// FeeRecord is an append-only payment against an inquiry. Amount is in minor
// currency units (paise). Its tenant is inherited from the owning inquiry.
type FeeRecord struct {
	ID             string    `json:"id"`
	InquiryID      string    `json:"inquiry_id"`
	Amount         int64     `json:"amount"`
	PaymentMode    string    `json:"payment_mode"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	Remarks        string    `json:"remarks,omitempty"`
	PaidAt         time.Time `json:"paid_at"`
}

// StatusCount is one status bucket of a dashboard breakdown.
type StatusCount struct {
	Status WorkflowStatus `json:"status"`
	Count  int            `json:"count"`
}

// CollegeCount is the per-college inquiry volume shown to super admins.
type CollegeCount struct {
	CollegeID string `json:"college_id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
}

// DashboardStats is the scope-dependent aggregate view. CollegeBreakdown is
// only populated for globally scoped principals.
type DashboardStats struct {
	TotalInquiries   int            `json:"total_inquiries"`
	StatusBreakdown  []StatusCount  `json:"status_breakdown"`
	CollegeBreakdown []CollegeCount `json:"college_breakdown,omitempty"`
}
