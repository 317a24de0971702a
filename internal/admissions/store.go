package admissions

import (
	"context"

	"admitdesk.org/internal/auth"
)

// Store is the tenant-scoped persistence contract for inquiries and fees.
// Every scoped method receives the caller's resolved scope and must apply it
// as a filter predicate; omitting it is a tenant-isolation breach.
type Store interface {
	InsertInquiry(ctx context.Context, inq *Inquiry) error

	// ListInquiries returns inquiries visible in scope, newest first.
	ListInquiries(ctx context.Context, scope auth.Scope) ([]Inquiry, error)

	// GetInquiry fetches by id without scope; callers decide between
	// NotFound and Forbidden from the row's owner.
	GetInquiry(ctx context.Context, id string) (*Inquiry, error)

	// UpdateInquiryStatus performs an atomic conditional update: the scope
	// predicate is part of the UPDATE itself, and the returned pre-image
	// carries the fields needed for the audit description. ErrNotFound if
	// the inquiry does not exist, ErrForbidden if it exists outside scope.
	UpdateInquiryStatus(ctx context.Context, scope auth.Scope, id string, status WorkflowStatus, notes string) (*Inquiry, error)

	// InsertFee validates ownership of fee.InquiryID against scope and
	// inserts within one transaction, returning the owning inquiry.
	InsertFee(ctx context.Context, scope auth.Scope, fee *FeeRecord) (*Inquiry, error)

	// ListFees returns the payments against one inquiry, newest first.
	ListFees(ctx context.Context, inquiryID string) ([]FeeRecord, error)

	StatusCounts(ctx context.Context, scope auth.Scope) (total int, byStatus []StatusCount, err error)
	CollegeCounts(ctx context.Context) ([]CollegeCount, error)
}
