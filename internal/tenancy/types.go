// Package tenancy manages colleges, the unit of data isolation for admin
// principals. Colleges are created, updated and deleted by super admins only.
package tenancy

import (
	"errors"
	"time"

	"admitdesk.org/internal/admissions"
	"admitdesk.org/internal/audit"
)

var (
	ErrNotFound     = errors.New("tenancy: not found")
	ErrInvalidInput = errors.New("tenancy: invalid input")
)

// College is a tenant. It owns zero or more inquiries and zero or more
// admin accounts.
type College struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortCode string    `json:"short_code,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Ref is the id+name pair used for dropdowns.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Stats is the per-college rollup shown on the super admin listing.
type Stats struct {
	TotalInquiries     int   `json:"total_inquiries"`
	ActiveAdmins       int   `json:"active_admins"`
	TotalFeesCollected int64 `json:"total_fees_collected"`
}

// WithStats pairs a college with its rollup.
type WithStats struct {
	College
	Stats Stats `json:"stats"`
}

// FeeTotals summarizes payments across a college's inquiries.
type FeeTotals struct {
	TotalCollected int64 `json:"total_collected"`
	PaidStudents   int   `json:"paid_students"`
}

// Details is the drill-down view of one college.
type Details struct {
	College         College                  `json:"college"`
	StatusBreakdown []admissions.StatusCount `json:"status_breakdown"`
	Fees            FeeTotals                `json:"fees"`
	RecentActivity  []audit.Entry            `json:"recent_activity"`
}
