package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks malformed query parameters.
var ErrInvalidInput = errors.New("audit: invalid input")

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Service answers read queries over the activity log.
type Service struct {
	store Store
}

// NewService constructs the query side of the audit log.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]Entry, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Date != "" {
		if _, err := time.Parse("2006-01-02", f.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	return s.store.ListEntries(ctx, f)
}

// Summary returns date x action counts over an optional date range.
func (s *Service) Summary(ctx context.Context, fromDate, toDate string) ([]SummaryRow, error) {
	for _, d := range []string{fromDate, toDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	return s.store.SummarizeEntries(ctx, fromDate, toDate)
}

// ListByActor returns the newest entries attributed to one principal.
func (s *Service) ListByActor(ctx context.Context, actorID string, limit int) ([]Entry, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.ListEntries(ctx, Filter{ActorID: actorID, Limit: limit})
}
