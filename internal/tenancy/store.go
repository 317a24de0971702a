package tenancy

import "context"

// Store persists colleges and answers the cross-entity rollups the college
// views need.
type Store interface {
	CreateCollege(ctx context.Context, c *College) error
	GetCollege(ctx context.Context, id string) (*College, error)
	UpdateCollege(ctx context.Context, c *College) error
	DeleteCollege(ctx context.Context, id string) error

	ListCollegeRefs(ctx context.Context) ([]Ref, error)
	ListCollegesWithStats(ctx context.Context) ([]WithStats, error)
	CollegeDetails(ctx context.Context, id string) (*Details, error)
}
