package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, kind Kind, id int64) (View, error)
	// ListBySection returns requests raised by active employees of a section,
	// newest first. A nil section means every section.
	ListBySection(ctx context.Context, kind Kind, sectionID *int64, filter ListFilter) ([]View, error)
	// Decide moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	Decide(ctx context.Context, kind Kind, id int64, status Status, decidedBy int64, decidedAt time.Time) error
	// ListApprovedInRange returns approved leave overlapping [from, to] for a section.
	ListApprovedInRange(ctx context.Context, filter ReportFilter) ([]View, error)
}
