package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert inserts or replaces the row for (employee, work date).
	Upsert(ctx context.Context, r Record) (Record, error)
	ListByEmployee(ctx context.Context, filter ListFilter) ([]Record, error)
	// ListForSection returns rows of the section's employees on day. A nil
	// section means every section.
	ListForSection(ctx context.Context, sectionID *int64, day time.Time) ([]Record, error)
	// CoveringForSection returns non-rejected requests spanning day, one per
	// employee. Leave is preferred over official work.
	CoveringForSection(ctx context.Context, sectionID *int64, day time.Time) ([]Covering, error)
	CountPresent(ctx context.Context, day time.Time) (int, error)
}
