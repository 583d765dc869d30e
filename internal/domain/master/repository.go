package master

import (
	"context"
	"time"
)

type MasterRepository interface {
	ListSections(ctx context.Context) ([]Section, error)
	ListLocations(ctx context.Context) ([]Location, error)
	ListGrades(ctx context.Context) ([]Grade, error)
	ListDesignations(ctx context.Context) ([]Designation, error)
	// HolidayOn returns the holiday on day, or ok=false.
	HolidayOn(ctx context.Context, day time.Time) (Holiday, bool, error)
}
