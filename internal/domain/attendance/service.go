package attendance

import (
	"context"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
)

type AttendanceService interface {
	Overview(ctx context.Context, id auth.Identity, day time.Time) (OverviewResponse, error)
	List(ctx context.Context, filter ListFilter) ([]RecordResponse, error)
	UpsertShift(ctx context.Context, id auth.Identity, req UpsertShiftRequest) (RecordResponse, error)
}
