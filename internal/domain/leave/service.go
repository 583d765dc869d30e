package leave

import (
	"context"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
)

type LeaveService interface {
	Create(ctx context.Context, id auth.Identity, kind Kind, req CreateRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, id auth.Identity, kind Kind, filter ListFilter) ([]LeaveRequestResponse, error)
	Decide(ctx context.Context, id auth.Identity, kind Kind, req DecideRequest) (LeaveRequestResponse, error)
	Report(ctx context.Context, id auth.Identity, filter ReportFilter) ([]ReportRow, error)
}
