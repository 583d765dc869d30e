package employee

import (
	"context"
	"time"
)

type EmployeeService interface {
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeResponse, error)
	Options(ctx context.Context, filter EmployeeFilter) ([]Option, error)
	Summary(ctx context.Context, day time.Time) (SummaryResponse, error)
	Get(ctx context.Context, id int64) (EmployeeResponse, error)
	Create(ctx context.Context, req UpsertEmployeeRequest) (EmployeeResponse, error)
	// Replace overwrites every field of the employee.
	Replace(ctx context.Context, id int64, req UpsertEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id int64) error
}
