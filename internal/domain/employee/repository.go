package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (WithLabels, error)
	GetByERPID(ctx context.Context, erpID int64) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]WithLabels, error)
	Update(ctx context.Context, e Employee) error
	Delete(ctx context.Context, id int64) error
	CountActive(ctx context.Context) (int, error)
	HRISIDsInUse(ctx context.Context) (map[int]struct{}, error)
}
