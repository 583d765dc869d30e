package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// PresenceCounter counts employees with a check-in on a day.
type PresenceCounter interface {
	CountPresent(ctx context.Context, day time.Time) (int, error)
}

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	presence     PresenceCounter
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, presence PresenceCounter) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		presence:     presence,
	}
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, nil
}

// Options implements employee.EmployeeService. Only active employees are offered.
func (s *EmployeeServiceImpl) Options(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Option, error) {
	active := true
	filter.Active = &active
	employees, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee options: %w", err)
	}

	options := make([]employee.Option, 0, len(employees))
	for _, e := range employees {
		options = append(options, employee.Option{
			Label: fmt.Sprintf("%s (%d)", e.Name, e.ERPID),
			Value: e.Ref,
		})
	}
	return options, nil
}

// Summary implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Summary(ctx context.Context, day time.Time) (employee.SummaryResponse, error) {
	var total, present int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.employeeRepo.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		present, err = s.presence.CountPresent(gctx, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return employee.SummaryResponse{}, fmt.Errorf("failed to build employee summary: %w", err)
	}

	absent := total - present
	if absent < 0 {
		absent = 0
	}
	return employee.SummaryResponse{
		TotalActive:  total,
		PresentToday: present,
		AbsentToday:  absent,
	}, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.UpsertEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	created, err := s.employeeRepo.Create(ctx, req.ToEntity())
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	slog.Info("employee created", "employee_id", created.InternalID, "erp_id", created.ERPID)

	return s.Get(ctx, created.InternalID)
}

// Replace implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Replace(ctx context.Context, id int64, req employee.UpsertEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		return employee.EmployeeResponse{}, err
	}

	e := req.ToEntity()
	e.InternalID = id
	if err := s.employeeRepo.Update(ctx, e); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.Get(ctx, id)
}

// Delete implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("employee deleted", "employee_id", id)
	return nil
}
