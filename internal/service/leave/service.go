package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

// DecisionRecorder counts workflow outcomes.
type DecisionRecorder interface {
	ObserveDecision(kind, action string)
	ObserveAutoApproval(kind string)
}

type LeaveServiceImpl struct {
	leaveRepo        leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	recorder         DecisionRecorder
	autoApproveGrade int
	now              func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	recorder DecisionRecorder,
	autoApproveGrade int,
) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveRepo:        leaveRepo,
		employeeRepo:     employeeRepo,
		recorder:         recorder,
		autoApproveGrade: autoApproveGrade,
		now:              time.Now,
	}
}

// callerSection returns the section of the signed-in employee.
func (s *LeaveServiceImpl) callerSection(ctx context.Context, id auth.Identity) (int64, error) {
	if id.Employee.InternalID == 0 {
		return 0, auth.ErrEmployeeNotLinked
	}
	caller, err := s.employeeRepo.GetByID(ctx, id.Employee.InternalID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return 0, auth.ErrEmployeeNotLinked
		}
		return 0, fmt.Errorf("failed to get caller employee: %w", err)
	}
	return caller.SectionID, nil
}

// scope is the section the caller may read. Superusers read every section.
func (s *LeaveServiceImpl) scope(ctx context.Context, id auth.Identity) (*int64, error) {
	if id.IsSuperuser {
		return nil, nil
	}
	section, err := s.callerSection(ctx, id)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// resolve loads the employee behind ref and checks both ids name the same row.
func (s *LeaveServiceImpl) resolve(ctx context.Context, ref employee.Ref) (employee.WithLabels, error) {
	e, err := s.employeeRepo.GetByID(ctx, ref.InternalID)
	if err != nil {
		return employee.WithLabels{}, err
	}
	if e.ERPID != ref.ERPID {
		return employee.WithLabels{}, employee.ErrRefMismatch
	}
	return e, nil
}

func (s *LeaveServiceImpl) autoApproved(id auth.Identity) bool {
	return id.Grade >= s.autoApproveGrade
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, id auth.Identity, kind leave.Kind, req leave.CreateRequest) (leave.LeaveRequestResponse, error) {
	auto := s.autoApproved(id)
	if err := req.Validate(kind, !auto); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	requester, err := s.resolve(ctx, req.Employee)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !id.IsSuperuser {
		section, err := s.callerSection(ctx, id)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		if requester.SectionID != section {
			return leave.LeaveRequestResponse{}, leave.ErrNotInSection
		}
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	newReq := leave.LeaveRequest{
		Kind:      kind,
		Requester: requester.Ref,
		Category:  req.Category,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(req.Reason),
		CreatedBy: id.UserID,
		Status:    leave.StatusPending,
	}
	if kind == leave.KindOfficialWork {
		newReq.Authority = req.Authority
	}

	approverName := ""
	if auto {
		// Senior grades approve their own submissions.
		now := s.now()
		newReq.Approver = id.Employee
		newReq.Status = leave.StatusApproved
		newReq.DecidedBy = &id.UserID
		newReq.DecidedAt = &now
	} else {
		approver, err := s.resolve(ctx, *req.Approver)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		newReq.Approver = approver.Ref
		approverName = approver.Name
	}

	created, err := s.leaveRepo.Create(ctx, newReq)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if auto && s.recorder != nil {
		s.recorder.ObserveAutoApproval(string(kind))
	}
	slog.Info("leave request created", "kind", kind, "id", created.ID, "erp_id", created.Requester.ERPID, "status", created.Status)

	return leave.NewLeaveRequestResponse(leave.View{
		LeaveRequest:  created,
		RequesterName: requester.Name,
		ApproverName:  approverName,
	}), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, id auth.Identity, kind leave.Kind, filter leave.ListFilter) ([]leave.LeaveRequestResponse, error) {
	section, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.leaveRepo.ListBySection(ctx, kind, section, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s requests: %w", kind, err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(views))
	for _, v := range views {
		responses = append(responses, leave.NewLeaveRequestResponse(v))
	}
	return responses, nil
}

// Decide implements leave.LeaveService. Only the designated approver may
// decide, and only while the request is pending.
func (s *LeaveServiceImpl) Decide(ctx context.Context, id auth.Identity, kind leave.Kind, req leave.DecideRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	status, _ := req.Action.Status()

	v, err := s.leaveRepo.GetByID(ctx, kind, req.RecordID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if v.Approver.ERPID == 0 || v.Approver.ERPID != id.Employee.ERPID {
		return leave.LeaveRequestResponse{}, leave.ErrNotApprover
	}
	if v.Status != leave.StatusPending {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	now := s.now()
	if err := s.leaveRepo.Decide(ctx, kind, v.ID, status, id.UserID, now); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if s.recorder != nil {
		s.recorder.ObserveDecision(string(kind), string(req.Action))
	}
	slog.Info("leave request decided", "kind", kind, "id", v.ID, "action", req.Action, "by", id.Employee.ERPID)

	v.Status = status
	v.DecidedBy = &id.UserID
	v.DecidedAt = &now
	return leave.NewLeaveRequestResponse(v), nil
}

// Report implements leave.LeaveService. Days are counted inside [From, To] only.
// Callers other than superusers only get their own section.
func (s *LeaveServiceImpl) Report(ctx context.Context, id auth.Identity, filter leave.ReportFilter) ([]leave.ReportRow, error) {
	if filter.From.IsZero() || filter.To.IsZero() {
		return nil, validator.ValidationErrors{{Field: "from", Message: "From and To dates are required"}}
	}
	if filter.To.Before(filter.From) {
		return nil, validator.ValidationErrors{{Field: "to", Message: "To date must not be before From date"}}
	}
	section, err := s.scope(ctx, id)
	if err != nil {
		return nil, err
	}
	if section != nil {
		if filter.SectionID != nil && *filter.SectionID != *section {
			return nil, leave.ErrNotInSection
		}
		filter.SectionID = section
	}

	views, err := s.leaveRepo.ListApprovedInRange(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build leave report: %w", err)
	}
	return aggregateReport(views, filter.From, filter.To), nil
}

func aggregateReport(views []leave.View, from, to time.Time) []leave.ReportRow {
	type key struct {
		erpID    int64
		category string
	}
	index := map[key]int{}
	var rows []leave.ReportRow

	for _, v := range views {
		start, end := v.StartDate, v.EndDate
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		k := key{v.Requester.ERPID, v.Category}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, leave.ReportRow{
				Employee:     v.Requester,
				EmployeeName: v.RequesterName,
				Category:     v.Category,
			})
		}
		rows[i].Requests++
		rows[i].Days += leave.Days(start, end)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].EmployeeName != rows[b].EmployeeName {
			return rows[a].EmployeeName < rows[b].EmployeeName
		}
		return rows[a].Category < rows[b].Category
	})
	if rows == nil {
		rows = []leave.ReportRow{}
	}
	return rows
}
