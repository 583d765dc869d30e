package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// HolidayLookup finds the public holiday on a day, if any.
type HolidayLookup interface {
	HolidayOn(ctx context.Context, day time.Time) (master.Holiday, bool, error)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employeeRepo employee.EmployeeRepository
	holidays     HolidayLookup
	loc          *time.Location
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidays HolidayLookup,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		holidays:             holidays,
		loc:                  loc,
	}
}

func (a *AttendanceServiceImpl) callerSection(ctx context.Context, id auth.Identity) (int64, error) {
	if id.Employee.InternalID == 0 {
		return 0, auth.ErrEmployeeNotLinked
	}
	caller, err := a.employeeRepo.GetByID(ctx, id.Employee.InternalID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return 0, auth.ErrEmployeeNotLinked
		}
		return 0, fmt.Errorf("failed to get caller employee: %w", err)
	}
	return caller.SectionID, nil
}

// scope is the section the caller may read. Superusers read every section.
func (a *AttendanceServiceImpl) scope(ctx context.Context, id auth.Identity) (*int64, error) {
	if id.IsSuperuser {
		return nil, nil
	}
	section, err := a.callerSection(ctx, id)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// Overview implements attendance.AttendanceService. It returns one row per
// active employee of the caller's section, flagged for day.
func (a *AttendanceServiceImpl) Overview(ctx context.Context, id auth.Identity, day time.Time) (attendance.OverviewResponse, error) {
	section, err := a.scope(ctx, id)
	if err != nil {
		return attendance.OverviewResponse{}, err
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var (
		staff     []employee.WithLabels
		records   []attendance.Record
		covering  []attendance.Covering
		holiday   master.Holiday
		isHoliday bool
	)
	active := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		staff, err = a.employeeRepo.List(gctx, employee.EmployeeFilter{SectionID: section, Active: &active})
		return err
	})
	g.Go(func() (err error) {
		records, err = a.AttendanceRepository.ListForSection(gctx, section, day)
		return err
	})
	g.Go(func() (err error) {
		covering, err = a.AttendanceRepository.CoveringForSection(gctx, section, day)
		return err
	})
	g.Go(func() (err error) {
		holiday, isHoliday, err = a.holidays.HolidayOn(gctx, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return attendance.OverviewResponse{}, fmt.Errorf("failed to build attendance overview: %w", err)
	}

	byEmployee := make(map[int64]attendance.Record, len(records))
	for _, r := range records {
		byEmployee[r.Employee.InternalID] = r
	}
	coveringCategory := make(map[int64]string, len(covering))
	for _, c := range covering {
		coveringCategory[c.Employee.InternalID] = c.Category
	}
	holidayName := ""
	if isHoliday {
		holidayName = holiday.Name
	}

	resp := attendance.OverviewResponse{
		Date:    day.Format(validator.DateLayout),
		Holiday: holidayName,
		Rows:    make([]attendance.OverviewRow, 0, len(staff)),
	}
	for _, e := range staff {
		row := attendance.OverviewRow{
			Employee:         e.Ref,
			HRISID:           e.HRISID,
			Name:             e.Name,
			DesignationTitle: e.DesignationTitle,
		}
		rec, ok := byEmployee[e.InternalID]
		if ok {
			row.CheckIn, row.CheckOut = rec.CheckIn, rec.CheckOut
		}
		row.Flag = attendance.ResolveFlag(ok && rec.HasPunch(), coveringCategory[e.InternalID], holidayName)
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.RecordResponse, error) {
	if filter.ERPID <= 0 {
		return nil, validator.ValidationErrors{{Field: "erp_id", Message: "ERP ID is required"}}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, validator.ValidationErrors{{Field: "to", Message: "To date must not be before From date"}}
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.NewRecordResponse(r))
	}
	return responses, nil
}

// UpsertShift implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpsertShift(ctx context.Context, id auth.Identity, req attendance.UpsertShiftRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	day, in, out, err := req.Punches(a.loc)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	target, err := a.employeeRepo.GetByID(ctx, req.Employee.InternalID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if target.ERPID != req.Employee.ERPID {
		return attendance.RecordResponse{}, employee.ErrRefMismatch
	}
	if !id.IsSuperuser {
		section, err := a.callerSection(ctx, id)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		if section != target.SectionID {
			return attendance.RecordResponse{}, leave.ErrNotInSection
		}
	}

	saved, err := a.AttendanceRepository.Upsert(ctx, attendance.Record{
		Employee:  target.Ref,
		WorkDate:  time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		CheckIn:   &in,
		CheckOut:  &out,
		UpdatedBy: &id.UserID,
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	slog.Info("attendance shift saved", "erp_id", target.ERPID, "date", req.Date, "by", id.UserID)
	return attendance.NewRecordResponse(saved), nil
}
