package employee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	rows        map[int64]employee.WithLabels
	listFilter  employee.EmployeeFilter
	countActive func() (int, error)
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{rows: map[int64]employee.WithLabels{}}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	for _, row := range f.rows {
		if row.ERPID == e.ERPID {
			return employee.Employee{}, employee.ErrERPIDExists
		}
	}
	e.InternalID = int64(len(f.rows) + 1)
	f.rows[e.InternalID] = employee.WithLabels{Employee: e, SectionName: "Registry"}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (employee.WithLabels, error) {
	row, ok := f.rows[id]
	if !ok {
		return employee.WithLabels{}, employee.ErrEmployeeNotFound
	}
	return row, nil
}

func (f *fakeEmployeeRepo) List(_ context.Context, filter employee.EmployeeFilter) ([]employee.WithLabels, error) {
	f.listFilter = filter
	var out []employee.WithLabels
	for id := int64(1); id <= int64(len(f.rows)); id++ {
		if row, ok := f.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, e employee.Employee) error {
	row, ok := f.rows[e.InternalID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	row.Employee = e
	f.rows[e.InternalID] = row
	return nil
}

func (f *fakeEmployeeRepo) CountActive(context.Context) (int, error) {
	return f.countActive()
}

type presenceFunc func(ctx context.Context, day time.Time) (int, error)

func (p presenceFunc) CountPresent(ctx context.Context, day time.Time) (int, error) {
	return p(ctx, day)
}

func validRequest() employee.UpsertEmployeeRequest {
	return employee.UpsertEmployeeRequest{
		ERPID:         1001,
		HRISID:        12345,
		Name:          "Ayesha Khan",
		CNIC:          "3520112345671",
		Gender:        "Female",
		SectionID:     1,
		LocationID:    1,
		GradeID:       7,
		DesignationID: 1,
		Position:      "Clerk",
	}
}

func TestEmployeeService_Create(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	resp, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Registry", resp.SectionName)
	assert.True(t, resp.Active)

	_, err = svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, employee.ErrERPIDExists)
}

func TestEmployeeService_Create_ValidationBlocksWrite(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil)

	req := validRequest()
	req.CNIC = "12345"
	_, err := svc.Create(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "CNIC must be 13 digits", verrs.ToMap()["cnic"])
	assert.Empty(t, repo.rows)
}

func TestEmployeeService_Replace(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil)
	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Ayesha K."
	inactive := false
	req.Active = &inactive

	resp, err := svc.Replace(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha K.", resp.Name)
	assert.False(t, resp.Active)

	_, err = svc.Replace(context.Background(), 99, req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeService_Options_OnlyActive(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, nil)
	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	options, err := svc.Options(context.Background(), employee.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, employee.Ref{InternalID: 1, ERPID: 1001}, options[0].Value)
	assert.Equal(t, "Ayesha Khan (1001)", options[0].Label)
	require.NotNil(t, repo.listFilter.Active)
	assert.True(t, *repo.listFilter.Active)
}

func TestEmployeeService_Summary(t *testing.T) {
	repo := newFakeEmployeeRepo()
	repo.countActive = func() (int, error) { return 12, nil }
	presence := presenceFunc(func(context.Context, time.Time) (int, error) { return 9, nil })

	summary, err := NewEmployeeService(repo, presence).Summary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, employee.SummaryResponse{TotalActive: 12, PresentToday: 9, AbsentToday: 3}, summary)

	boom := errors.New("db down")
	presence = presenceFunc(func(context.Context, time.Time) (int, error) { return 0, boom })
	_, err = NewEmployeeService(repo, presence).Summary(context.Background(), time.Now())
	assert.ErrorIs(t, err, boom)
}
