package leave

import (
	"context"
	"testing"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	rows map[int64]employee.WithLabels
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (employee.WithLabels, error) {
	e, ok := f.rows[id]
	if !ok {
		return employee.WithLabels{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeLeaveRepo struct {
	rows     map[int64]leave.View
	decided  []leave.Status
	sections []*int64
}

func (f *fakeLeaveRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = int64(len(f.rows) + 1)
	r.CreatedAt = time.Now()
	f.rows[r.ID] = leave.View{LeaveRequest: r}
	return r, nil
}

func (f *fakeLeaveRepo) GetByID(_ context.Context, kind leave.Kind, id int64) (leave.View, error) {
	v, ok := f.rows[id]
	if !ok || v.Kind != kind {
		return leave.View{}, leave.ErrLeaveRequestNotFound
	}
	return v, nil
}

func (f *fakeLeaveRepo) ListBySection(_ context.Context, kind leave.Kind, section *int64, _ leave.ListFilter) ([]leave.View, error) {
	f.sections = append(f.sections, section)
	var out []leave.View
	for _, v := range f.rows {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) Decide(_ context.Context, _ leave.Kind, id int64, status leave.Status, decidedBy int64, decidedAt time.Time) error {
	v := f.rows[id]
	v.Status = status
	v.DecidedBy = &decidedBy
	v.DecidedAt = &decidedAt
	f.rows[id] = v
	f.decided = append(f.decided, status)
	return nil
}

func (f *fakeLeaveRepo) ListApprovedInRange(_ context.Context, filter leave.ReportFilter) ([]leave.View, error) {
	f.sections = append(f.sections, filter.SectionID)
	var out []leave.View
	for id := int64(1); id <= int64(len(f.rows)); id++ {
		if v := f.rows[id]; v.Status == leave.StatusApproved {
			out = append(out, v)
		}
	}
	return out, nil
}

type countingRecorder struct {
	decisions []string
	auto      []string
}

func (c *countingRecorder) ObserveDecision(kind, action string) {
	c.decisions = append(c.decisions, kind+":"+action)
}

func (c *countingRecorder) ObserveAutoApproval(kind string) {
	c.auto = append(c.auto, kind)
}

var (
	clerk = employee.Ref{InternalID: 1, ERPID: 1001}
	head  = employee.Ref{InternalID: 2, ERPID: 2002}
	other = employee.Ref{InternalID: 3, ERPID: 3003}
)

func setup() (*LeaveServiceImpl, *fakeLeaveRepo, *countingRecorder) {
	employees := &fakeEmployeeRepo{rows: map[int64]employee.WithLabels{
		1: {Employee: employee.Employee{Ref: clerk, Name: "Clerk", SectionID: 10}},
		2: {Employee: employee.Employee{Ref: head, Name: "Head", SectionID: 10}},
		3: {Employee: employee.Employee{Ref: other, Name: "Other", SectionID: 20}},
	}}
	leaves := &fakeLeaveRepo{rows: map[int64]leave.View{}}
	recorder := &countingRecorder{}
	svc := NewLeaveService(leaves, employees, recorder, 9).(*LeaveServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, leaves, recorder
}

func leaveRequest(approver *employee.Ref) leave.CreateRequest {
	return leave.CreateRequest{
		Employee:  clerk,
		Approver:  approver,
		Category:  "Casual Leave",
		StartDate: "2024-03-01",
		EndDate:   "2024-03-03",
		Reason:    "family",
	}
}

func TestLeaveService_Create_PendingForJuniorGrade(t *testing.T) {
	svc, _, recorder := setup()
	caller := auth.Identity{UserID: 5, Employee: clerk, Grade: 7}

	resp, err := svc.Create(context.Background(), caller, leave.KindLeave, leaveRequest(&head))
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, head, resp.Approver)
	assert.Equal(t, "Head", resp.ApproverName)
	assert.Equal(t, 3, resp.LeaveCount)
	assert.Nil(t, resp.DecidedAt)
	assert.Empty(t, recorder.auto)
}

func TestLeaveService_Create_RequiresApproverForJuniorGrade(t *testing.T) {
	svc, leaves, _ := setup()
	caller := auth.Identity{UserID: 5, Employee: clerk, Grade: 7}

	_, err := svc.Create(context.Background(), caller, leave.KindLeave, leaveRequest(nil))

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Section Head is required", verrs.ToMap()["approver"])
	assert.Empty(t, leaves.rows)
}

func TestLeaveService_Create_AutoApprovesSeniorGrade(t *testing.T) {
	svc, _, recorder := setup()
	caller := auth.Identity{UserID: 6, Employee: head, Grade: 9}

	req := leaveRequest(nil)
	req.Employee = head
	resp, err := svc.Create(context.Background(), caller, leave.KindLeave, req)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.Equal(t, head, resp.Approver)
	require.NotNil(t, resp.DecidedAt)
	assert.Equal(t, []string{"leave"}, recorder.auto)
}

func TestLeaveService_Create_RejectsOtherSectionAndMismatchedRef(t *testing.T) {
	svc, _, _ := setup()
	caller := auth.Identity{UserID: 5, Employee: clerk, Grade: 7}

	req := leaveRequest(&head)
	req.Employee = other
	_, err := svc.Create(context.Background(), caller, leave.KindLeave, req)
	assert.ErrorIs(t, err, leave.ErrNotInSection)

	req.Employee = employee.Ref{InternalID: 1, ERPID: 9999}
	_, err = svc.Create(context.Background(), caller, leave.KindLeave, req)
	assert.ErrorIs(t, err, employee.ErrRefMismatch)
}

func TestLeaveService_Create_OfficialWorkNeedsAuthority(t *testing.T) {
	svc, _, _ := setup()
	caller := auth.Identity{UserID: 5, Employee: clerk, Grade: 7}

	req := leaveRequest(&head)
	req.Category = "Meetings"
	_, err := svc.Create(context.Background(), caller, leave.KindOfficialWork, req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "approved_by")

	req.Authority = "ED (HR)"
	resp, err := svc.Create(context.Background(), caller, leave.KindOfficialWork, req)
	require.NoError(t, err)
	assert.Equal(t, "ED (HR)", resp.Authority)
	assert.Equal(t, leave.KindOfficialWork, resp.Kind)
}

func TestLeaveService_Decide_OnlyApproverWhilePending(t *testing.T) {
	svc, leaves, recorder := setup()
	ctx := context.Background()
	created, err := svc.Create(ctx, auth.Identity{UserID: 5, Employee: clerk, Grade: 7}, leave.KindLeave, leaveRequest(&head))
	require.NoError(t, err)

	decide := leave.DecideRequest{RecordID: created.ID, Action: leave.ActionApprove}

	_, err = svc.Decide(ctx, auth.Identity{UserID: 5, Employee: clerk}, leave.KindLeave, decide)
	assert.ErrorIs(t, err, leave.ErrNotApprover)

	resp, err := svc.Decide(ctx, auth.Identity{UserID: 6, Employee: head}, leave.KindLeave, decide)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.Equal(t, []leave.Status{leave.StatusApproved}, leaves.decided)
	assert.Equal(t, []string{"leave:approve"}, recorder.decisions)

	_, err = svc.Decide(ctx, auth.Identity{UserID: 6, Employee: head}, leave.KindLeave, leave.DecideRequest{RecordID: created.ID, Action: leave.ActionReject})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	_, err = svc.Decide(ctx, auth.Identity{UserID: 6, Employee: head}, leave.KindOfficialWork, decide)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_Decide_InvalidAction(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.Decide(context.Background(), auth.Identity{Employee: head}, leave.KindLeave, leave.DecideRequest{RecordID: 1, Action: "maybe"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAggregateReport_ClipsToRange(t *testing.T) {
	day := func(s string) time.Time { d, _ := time.Parse(validator.DateLayout, s); return d }
	views := []leave.View{
		{LeaveRequest: leave.LeaveRequest{Requester: clerk, Category: "Casual Leave", StartDate: day("2024-02-28"), EndDate: day("2024-03-02")}, RequesterName: "Clerk"},
		{LeaveRequest: leave.LeaveRequest{Requester: clerk, Category: "Casual Leave", StartDate: day("2024-03-10"), EndDate: day("2024-03-10")}, RequesterName: "Clerk"},
		{LeaveRequest: leave.LeaveRequest{Requester: head, Category: "Sick Leave", StartDate: day("2024-03-05"), EndDate: day("2024-03-06")}, RequesterName: "Abbas"},
	}

	rows := aggregateReport(views, day("2024-03-01"), day("2024-03-31"))
	require.Len(t, rows, 2)
	assert.Equal(t, "Abbas", rows[0].EmployeeName)
	assert.Equal(t, 2, rows[0].Days)
	assert.Equal(t, "Clerk", rows[1].EmployeeName)
	assert.Equal(t, 2, rows[1].Requests)
	assert.Equal(t, 3, rows[1].Days)
}

func TestLeaveService_Report_RequiresRange(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.Report(context.Background(), auth.Identity{Employee: clerk}, leave.ReportFilter{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func sectionRange(section *int64) leave.ReportFilter {
	day := func(s string) time.Time { d, _ := time.Parse(validator.DateLayout, s); return d }
	return leave.ReportFilter{SectionID: section, From: day("2024-03-01"), To: day("2024-03-31")}
}

func TestLeaveService_Report_OtherSectionForbidden(t *testing.T) {
	svc, leaves, _ := setup()
	otherSection := int64(20)

	_, err := svc.Report(context.Background(), auth.Identity{Employee: clerk}, sectionRange(&otherSection))
	assert.ErrorIs(t, err, leave.ErrNotInSection)
	assert.Empty(t, leaves.sections)
}

func TestLeaveService_Report_DefaultsToOwnSection(t *testing.T) {
	svc, leaves, _ := setup()
	ownSection := int64(10)

	_, err := svc.Report(context.Background(), auth.Identity{Employee: clerk}, sectionRange(nil))
	require.NoError(t, err)
	_, err = svc.Report(context.Background(), auth.Identity{Employee: clerk}, sectionRange(&ownSection))
	require.NoError(t, err)

	require.Len(t, leaves.sections, 2)
	for _, s := range leaves.sections {
		require.NotNil(t, s)
		assert.Equal(t, int64(10), *s)
	}
}

func TestLeaveService_Report_SuperuserPicksAnySection(t *testing.T) {
	svc, leaves, _ := setup()
	admin := auth.Identity{UserID: 1, IsSuperuser: true}
	otherSection := int64(20)

	_, err := svc.Report(context.Background(), admin, sectionRange(&otherSection))
	require.NoError(t, err)
	_, err = svc.Report(context.Background(), admin, sectionRange(nil))
	require.NoError(t, err)

	require.Len(t, leaves.sections, 2)
	assert.Equal(t, int64(20), *leaves.sections[0])
	assert.Nil(t, leaves.sections[1])
}

func TestLeaveService_List_SuperuserWithoutEmployee(t *testing.T) {
	svc, leaves, _ := setup()
	ctx := context.Background()
	_, err := svc.Create(ctx, auth.Identity{UserID: 5, Employee: clerk, Grade: 7}, leave.KindLeave, leaveRequest(&head))
	require.NoError(t, err)

	list, err := svc.List(ctx, auth.Identity{UserID: 1, IsSuperuser: true}, leave.KindLeave, leave.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.Len(t, leaves.sections, 1)
	assert.Nil(t, leaves.sections[0])

	_, err = svc.List(ctx, auth.Identity{UserID: 2}, leave.KindLeave, leave.ListFilter{})
	assert.ErrorIs(t, err, auth.ErrEmployeeNotLinked)
}
