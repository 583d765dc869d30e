package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/client"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRequests() []leave.LeaveRequestResponse {
	return []leave.LeaveRequestResponse{
		{ID: 1, Kind: leave.KindLeave, Employee: employee.Ref{InternalID: 10, ERPID: 1001}, EmployeeName: "Ayesha Khan", ApproverName: "Imran Ali", Category: "Sick Leave", Reason: "Fever", Status: leave.StatusPending, Approver: employee.Ref{InternalID: 20, ERPID: 2002}},
		{ID: 2, Kind: leave.KindLeave, Employee: employee.Ref{InternalID: 11, ERPID: 1002}, EmployeeName: "Bilal Ahmed", ApproverName: "Imran Ali", Category: "Casual Leave", Reason: "Family event", Status: leave.StatusApproved, Approver: employee.Ref{InternalID: 20, ERPID: 2002}},
		{ID: 3, Kind: leave.KindLeave, Employee: employee.Ref{InternalID: 12, ERPID: 1003}, EmployeeName: "Sana Malik", ApproverName: "Hina Raza", Category: "Sick Leave", Reason: "Checkup", Status: leave.StatusRejected, Approver: employee.Ref{InternalID: 21, ERPID: 2003}},
	}
}

func ids(rs []leave.LeaveRequestResponse) []int64 {
	out := make([]int64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestProjection_EmptyPredicatesReturnFullSet(t *testing.T) {
	records := sampleRequests()

	assert.Equal(t, records, RequestProjection.Apply(records, Predicates{}))
	assert.Equal(t, records, RequestProjection.Apply(records, Predicates{Text: "  ", Equal: map[string]string{"status": ""}}))
}

func TestProjection_AlwaysSubsetInOrder(t *testing.T) {
	records := sampleRequests()
	texts := []string{"", "imran", "SICK", "1003", "nobody"}
	statuses := []string{"", "pending", "approved", "rejected"}
	categories := []string{"", "Sick Leave", "Casual Leave"}

	for _, text := range texts {
		for _, status := range statuses {
			for _, category := range categories {
				preds := Predicates{Text: text, Equal: map[string]string{"status": status, "category": category}}
				got := ids(RequestProjection.Apply(records, preds))

				// order-preserving subset of 1,2,3
				last := int64(0)
				for _, id := range got {
					assert.Greater(t, id, last, "preds %+v", preds)
					last = id
				}
				assert.LessOrEqual(t, len(got), len(records))
			}
		}
	}
}

func TestProjection_Matches(t *testing.T) {
	records := sampleRequests()

	assert.Equal(t, []int64{1, 2}, ids(RequestProjection.Apply(records, Predicates{Text: "imran"})))
	assert.Equal(t, []int64{1}, ids(RequestProjection.Apply(records, Predicates{Text: "imran", Equal: map[string]string{"status": "pending"}})))
	assert.Equal(t, []int64{1, 3}, ids(RequestProjection.Apply(records, Predicates{Equal: map[string]string{"category": "Sick Leave"}})))
	assert.Equal(t, []int64{3}, ids(RequestProjection.Apply(records, Predicates{Text: "1003"})))
	assert.Equal(t, []int64{1, 2, 3}, ids(RequestProjection.Apply(records, Predicates{Equal: map[string]string{"unknown": "x"}})))
	assert.Empty(t, RequestProjection.Apply(records, Predicates{Text: "nobody"}))
}

func TestDebouncer_DeliversLastValueOnce(t *testing.T) {
	got := make(chan string, 4)
	search := NewDebouncer(30*time.Millisecond, func(v string) { got <- v })

	search.Push("a")
	search.Push("ay")
	search.Push("ayesha")

	select {
	case v := <-got:
		assert.Equal(t, "ayesha", v)
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
	select {
	case v := <-got:
		t.Fatalf("unexpected extra call with %q", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_FlushDeliversPendingNow(t *testing.T) {
	var got []string
	search := NewDebouncer(time.Hour, func(v string) { got = append(got, v) })

	search.Flush()
	assert.Empty(t, got)

	search.Push("bil")
	search.Push("bilal")
	search.Flush()
	search.Flush()
	assert.Equal(t, []string{"bilal"}, got)
}

func TestForm_FieldStates(t *testing.T) {
	f := EmployeeForm(0)
	assert.Equal(t, Untouched, f.State("cnic"))

	f.Set("cnic", "12345")
	assert.Equal(t, TouchedInvalid, f.State("cnic"))
	assert.Equal(t, "CNIC must be 13 digits", f.Errors()["cnic"])

	f.Set("cnic", "3520212345671")
	assert.Equal(t, TouchedValid, f.State("cnic"))
	assert.NotContains(t, f.Errors(), "cnic")
}

func TestForm_FirstFailingRuleWins(t *testing.T) {
	f := EmployeeForm(0)
	f.Set("cnic", "")
	assert.Equal(t, "CNIC is required", f.Errors()["cnic"])
}

func TestForm_SubmitWithEmptyRequiredFieldDoesNotSend(t *testing.T) {
	f := EmployeeForm(54321)
	f.Set("erp_id", "1001")
	f.Set("name", "Ayesha Khan")

	called := false
	err := f.Submit(context.Background(), func(context.Context, map[string]string) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrFormInvalid)
	assert.False(t, called)
	errs := f.Errors()
	assert.Equal(t, "CNIC is required", errs["cnic"])
	assert.Equal(t, "Position is required", errs["position"])
	assert.NotContains(t, errs, "hris_id")
	assert.Equal(t, "Ayesha Khan", f.Value("name"))
}

func fillEmployeeForm(f *Form) {
	f.Set("erp_id", "1001")
	f.Set("hris_id", "54321")
	f.Set("name", "Ayesha Khan")
	f.Set("cnic", "3520212345671")
	f.Set("gender", "Female")
	f.Set("section_id", "1")
	f.Set("location_id", "1")
	f.Set("grade_id", "7")
	f.Set("designation_id", "2")
	f.Set("position", "Officer")
}

func TestForm_FailedSubmitRetainsValues(t *testing.T) {
	f := EmployeeForm(0)
	fillEmployeeForm(f)

	sendErr := &client.ServerError{Status: 409, Code: "CONFLICT", Message: "CNIC already registered"}
	err := f.Submit(context.Background(), func(context.Context, map[string]string) error { return sendErr })

	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, "3520212345671", f.Value("cnic"))
	assert.Equal(t, "Ayesha Khan", f.Value("name"))
}

func TestForm_SuccessfulSubmitResets(t *testing.T) {
	f := EmployeeForm(54321)
	fillEmployeeForm(f)

	var sent map[string]string
	err := f.Submit(context.Background(), func(_ context.Context, v map[string]string) error {
		sent = v
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "Ayesha Khan", sent["name"])
	assert.Equal(t, "", f.Value("name"))
	assert.Equal(t, "54321", f.Value("hris_id"))
	assert.Equal(t, Untouched, f.State("name"))
}

func TestForm_ApplyServerErrors(t *testing.T) {
	f := EmployeeForm(0)
	f.ApplyServerErrors(map[string]string{"cnic": "CNIC already registered", "bogus": "x"})

	assert.Equal(t, TouchedInvalid, f.State("cnic"))
	assert.Equal(t, map[string]string{"cnic": "CNIC already registered"}, f.Errors())
}

func TestRequestForm_ApproverOnlyBelowThreshold(t *testing.T) {
	f := RequestForm(leave.KindLeave, false)
	f.Set("employee", "1001")
	f.Set("leave_type", "Sick Leave")
	f.Set("start_date", "2024-03-01")
	f.Set("end_date", "2024-03-03")
	f.Set("reason", "Fever")
	assert.True(t, f.Validate())

	f = RequestForm(leave.KindLeave, true)
	assert.False(t, f.Validate())
	assert.Equal(t, "Section Head is required", f.Errors()["approver"])
}

func TestStore_FailedLoadKeepsPreviousList(t *testing.T) {
	fail := false
	store := NewStore(func(context.Context, Params) ([]leave.LeaveRequestResponse, error) {
		if fail {
			return nil, &client.NetworkError{Op: "GET /leaves", Err: errors.New("connection refused")}
		}
		return sampleRequests(), nil
	})

	_, err := store.Load(context.Background(), nil)
	require.NoError(t, err)

	fail = true
	records, err := store.Refresh(context.Background())

	var netErr *client.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Len(t, records, 3)
	assert.Len(t, store.Records(), 3)
	assert.Equal(t, err, store.Err())
}

func TestStore_CreatedRecordVisibleAfterRefresh(t *testing.T) {
	var backend []employee.EmployeeResponse
	store := NewStore(func(_ context.Context, p Params) ([]employee.EmployeeResponse, error) {
		return append([]employee.EmployeeResponse(nil), backend...), nil
	})
	_, err := store.Load(context.Background(), Params{"active": "true"})
	require.NoError(t, err)
	require.Empty(t, store.Records())

	f := EmployeeForm(54321)
	fillEmployeeForm(f)
	err = f.Submit(context.Background(), func(_ context.Context, v map[string]string) error {
		erp, _ := strconv.ParseInt(v["erp_id"], 10, 64)
		backend = append(backend, employee.EmployeeResponse{ID: 1, ERPID: erp, Name: v["name"], CNIC: v["cnic"]})
		_, err := store.Refresh(context.Background())
		return err
	})
	require.NoError(t, err)

	records := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(1001), records[0].ERPID)
	assert.Equal(t, "Ayesha Khan", records[0].Name)
	assert.Equal(t, "3520212345671", records[0].CNIC)
}

func TestCanDecide(t *testing.T) {
	approver := auth.Identity{Employee: employee.Ref{InternalID: 20, ERPID: 2002}}
	other := auth.Identity{Employee: employee.Ref{InternalID: 21, ERPID: 2003}}
	records := sampleRequests()

	assert.True(t, CanDecide(records[0], approver))
	assert.False(t, CanDecide(records[0], other), "not the approver")
	assert.False(t, CanDecide(records[1], approver), "already approved")
	assert.False(t, CanDecide(records[2], other), "already rejected")
	assert.False(t, CanDecide(leave.LeaveRequestResponse{Status: leave.StatusPending}, auth.Identity{}))
}

func TestApproval_Decide(t *testing.T) {
	approver := auth.Identity{Employee: employee.Ref{InternalID: 20, ERPID: 2002}}
	var sent []leave.DecideRequest
	refreshed := 0
	a := &Approval{
		Kind:    leave.KindLeave,
		Confirm: ConfirmFunc(func(prompt string) (bool, error) { return true, nil }),
		Send: func(_ context.Context, kind leave.Kind, req leave.DecideRequest) (leave.LeaveRequestResponse, error) {
			assert.Equal(t, leave.KindLeave, kind)
			sent = append(sent, req)
			return leave.LeaveRequestResponse{ID: req.RecordID, Status: leave.StatusApproved}, nil
		},
		Refresh: func(context.Context) error {
			refreshed++
			return nil
		},
	}

	got, err := a.Decide(context.Background(), approver, sampleRequests()[0], leave.ActionApprove)

	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, got.Status)
	assert.Equal(t, []leave.DecideRequest{{RecordID: 1, Action: leave.ActionApprove}}, sent)
	assert.Equal(t, 1, refreshed)
}

func TestApproval_DeclinedOrForbiddenSendsNothing(t *testing.T) {
	approver := auth.Identity{Employee: employee.Ref{InternalID: 20, ERPID: 2002}}
	a := &Approval{
		Kind:    leave.KindLeave,
		Confirm: ConfirmFunc(func(string) (bool, error) { return false, nil }),
		Send: func(context.Context, leave.Kind, leave.DecideRequest) (leave.LeaveRequestResponse, error) {
			t.Fatal("nothing must be sent")
			return leave.LeaveRequestResponse{}, nil
		},
	}

	_, err := a.Decide(context.Background(), approver, sampleRequests()[0], leave.ActionReject)
	assert.ErrorIs(t, err, ErrDeclined)

	_, err = a.Decide(context.Background(), approver, sampleRequests()[1], leave.ActionReject)
	assert.ErrorIs(t, err, ErrNotDecidable)
}

func TestSessionIdentity(t *testing.T) {
	id := SessionIdentity(auth.UserPayload{ID: 3, EmployeeID: 30, ERPID: 1003, GradeID: 9})
	assert.Equal(t, employee.Ref{InternalID: 30, ERPID: 1003}, id.Employee)
	assert.Equal(t, 9, id.Grade)
}

func TestRequestTable_LeaveCount(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	row := leave.NewLeaveRequestResponse(leave.View{
		LeaveRequest:  leave.LeaveRequest{ID: 7, Kind: leave.KindLeave, StartDate: start, EndDate: end, Category: "Casual Leave", Status: leave.StatusPending},
		RequesterName: "Ayesha Khan",
	})
	require.Equal(t, 3, row.LeaveCount)

	var buf bytes.Buffer
	require.NoError(t, RequestTable(leave.KindLeave).Render(&buf, []leave.LeaveRequestResponse{row}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Leave Count")
	assert.Contains(t, lines[1], "01 Mar 2024")
	assert.Contains(t, lines[1], "[PENDING]")
	assert.Contains(t, strings.Fields(lines[1]), "3")
}

func TestTable_RenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ReportTable.Render(&buf, nil))
	assert.Contains(t, buf.String(), "(no records)")
}

func TestTable_WriteXLSX(t *testing.T) {
	rows := []leave.ReportRow{
		{Employee: employee.Ref{InternalID: 1, ERPID: 1001}, EmployeeName: "Ayesha Khan", Category: "Sick Leave", Requests: 2, Days: 5},
	}

	var buf bytes.Buffer
	require.NoError(t, ReportTable.WriteXLSX(&buf, "Leave Report", rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows("Leave Report")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ERP ID", "Employee", "Leave Type", "Requests", "Days"},
		{"1001", "Ayesha Khan", "Sick Leave", "2", "5"},
	}, got)
}

func TestPreviewNextDueDate(t *testing.T) {
	f := LetterForm()
	assert.Equal(t, "", PreviewNextDueDate(f))

	f.Set("due_date", "2024-01-31")
	assert.Equal(t, "", PreviewNextDueDate(f))

	f.Set("recurrence_type", "months")
	f.Set("recurrence_value", "1")
	assert.Equal(t, "2024-02-29", PreviewNextDueDate(f))

	f.Set("due_date", "2023-01-31")
	assert.Equal(t, "2023-02-28", PreviewNextDueDate(f))

	f.Set("recurrence_value", "")
	assert.Equal(t, "", PreviewNextDueDate(f))
}

func TestLetterProjection(t *testing.T) {
	letters := []letter.LetterResponse{
		{RefNo: "HR/1", Subject: "Renewal", Priority: letter.PriorityUrgent, Status: letter.StatusDraft},
		{RefNo: "HR/2", Subject: "Circular", Priority: letter.PriorityLow, Status: letter.StatusDraft},
	}

	got := LetterProjection.Apply(letters, Predicates{Equal: map[string]string{"priority": string(letter.PriorityUrgent)}})
	require.Len(t, got, 1)
	assert.Equal(t, "HR/1", got[0].RefNo)
}

func TestOptionByERPID(t *testing.T) {
	options := []Option{
		{Label: "Ayesha Khan (1001)", Value: employee.Ref{InternalID: 10, ERPID: 1001}},
		{Label: "Bilal Ahmed (1002)", Value: employee.Ref{InternalID: 11, ERPID: 1002}},
	}

	o, ok := OptionByERPID(options, 1002)
	require.True(t, ok)
	assert.Equal(t, int64(11), o.Value.InternalID)

	_, ok = OptionByERPID(options, 9999)
	assert.False(t, ok)
}

func TestDescribeAndNotify(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf)

	Report(n, &client.ServerError{Status: 422, Code: "VALIDATION_ERROR", Message: "Validation failed", Details: map[string]string{"cnic": "CNIC must be 13 digits"}})
	Report(n, fmt.Errorf("load: %w", &client.NetworkError{Op: "GET /leaves", Err: errors.New("connection refused")}))
	Report(n, nil)

	assert.Equal(t, "error: Validation failed: CNIC must be 13 digits\nerror: Network error, please retry: connection refused\n", buf.String())
}
