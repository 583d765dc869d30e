package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
)

func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// Auth

func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	var out auth.LoginResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, req, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	return err
}

func (c *Client) Me(ctx context.Context) (auth.UserPayload, error) {
	var out auth.UserPayload
	_, err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/change-password", nil, req, nil)
	return err
}

func (c *Client) CreateUser(ctx context.Context, req auth.CreateUserRequest) (auth.UserPayload, error) {
	var out auth.UserPayload
	_, err := c.doJSON(ctx, http.MethodPost, "/auth/users", nil, req, &out)
	return out, err
}

// Lookups

func (c *Client) Lookups(ctx context.Context) (master.LookupsResponse, error) {
	var out master.LookupsResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/lookups", nil, nil, &out)
	return out, err
}

func (c *Client) Sections(ctx context.Context) ([]master.Section, error) {
	var out []master.Section
	_, err := c.doJSON(ctx, http.MethodGet, "/sections", nil, nil, &out)
	return out, err
}

// Employees

type EmployeeQuery struct {
	SectionID int64
	Active    *bool
	Query     string
}

func (q EmployeeQuery) values() url.Values {
	v := url.Values{}
	if q.SectionID > 0 {
		v.Set("section_id", strconv.FormatInt(q.SectionID, 10))
	}
	if q.Active != nil {
		v.Set("active", strconv.FormatBool(*q.Active))
	}
	setIf(v, "q", q.Query)
	return v
}

func (c *Client) Employees(ctx context.Context, q EmployeeQuery) ([]employee.EmployeeResponse, error) {
	var out []employee.EmployeeResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/employees", q.values(), nil, &out)
	return out, err
}

func (c *Client) EmployeeOptions(ctx context.Context, q EmployeeQuery) ([]employee.Option, error) {
	var out []employee.Option
	_, err := c.doJSON(ctx, http.MethodGet, "/employees/options", q.values(), nil, &out)
	return out, err
}

func (c *Client) EmployeeSummary(ctx context.Context) (employee.SummaryResponse, error) {
	var out employee.SummaryResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/employees/summary", nil, nil, &out)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, req employee.UpsertEmployeeRequest) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/employees", nil, req, &out)
	return out, err
}

func (c *Client) ReplaceEmployee(ctx context.Context, id int64, req employee.UpsertEmployeeRequest) (employee.EmployeeResponse, error) {
	var out employee.EmployeeResponse
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/employees/%d", id), nil, req, &out)
	return out, err
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/employees/%d", id), nil, nil, nil)
	return err
}

// Leave and official work

func kindPath(kind leave.Kind) string {
	if kind == leave.KindOfficialWork {
		return "/official-work"
	}
	return "/leaves"
}

func (c *Client) Requests(ctx context.Context, kind leave.Kind, filter leave.ListFilter) ([]leave.LeaveRequestResponse, error) {
	q := url.Values{}
	setIf(q, "status", filter.Status)
	setIf(q, "category", filter.Category)
	setIf(q, "q", filter.Query)

	var out []leave.LeaveRequestResponse
	_, err := c.doJSON(ctx, http.MethodGet, kindPath(kind), q, nil, &out)
	return out, err
}

func (c *Client) CreateRequest(ctx context.Context, kind leave.Kind, req leave.CreateRequest) (leave.LeaveRequestResponse, error) {
	var out leave.LeaveRequestResponse
	_, err := c.doJSON(ctx, http.MethodPost, kindPath(kind), nil, req, &out)
	return out, err
}

func (c *Client) Decide(ctx context.Context, kind leave.Kind, req leave.DecideRequest) (leave.LeaveRequestResponse, error) {
	var out leave.LeaveRequestResponse
	_, err := c.doJSON(ctx, http.MethodPost, kindPath(kind)+"/decide", nil, req, &out)
	return out, err
}

type ReportQuery struct {
	SectionID int64
	Category  string
	From      string
	To        string
}

func (c *Client) LeaveReport(ctx context.Context, rq ReportQuery) ([]leave.ReportRow, error) {
	q := url.Values{}
	if rq.SectionID > 0 {
		q.Set("section_id", strconv.FormatInt(rq.SectionID, 10))
	}
	setIf(q, "category", rq.Category)
	setIf(q, "from", rq.From)
	setIf(q, "to", rq.To)

	var out []leave.ReportRow
	_, err := c.doJSON(ctx, http.MethodGet, "/leaves/report", q, nil, &out)
	return out, err
}

// Attendance

func (c *Client) AttendanceOverview(ctx context.Context, date string) (attendance.OverviewResponse, error) {
	q := url.Values{}
	setIf(q, "date", date)

	var out attendance.OverviewResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/attendance/overview", q, nil, &out)
	return out, err
}

func (c *Client) Attendance(ctx context.Context, erpID int64, from, to string) ([]attendance.RecordResponse, error) {
	q := url.Values{}
	q.Set("erp_id", strconv.FormatInt(erpID, 10))
	setIf(q, "from", from)
	setIf(q, "to", to)

	var out []attendance.RecordResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/attendance", q, nil, &out)
	return out, err
}

func (c *Client) UpsertShift(ctx context.Context, req attendance.UpsertShiftRequest) (attendance.RecordResponse, error) {
	var out attendance.RecordResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/attendance", nil, req, &out)
	return out, err
}

// Letters

type LetterPage struct {
	Letters []letter.LetterResponse
	Meta    Meta
}

func (c *Client) Letters(ctx context.Context, filter letter.ListFilter) (LetterPage, error) {
	q := url.Values{}
	setIf(q, "q", filter.Query)
	setIf(q, "status", filter.Status)
	setIf(q, "priority", filter.Priority)
	setIf(q, "category", filter.Category)
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var page LetterPage
	meta, err := c.doJSON(ctx, http.MethodGet, "/letters", q, nil, &page.Letters)
	if err != nil {
		return LetterPage{}, err
	}
	if meta != nil {
		page.Meta = *meta
	}
	return page, nil
}

func (c *Client) Letter(ctx context.Context, id uuid.UUID) (letter.LetterResponse, error) {
	var out letter.LetterResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/letters/"+id.String(), nil, nil, &out)
	return out, err
}

func letterFields(req letter.UpsertLetterRequest) map[string]string {
	fields := map[string]string{
		"ref_no":           req.RefNo,
		"subject":          req.Subject,
		"sender":           req.Sender,
		"receiver":         req.Receiver,
		"category":         req.Category,
		"status":           req.Status,
		"priority":         req.Priority,
		"due_date":         req.DueDate,
		"recurrence_type":  req.RecurrenceType,
		"file_description": req.FileDescription,
	}
	if req.RecurrenceValue != 0 {
		fields["recurrence_value"] = strconv.Itoa(req.RecurrenceValue)
	}
	return fields
}

func (c *Client) CreateLetter(ctx context.Context, req letter.UpsertLetterRequest, file *FileUpload) (letter.LetterResponse, error) {
	var out letter.LetterResponse
	err := c.doMultipart(ctx, http.MethodPost, "/letters", letterFields(req), file, &out)
	return out, err
}

// ReplaceLetter sends every field. A nil file keeps the stored attachment.
func (c *Client) ReplaceLetter(ctx context.Context, id uuid.UUID, req letter.UpsertLetterRequest, file *FileUpload) (letter.LetterResponse, error) {
	var out letter.LetterResponse
	err := c.doMultipart(ctx, http.MethodPut, "/letters/"+id.String(), letterFields(req), file, &out)
	return out, err
}

func (c *Client) DeleteLetter(ctx context.Context, id uuid.UUID) error {
	_, err := c.doJSON(ctx, http.MethodDelete, "/letters/"+id.String(), nil, nil, nil)
	return err
}

// DownloadLetter writes the attachment to w and returns its original name.
func (c *Client) DownloadLetter(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	return c.download(ctx, "/letters/"+id.String()+"/download", w)
}

func (c *Client) LetterHistory(ctx context.Context, id uuid.UUID) ([]letter.LogResponse, error) {
	var out []letter.LogResponse
	_, err := c.doJSON(ctx, http.MethodGet, "/letters/"+id.String()+"/history", nil, nil, &out)
	return out, err
}
