package leave

import (
	"strings"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

// CreateRequest applies for leave or official work. Status is never read from
// the client; the service derives it from the creator's grade.
type CreateRequest struct {
	Employee  employee.Ref  `json:"employee"`
	Approver  *employee.Ref `json:"approver,omitempty"`
	Category  string        `json:"leave_type"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Reason    string        `json:"reason"`
	Authority string        `json:"approved_by,omitempty"`
}

// Validate checks the request for kind. requireApprover is false when the
// creator is auto-approved.
func (r *CreateRequest) Validate(kind Kind, requireApprover bool) error {
	var errs validator.ValidationErrors

	if !r.Employee.Complete() {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "Employee is required"})
	}
	if validator.IsEmpty(r.Category) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "Leave Type is required"})
	} else if !validator.IsInSlice(r.Category, Categories(kind)) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "Leave Type is not recognised"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "Reason is required"})
	}
	if requireApprover && (r.Approver == nil || !r.Approver.Complete()) {
		errs = append(errs, validator.ValidationError{Field: "approver", Message: "Section Head is required"})
	}
	if kind == KindOfficialWork && !validator.IsInSlice(r.Authority, Authorities) {
		errs = append(errs, validator.ValidationError{Field: "approved_by", Message: "Approved By is required"})
	}
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "Start Date is required"})
	} else if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "Start Date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End Date is required"})
	} else if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End Date must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecideRequest struct {
	RecordID int64  `json:"record_id"`
	Action   Action `json:"action"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RecordID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "record_id", Message: "record_id is required"})
	}
	if _, ok := r.Action.Status(); !ok {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "action must be approve or reject"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	Status   string
	Category string
	Query    string
}

// Matches applies the text query to the joined names and reason.
func (f ListFilter) Matches(v View) bool {
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(v.RequesterName+" "+v.ApproverName+" "+v.Reason+" "+v.Category), q)
}

// ReportFilter narrows the leave report. A nil SectionID means every section.
type ReportFilter struct {
	SectionID *int64
	Category  string
	From      time.Time
	To        time.Time
}

type LeaveRequestResponse struct {
	ID           int64        `json:"id"`
	Kind         Kind         `json:"kind"`
	Employee     employee.Ref `json:"employee"`
	EmployeeName string       `json:"employee_name"`
	Approver     employee.Ref `json:"approver"`
	ApproverName string       `json:"approver_name"`
	Category     string       `json:"leave_type"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	LeaveCount   int          `json:"leave_count"`
	Reason       string       `json:"reason"`
	Authority    string       `json:"approved_by,omitempty"`
	Status       Status       `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	DecidedAt    *time.Time   `json:"decided_at,omitempty"`
}

func NewLeaveRequestResponse(v View) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           v.ID,
		Kind:         v.Kind,
		Employee:     v.Requester,
		EmployeeName: v.RequesterName,
		Approver:     v.Approver,
		ApproverName: v.ApproverName,
		Category:     v.Category,
		StartDate:    v.StartDate.Format(validator.DateLayout),
		EndDate:      v.EndDate.Format(validator.DateLayout),
		LeaveCount:   v.Days(),
		Reason:       v.Reason,
		Authority:    v.Authority,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
		DecidedAt:    v.DecidedAt,
	}
}

// ReportRow totals one employee's leave days in one category.
type ReportRow struct {
	Employee     employee.Ref `json:"employee"`
	EmployeeName string       `json:"employee_name"`
	Category     string       `json:"leave_type"`
	Requests     int          `json:"requests"`
	Days         int          `json:"days"`
}
