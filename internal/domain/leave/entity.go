package leave

import (
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
)

// Kind separates leave from official-work requests. Both share one workflow.
type Kind string

const (
	KindLeave        Kind = "leave"
	KindOfficialWork Kind = "official_work"
)

func (k Kind) Valid() bool {
	return k == KindLeave || k == KindOfficialWork
}

// Label is the human noun used in messages.
func (k Kind) Label() string {
	if k == KindOfficialWork {
		return "Official work request"
	}
	return "Leave request"
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Status returns the status an action moves a pending request to.
func (a Action) Status() (Status, bool) {
	switch a {
	case ActionApprove:
		return StatusApproved, true
	case ActionReject:
		return StatusRejected, true
	default:
		return "", false
	}
}

var leaveCategories = []string{
	"Sick Leave",
	"Casual Leave",
	"Annual Leave",
	"Maternity Leave",
	"External Meeting",
	"Official Work",
	"Umrah Leave",
	"Hajj Leave",
	"Shift Leave",
	"Recreational Leave",
	"Compensatory Leave",
	"Short Leave",
	"Study Leave",
	"Marriage Leave",
	"Paternity Leave",
}

var officialWorkCategories = []string{"Meetings", "ACT Test", "Official Tour", "Foreign Tour"}

// Authorities sign off official work outside the section.
var Authorities = []string{"ED (HR)", "ED (MO)", "ED (SO)"}

func Categories(k Kind) []string {
	if k == KindOfficialWork {
		return append([]string(nil), officialWorkCategories...)
	}
	return append([]string(nil), leaveCategories...)
}

type LeaveRequest struct {
	ID        int64
	Kind      Kind
	Requester employee.Ref
	Approver  employee.Ref
	Category  string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Authority string
	Status    Status
	CreatedBy int64
	DecidedBy *int64
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r LeaveRequest) Days() int {
	return Days(r.StartDate, r.EndDate)
}

// View is a request joined with the requester's and approver's names.
type View struct {
	LeaveRequest
	RequesterName string
	ApproverName  string
}

// Days counts calendar days from start to end, both inclusive.
// An end before start counts as zero.
func Days(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
