package dashboard

import (
	"strconv"

	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
)

// Leave and official work

func RequestTable(kind leave.Kind) Table[leave.LeaveRequestResponse] {
	cols := []Column[leave.LeaveRequestResponse]{
		{Header: "ID", Value: func(r leave.LeaveRequestResponse) string { return strconv.FormatInt(r.ID, 10) }},
		{Header: "ERP ID", Value: func(r leave.LeaveRequestResponse) string { return r.Employee.String() }},
		{Header: "Employee", Value: func(r leave.LeaveRequestResponse) string { return r.EmployeeName }},
		{Header: "Type", Value: func(r leave.LeaveRequestResponse) string { return r.Category }},
		{Header: "From", Value: func(r leave.LeaveRequestResponse) string { return FormatDate(r.StartDate) }},
		{Header: "To", Value: func(r leave.LeaveRequestResponse) string { return FormatDate(r.EndDate) }},
		{Header: "Leave Count", Value: func(r leave.LeaveRequestResponse) string { return strconv.Itoa(r.LeaveCount) }},
		{Header: "Section Head", Value: func(r leave.LeaveRequestResponse) string { return r.ApproverName }},
	}
	if kind == leave.KindOfficialWork {
		cols = append(cols, Column[leave.LeaveRequestResponse]{Header: "Approved By", Value: func(r leave.LeaveRequestResponse) string { return r.Authority }})
	}
	cols = append(cols,
		Column[leave.LeaveRequestResponse]{Header: "Reason", Value: func(r leave.LeaveRequestResponse) string { return r.Reason }},
		Column[leave.LeaveRequestResponse]{Header: "Status", Value: func(r leave.LeaveRequestResponse) string { return Badge(string(r.Status)) }},
	)
	return Table[leave.LeaveRequestResponse]{Columns: cols}
}

var RequestProjection = Projection[leave.LeaveRequestResponse]{
	Search: func(r leave.LeaveRequestResponse) []string {
		return []string{r.Employee.String(), r.EmployeeName, r.ApproverName, r.Category, r.Reason}
	},
	Fields: map[string]func(leave.LeaveRequestResponse) string{
		"status":   func(r leave.LeaveRequestResponse) string { return string(r.Status) },
		"category": func(r leave.LeaveRequestResponse) string { return r.Category },
	},
}

var ReportTable = Table[leave.ReportRow]{Columns: []Column[leave.ReportRow]{
	{Header: "ERP ID", Value: func(r leave.ReportRow) string { return r.Employee.String() }},
	{Header: "Employee", Value: func(r leave.ReportRow) string { return r.EmployeeName }},
	{Header: "Leave Type", Value: func(r leave.ReportRow) string { return r.Category }},
	{Header: "Requests", Value: func(r leave.ReportRow) string { return strconv.Itoa(r.Requests) }},
	{Header: "Days", Value: func(r leave.ReportRow) string { return strconv.Itoa(r.Days) }},
}}

// RequestForm is the apply form. The approver is only asked for when the
// creator's grade is below the auto-approval threshold.
func RequestForm(kind leave.Kind, needsApprover bool) *Form {
	fields := []Field{
		{Name: "employee", Rules: []Rule{Required("Employee is required"), PositiveInt("Employee must be an ERP ID")}},
		{Name: "leave_type", Rules: []Rule{Required("Leave Type is required"), OneOf(leave.Categories(kind), "Leave Type is not recognised")}},
		{Name: "start_date", Rules: []Rule{Required("Start Date is required"), Date("Start Date must be YYYY-MM-DD")}},
		{Name: "end_date", Rules: []Rule{Required("End Date is required"), Date("End Date must be YYYY-MM-DD")}},
		{Name: "reason", Rules: []Rule{Required("Reason is required")}},
	}
	if needsApprover {
		fields = append(fields, Field{Name: "approver", Rules: []Rule{Required("Section Head is required"), PositiveInt("Section Head must be an ERP ID")}})
	}
	if kind == leave.KindOfficialWork {
		fields = append(fields, Field{Name: "approved_by", Rules: []Rule{Required("Approved By is required"), OneOf(leave.Authorities, "Approved By is not recognised")}})
	}
	return NewForm(fields...)
}

// Employees

var EmployeeTable = Table[employee.EmployeeResponse]{Columns: []Column[employee.EmployeeResponse]{
	{Header: "ID", Value: func(e employee.EmployeeResponse) string { return strconv.FormatInt(e.ID, 10) }},
	{Header: "ERP ID", Value: func(e employee.EmployeeResponse) string { return strconv.FormatInt(e.ERPID, 10) }},
	{Header: "HRIS ID", Value: func(e employee.EmployeeResponse) string { return strconv.Itoa(e.HRISID) }},
	{Header: "Name", Value: func(e employee.EmployeeResponse) string { return e.Name }},
	{Header: "CNIC", Value: func(e employee.EmployeeResponse) string { return e.CNIC }},
	{Header: "Section", Value: func(e employee.EmployeeResponse) string { return e.SectionName }},
	{Header: "Location", Value: func(e employee.EmployeeResponse) string { return e.LocationName }},
	{Header: "Grade", Value: func(e employee.EmployeeResponse) string { return e.GradeName }},
	{Header: "Designation", Value: func(e employee.EmployeeResponse) string { return e.DesignationTitle }},
	{Header: "Status", Value: func(e employee.EmployeeResponse) string { return Badge(activeLabel(e.Active)) }},
}}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

var EmployeeProjection = Projection[employee.EmployeeResponse]{
	Search: func(e employee.EmployeeResponse) []string {
		return []string{strconv.FormatInt(e.ERPID, 10), strconv.Itoa(e.HRISID), e.Name, e.CNIC, e.DesignationTitle, e.Position}
	},
	Fields: map[string]func(employee.EmployeeResponse) string{
		"section":  func(e employee.EmployeeResponse) string { return e.SectionName },
		"location": func(e employee.EmployeeResponse) string { return e.LocationName },
		"status":   func(e employee.EmployeeResponse) string { return activeLabel(e.Active) },
	},
}

// EmployeeForm takes a suggested HRIS id as the default of its field.
func EmployeeForm(suggestedHRISID int) *Form {
	hris := ""
	if suggestedHRISID > 0 {
		hris = strconv.Itoa(suggestedHRISID)
	}
	return NewForm(
		Field{Name: "erp_id", Rules: []Rule{Required("ERP ID is required"), PositiveInt("ERP ID must be a number")}},
		Field{Name: "hris_id", Default: hris, Rules: []Rule{Required("HRIS ID is required"), Digits(5, "HRIS ID must be 5 digits")}},
		Field{Name: "name", Rules: []Rule{Required("Name is required")}},
		Field{Name: "cnic", Rules: []Rule{Required("CNIC is required"), Digits(13, "CNIC must be 13 digits")}},
		Field{Name: "gender", Rules: []Rule{Required("Gender is required"), OneOf(employee.Genders, "Gender must be Male or Female")}},
		Field{Name: "section_id", Rules: []Rule{Required("Section is required"), PositiveInt("Section is required")}},
		Field{Name: "location_id", Rules: []Rule{Required("Location is required"), PositiveInt("Location is required")}},
		Field{Name: "grade_id", Rules: []Rule{Required("Grade is required"), PositiveInt("Grade is required")}},
		Field{Name: "designation_id", Rules: []Rule{Required("Designation is required"), PositiveInt("Designation is required")}},
		Field{Name: "position", Rules: []Rule{Required("Position is required")}},
	)
}

// Attendance

var OverviewTable = Table[attendance.OverviewRow]{Columns: []Column[attendance.OverviewRow]{
	{Header: "ERP ID", Value: func(r attendance.OverviewRow) string { return r.Employee.String() }},
	{Header: "HRIS ID", Value: func(r attendance.OverviewRow) string { return strconv.Itoa(r.HRISID) }},
	{Header: "Name", Value: func(r attendance.OverviewRow) string { return r.Name }},
	{Header: "Designation", Value: func(r attendance.OverviewRow) string { return r.DesignationTitle }},
	{Header: "Check In", Value: func(r attendance.OverviewRow) string { return FormatClock(r.CheckIn) }},
	{Header: "Check Out", Value: func(r attendance.OverviewRow) string { return FormatClock(r.CheckOut) }},
	{Header: "Status", Value: func(r attendance.OverviewRow) string { return Badge(r.Flag) }},
}}

var OverviewProjection = Projection[attendance.OverviewRow]{
	Search: func(r attendance.OverviewRow) []string {
		return []string{r.Employee.String(), strconv.Itoa(r.HRISID), r.Name, r.DesignationTitle}
	},
	Fields: map[string]func(attendance.OverviewRow) string{
		"status": func(r attendance.OverviewRow) string { return r.Flag },
	},
}

var RecordTable = Table[attendance.RecordResponse]{Columns: []Column[attendance.RecordResponse]{
	{Header: "Date", Value: func(r attendance.RecordResponse) string { return FormatDate(r.Date) }},
	{Header: "Check In", Value: func(r attendance.RecordResponse) string { return FormatClock(r.CheckIn) }},
	{Header: "Check Out", Value: func(r attendance.RecordResponse) string { return FormatClock(r.CheckOut) }},
	{Header: "Status", Value: func(r attendance.RecordResponse) string { return Badge(r.Status) }},
}}

func ShiftForm() *Form {
	return NewForm(
		Field{Name: "employee", Rules: []Rule{Required("Employee is required"), PositiveInt("Employee must be an ERP ID")}},
		Field{Name: "date", Rules: []Rule{Required("Date is required"), Date("Date must be YYYY-MM-DD")}},
		Field{Name: "check_in", Rules: []Rule{Required("Check-in time is required")}},
		Field{Name: "check_out", Rules: []Rule{Required("Check-out time is required")}},
	)
}

// Letters

var LetterTable = Table[letter.LetterResponse]{Columns: []Column[letter.LetterResponse]{
	{Header: "ID", Value: func(l letter.LetterResponse) string { return l.ID.String() }},
	{Header: "Ref No", Value: func(l letter.LetterResponse) string { return l.RefNo }},
	{Header: "Subject", Value: func(l letter.LetterResponse) string { return l.Subject }},
	{Header: "Sender", Value: func(l letter.LetterResponse) string { return l.Sender }},
	{Header: "Receiver", Value: func(l letter.LetterResponse) string { return l.Receiver }},
	{Header: "Category", Value: func(l letter.LetterResponse) string { return string(l.Category) }},
	{Header: "Priority", Value: func(l letter.LetterResponse) string { return Badge(string(l.Priority)) }},
	{Header: "Status", Value: func(l letter.LetterResponse) string { return Badge(string(l.Status)) }},
	{Header: "Due", Value: func(l letter.LetterResponse) string { return FormatDate(l.DueDate) }},
	{Header: "Next Due", Value: func(l letter.LetterResponse) string { return FormatDate(l.NextDueDate) }},
}}

var LetterProjection = Projection[letter.LetterResponse]{
	Search: func(l letter.LetterResponse) []string {
		return []string{l.RefNo, l.Subject, l.Sender, l.Receiver}
	},
	Fields: map[string]func(letter.LetterResponse) string{
		"status":   func(l letter.LetterResponse) string { return string(l.Status) },
		"priority": func(l letter.LetterResponse) string { return string(l.Priority) },
		"category": func(l letter.LetterResponse) string { return string(l.Category) },
	},
}

var LetterLogTable = Table[letter.LogResponse]{Columns: []Column[letter.LogResponse]{
	{Header: "When", Value: func(l letter.LogResponse) string { return l.CreatedAt.Format("02 Jan 2006 15:04") }},
	{Header: "Action", Value: func(l letter.LogResponse) string { return string(l.Action) }},
	{Header: "Message", Value: func(l letter.LogResponse) string { return l.Message }},
	{Header: "By", Value: func(l letter.LogResponse) string { return l.Actor }},
}}

func LetterForm() *Form {
	return NewForm(
		Field{Name: "ref_no", Rules: []Rule{Required("Reference number is required")}},
		Field{Name: "subject", Rules: []Rule{Required("Subject is required")}},
		Field{Name: "sender", Rules: []Rule{Required("Sender is required")}},
		Field{Name: "receiver", Rules: []Rule{Required("Receiver is required")}},
		Field{Name: "category", Rules: []Rule{Required("Category is required"), OneOf(letter.Categories, "Category is not recognised")}},
		Field{Name: "status", Rules: []Rule{Required("Status is required"), OneOf(letter.Statuses, "Status is not recognised")}},
		Field{Name: "priority", Rules: []Rule{Required("Priority is required"), OneOf(letter.Priorities, "Priority is not recognised")}},
		Field{Name: "due_date", Rules: []Rule{Date("Due date must be YYYY-MM-DD")}},
		Field{Name: "recurrence_type", Rules: []Rule{OneOf(append([]string{"none"}, letter.Units...), "Recurrence type is not recognised")}},
		Field{Name: "recurrence_value", Rules: []Rule{PositiveInt("Recurrence value must be a positive number")}},
		Field{Name: "file_description", Rules: []Rule{Required("File description is required")}},
	)
}

// PreviewNextDueDate recomputes the derived date from the current draft.
// It is "" until due date, unit and interval are all filled in.
func PreviewNextDueDate(f *Form) string {
	interval, _ := strconv.Atoi(f.Value("recurrence_value"))
	return letter.NextDueDate(f.Value("due_date"), letter.Unit(f.Value("recurrence_type")), interval)
}
