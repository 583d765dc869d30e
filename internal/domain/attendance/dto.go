package attendance

import (
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

const ClockLayout = "15:04"

// UpsertShiftRequest adds or replaces one employee's punches for one day.
type UpsertShiftRequest struct {
	Employee employee.Ref `json:"employee"`
	Date     string       `json:"date"`
	CheckIn  string       `json:"check_in"`
	CheckOut string       `json:"check_out"`
}

func (r *UpsertShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.Employee.Complete() {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "Employee is required"})
	}
	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "Date is required"})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "Date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.CheckIn) {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "Check-in time is required"})
	} else if _, err := time.Parse(ClockLayout, r.CheckIn); err != nil {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "Check-in time must be HH:MM"})
	}
	if validator.IsEmpty(r.CheckOut) {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "Check-out time is required"})
	} else if _, err := time.Parse(ClockLayout, r.CheckOut); err != nil {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "Check-out time must be HH:MM"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Punches combines Date with the clock times in loc. Call after Validate.
func (r *UpsertShiftRequest) Punches(loc *time.Location) (day, in, out time.Time, err error) {
	day, err = time.ParseInLocation(validator.DateLayout, r.Date, loc)
	if err != nil {
		return
	}
	in, err = time.ParseInLocation(validator.DateLayout+" "+ClockLayout, r.Date+" "+r.CheckIn, loc)
	if err != nil {
		return
	}
	out, err = time.ParseInLocation(validator.DateLayout+" "+ClockLayout, r.Date+" "+r.CheckOut, loc)
	if err != nil {
		return
	}
	if !out.After(in) {
		err = ErrCheckOutBeforeCheckIn
	}
	return
}

type ListFilter struct {
	ERPID int64
	From  time.Time
	To    time.Time
}

type RecordResponse struct {
	ID       int64        `json:"id"`
	Employee employee.Ref `json:"employee"`
	Date     string       `json:"date"`
	CheckIn  *time.Time   `json:"check_in"`
	CheckOut *time.Time   `json:"check_out"`
	Status   string       `json:"status"`
}

func NewRecordResponse(r Record) RecordResponse {
	status := FlagAbsent
	if r.Present {
		status = FlagPresent
	}
	return RecordResponse{
		ID:       r.ID,
		Employee: r.Employee,
		Date:     r.WorkDate.Format(validator.DateLayout),
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
		Status:   status,
	}
}

type OverviewRow struct {
	Employee         employee.Ref `json:"employee"`
	HRISID           int          `json:"hris_id"`
	Name             string       `json:"name"`
	DesignationTitle string       `json:"designation_title"`
	CheckIn          *time.Time   `json:"check_in"`
	CheckOut         *time.Time   `json:"check_out"`
	Flag             string       `json:"flag"`
}

type OverviewResponse struct {
	Date    string        `json:"date"`
	Holiday string        `json:"holiday,omitempty"`
	Rows    []OverviewRow `json:"rows"`
}
