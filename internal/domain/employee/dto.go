package employee

import (
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

// UpsertEmployeeRequest is used for both create and whole-record replace.
type UpsertEmployeeRequest struct {
	ERPID         int64  `json:"erp_id"`
	HRISID        int    `json:"hris_id"`
	Name          string `json:"name"`
	CNIC          string `json:"cnic"`
	Gender        string `json:"gender"`
	SectionID     int64  `json:"section_id"`
	LocationID    int64  `json:"location_id"`
	GradeID       int64  `json:"grade_id"`
	DesignationID int64  `json:"designation_id"`
	Position      string `json:"position"`
	Active        *bool  `json:"active,omitempty"`
}

func (r *UpsertEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ERPID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "erp_id", Message: "ERP ID is required"})
	}
	if r.HRISID == 0 {
		errs = append(errs, validator.ValidationError{Field: "hris_id", Message: "HRIS ID is required"})
	} else if !validator.IsValidHRISID(r.HRISID) {
		errs = append(errs, validator.ValidationError{Field: "hris_id", Message: "HRIS ID must be 5 digits"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "Name is required"})
	}
	if validator.IsEmpty(r.CNIC) {
		errs = append(errs, validator.ValidationError{Field: "cnic", Message: "CNIC is required"})
	} else if !validator.IsValidCNIC(r.CNIC) {
		errs = append(errs, validator.ValidationError{Field: "cnic", Message: "CNIC must be 13 digits"})
	}
	if validator.IsEmpty(r.Gender) {
		errs = append(errs, validator.ValidationError{Field: "gender", Message: "Gender is required"})
	} else if !validator.IsInSlice(r.Gender, Genders) {
		errs = append(errs, validator.ValidationError{Field: "gender", Message: "Gender must be Male or Female"})
	}
	if r.SectionID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "section_id", Message: "Section is required"})
	}
	if r.LocationID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "location_id", Message: "Location is required"})
	}
	if r.GradeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "grade_id", Message: "Grade is required"})
	}
	if r.DesignationID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "designation_id", Message: "Designation is required"})
	}
	if validator.IsEmpty(r.Position) {
		errs = append(errs, validator.ValidationError{Field: "position", Message: "Position is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity maps the request onto an employee row. Active defaults to true.
func (r *UpsertEmployeeRequest) ToEntity() Employee {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return Employee{
		Ref:           Ref{ERPID: r.ERPID},
		HRISID:        r.HRISID,
		Name:          r.Name,
		CNIC:          r.CNIC,
		Gender:        Gender(r.Gender),
		SectionID:     r.SectionID,
		LocationID:    r.LocationID,
		GradeID:       r.GradeID,
		DesignationID: r.DesignationID,
		Position:      r.Position,
		Active:        active,
	}
}

type EmployeeFilter struct {
	SectionID *int64
	Active    *bool
	Query     string
}

type EmployeeResponse struct {
	ID               int64     `json:"id"`
	ERPID            int64     `json:"erp_id"`
	HRISID           int       `json:"hris_id"`
	Name             string    `json:"name"`
	CNIC             string    `json:"cnic"`
	Gender           string    `json:"gender"`
	SectionID        int64     `json:"section_id"`
	SectionName      string    `json:"section_name"`
	LocationID       int64     `json:"location_id"`
	LocationName     string    `json:"location_name"`
	GradeID          int64     `json:"grade_id"`
	GradeName        string    `json:"grade_name"`
	DesignationID    int64     `json:"designation_id"`
	DesignationTitle string    `json:"designation_title"`
	Position         string    `json:"position"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewEmployeeResponse(e WithLabels) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.InternalID,
		ERPID:            e.ERPID,
		HRISID:           e.HRISID,
		Name:             e.Name,
		CNIC:             e.CNIC,
		Gender:           string(e.Gender),
		SectionID:        e.SectionID,
		SectionName:      e.SectionName,
		LocationID:       e.LocationID,
		LocationName:     e.LocationName,
		GradeID:          e.GradeID,
		GradeName:        e.GradeName,
		DesignationID:    e.DesignationID,
		DesignationTitle: e.DesignationTitle,
		Position:         e.Position,
		Active:           e.Active,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// Option is a dropdown entry. Value carries the id pair as structured data.
type Option struct {
	Label string `json:"label"`
	Value Ref    `json:"value"`
}

type SummaryResponse struct {
	TotalActive  int `json:"total_active"`
	PresentToday int `json:"present_today"`
	AbsentToday  int `json:"absent_today"`
}
