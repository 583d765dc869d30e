package employee

import (
	"strconv"
	"time"
)

// Ref identifies an employee by both of its ids. They always travel together.
type Ref struct {
	InternalID int64 `json:"id"`
	ERPID      int64 `json:"erp_id"`
}

func (r Ref) IsZero() bool {
	return r.InternalID == 0 && r.ERPID == 0
}

// Complete reports whether both halves of the pair are set.
func (r Ref) Complete() bool {
	return r.InternalID > 0 && r.ERPID > 0
}

func (r Ref) String() string {
	return strconv.FormatInt(r.ERPID, 10)
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

var Genders = []string{string(GenderMale), string(GenderFemale)}

type Employee struct {
	Ref
	HRISID        int
	Name          string
	CNIC          string
	Gender        Gender
	SectionID     int64
	LocationID    int64
	GradeID       int64
	DesignationID int64
	Position      string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WithLabels is an employee row with its lookup ids resolved to display names.
type WithLabels struct {
	Employee
	SectionName      string
	LocationName     string
	GradeName        string
	DesignationTitle string
}
