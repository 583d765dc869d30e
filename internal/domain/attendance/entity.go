package attendance

import (
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
)

type Record struct {
	ID        int64
	Employee  employee.Ref
	WorkDate  time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	Present   bool
	UpdatedBy *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPunch reports whether the employee punched in or out that day.
func (r Record) HasPunch() bool {
	return r.CheckIn != nil || r.CheckOut != nil
}

const (
	FlagPresent = "Present"
	FlagAbsent  = "Absent"
)

// ResolveFlag picks the overview flag for one employee on one day. A punch
// wins over a covering request, which wins over a public holiday.
func ResolveFlag(hasPunch bool, coveringCategory, holidayName string) string {
	switch {
	case hasPunch:
		return FlagPresent
	case coveringCategory != "":
		return coveringCategory
	case holidayName != "":
		return holidayName
	default:
		return FlagAbsent
	}
}

// Covering is a non-rejected leave or official-work request spanning a day.
type Covering struct {
	Employee employee.Ref
	Category string
}
