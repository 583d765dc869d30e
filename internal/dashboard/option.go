package dashboard

import (
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
)

// Option is an employee dropdown entry. The value is the full id pair, so a
// selection never has to be split back out of a label or joined string.
type Option = employee.Option

func OptionByERPID(options []Option, erpID int64) (Option, bool) {
	for _, o := range options {
		if o.Value.ERPID == erpID {
			return o, true
		}
	}
	return Option{}, false
}

func OptionByLabel(options []Option, label string) (Option, bool) {
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}
