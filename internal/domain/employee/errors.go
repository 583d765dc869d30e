package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrERPIDExists      = errors.New("ERP ID already registered")
	ErrHRISIDExists     = errors.New("HRIS ID already assigned")
	ErrCNICExists       = errors.New("CNIC already registered")
	ErrRefMismatch      = errors.New("employee id does not match ERP id")
	ErrEmployeeInUse    = errors.New("employee has leave or attendance records")
)
