package master

import "errors"

var (
	ErrNoFreeHRISID = errors.New("no unused HRIS id left")
)
