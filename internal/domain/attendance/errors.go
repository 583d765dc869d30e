package attendance

import "errors"

var (
	ErrCheckOutBeforeCheckIn = errors.New("check-out must be after check-in")
)
