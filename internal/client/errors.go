package client

import (
	"fmt"
	"sort"
	"strings"
)

// NetworkError is a transport failure: the API was not reached or the
// response could not be read.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is a 4xx or 5xx answer carrying the API error envelope.
type ServerError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *ServerError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Details[k])
	}
	return fmt.Sprintf("%s (%d %s): %s", e.Message, e.Status, e.Code, strings.Join(parts, "; "))
}

// IsValidation reports whether the server rejected the fields of a request.
func (e *ServerError) IsValidation() bool {
	return e.Code == "VALIDATION_ERROR"
}
