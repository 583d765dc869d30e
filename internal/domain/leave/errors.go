package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrNotApprover                  = errors.New("only the designated approver can decide this request")
	ErrNotInSection                 = errors.New("employee is not in your section")
)
