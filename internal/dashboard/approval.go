package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
)

var (
	ErrNotDecidable = errors.New("you are not the approver of this pending request")
	ErrDeclined     = errors.New("decision cancelled")
)

// CanDecide gates the approve and reject actions of a row. The server
// repeats the check; this one only decides what is shown.
func CanDecide(rec leave.LeaveRequestResponse, id auth.Identity) bool {
	return rec.Status == leave.StatusPending &&
		id.Employee.ERPID != 0 &&
		rec.Approver.ERPID == id.Employee.ERPID
}

// Confirmer asks the user to confirm before a decision is sent.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// Approval runs confirm, POST, refresh for one request kind.
type Approval struct {
	Kind    leave.Kind
	Confirm Confirmer
	Send    func(ctx context.Context, kind leave.Kind, req leave.DecideRequest) (leave.LeaveRequestResponse, error)
	Refresh func(ctx context.Context) error
}

func (a *Approval) Decide(ctx context.Context, id auth.Identity, rec leave.LeaveRequestResponse, action leave.Action) (leave.LeaveRequestResponse, error) {
	if _, ok := action.Status(); !ok {
		return leave.LeaveRequestResponse{}, fmt.Errorf("unknown action %q", action)
	}
	if !CanDecide(rec, id) {
		return leave.LeaveRequestResponse{}, ErrNotDecidable
	}

	prompt := fmt.Sprintf("%s %s of %s (%s to %s)?", action, rec.Kind.Label(), rec.EmployeeName, rec.StartDate, rec.EndDate)
	ok, err := a.Confirm.Confirm(prompt)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !ok {
		return leave.LeaveRequestResponse{}, ErrDeclined
	}

	decided, err := a.Send(ctx, a.Kind, leave.DecideRequest{RecordID: rec.ID, Action: action})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if a.Refresh != nil {
		if err := a.Refresh(ctx); err != nil {
			return decided, err
		}
	}
	return decided, nil
}

// SessionIdentity builds the explicit identity handed to the workflow from
// the stored login payload.
func SessionIdentity(p auth.UserPayload) auth.Identity {
	id := auth.Identity{
		UserID:      p.ID,
		Username:    p.Username,
		Grade:       p.GradeID,
		IsSuperuser: p.IsSuperuser,
	}
	id.Employee.InternalID = p.EmployeeID
	id.Employee.ERPID = p.ERPID
	return id
}
