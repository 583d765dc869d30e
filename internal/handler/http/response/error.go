package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/domain/letter"
	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"github.com/ismo-hris/hris-backend-go/internal/domain/user"
	"github.com/ismo-hris/hris-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrUserInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrWrongPassword):
		BadRequest(w, "Current password is incorrect", map[string]string{"old_password": "Current password is incorrect"})
	case errors.Is(err, auth.ErrEmployeeNotLinked):
		Forbidden(w, "No employee record is linked to this account")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already exists")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserERPIDExists):
		Conflict(w, "ERP ID already linked to a user")
	case errors.Is(err, user.ErrSuperuserRequired):
		Forbidden(w, "Superuser privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrERPIDExists):
		Conflict(w, "ERP ID already registered")
	case errors.Is(err, employee.ErrHRISIDExists):
		Conflict(w, "HRIS ID already assigned")
	case errors.Is(err, employee.ErrCNICExists):
		Conflict(w, "CNIC already registered")
	case errors.Is(err, employee.ErrEmployeeInUse):
		Conflict(w, "Employee has leave or attendance records; mark them inactive instead")
	case errors.Is(err, employee.ErrRefMismatch):
		BadRequest(w, "Employee id does not match ERP id", nil)
	case errors.Is(err, master.ErrNoFreeHRISID):
		Conflict(w, "No unused HRIS ID left")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrNotApprover):
		Forbidden(w, "Only the designated approver can decide this request")
	case errors.Is(err, leave.ErrNotInSection):
		Forbidden(w, "Employee is not in your section")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		ValidationError(w, map[string]string{"check_out": "Check-out must be after check-in"})

	// Letter domain errors
	case errors.Is(err, letter.ErrLetterNotFound):
		NotFound(w, "Letter not found")
	case errors.Is(err, letter.ErrAttachmentNotFound):
		NotFound(w, "Letter has no attachment")
	case errors.Is(err, letter.ErrInvalidAttachment):
		ValidationError(w, map[string]string{"file": "File type is not allowed"})
	case errors.Is(err, letter.ErrAttachmentTooLarge):
		PayloadTooLarge(w, "Attachment exceeds the upload limit")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
