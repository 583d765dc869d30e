package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/domain/leave"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListRequests(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
}

// LeaveHandlerImpl serves one request kind. The router mounts one instance
// for leaves and one for official work.
type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	kind         leave.Kind
}

func NewLeaveHandler(leaveService leave.LeaveService, kind leave.Kind) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		kind:         kind,
	}
}

// ListRequests lists the requests of the caller's section.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	filter := leave.ListFilter{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Query:    r.URL.Query().Get("q"),
	}

	result, err := l.leaveService.List(r.Context(), id, l.kind, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateRequest implements LeaveHandler
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req leave.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err, "kind", l.kind)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.leaveService.Create(r.Context(), id, l.kind, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, l.kind.Label()+" submitted successfully", result)
}

// DecideRequest approves or rejects a pending request.
func (l *LeaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req leave.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideRequest decode error", "error", err, "kind", l.kind)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.leaveService.Decide(r.Context(), id, l.kind, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, l.kind.Label()+" "+string(result.Status), result)
}

// Report totals leave days per employee and category.
func (l *LeaveHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	sectionID, ok := optionalInt64(r, "section_id")
	if !ok {
		response.BadRequest(w, "Invalid section_id", nil)
		return
	}
	from, ok := optionalDate(r, "from")
	if !ok {
		response.BadRequest(w, "from must be YYYY-MM-DD", nil)
		return
	}
	to, ok := optionalDate(r, "to")
	if !ok {
		response.BadRequest(w, "to must be YYYY-MM-DD", nil)
		return
	}

	filter := leave.ReportFilter{
		SectionID: sectionID,
		Category:  r.URL.Query().Get("category"),
		From:      from,
		To:        to,
	}

	result, err := l.leaveService.Report(r.Context(), id, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
