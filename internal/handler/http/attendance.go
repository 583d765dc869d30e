package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/attendance"
	"github.com/ismo-hris/hris-backend-go/internal/domain/auth"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Overview(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	UpsertShift(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Overview flags every employee of the caller's section for one day.
func (h *attendanceHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	day, ok := optionalDate(r, "date")
	if !ok {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}
	if day.IsZero() {
		day = time.Now()
	}

	result, err := h.attendanceService.Overview(r.Context(), id, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	erpID, ok := optionalInt64(r, "erp_id")
	if !ok || erpID == nil {
		response.BadRequest(w, "erp_id is required", nil)
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

	result, err := h.attendanceService.List(r.Context(), attendance.ListFilter{ERPID: *erpID, From: from, To: to})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpsertShift adds or replaces one day's punches.
func (h *attendanceHandlerImpl) UpsertShift(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req attendance.UpsertShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpsertShift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.UpsertShift(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance saved successfully", result)
}
