package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ismo-hris/hris-backend-go/internal/domain/employee"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	ListOptions(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	ReplaceEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

func employeeFilterFrom(r *http.Request) (employee.EmployeeFilter, bool) {
	sectionID, ok := optionalInt64(r, "section_id")
	if !ok {
		return employee.EmployeeFilter{}, false
	}
	active, ok := optionalBool(r, "active")
	if !ok {
		return employee.EmployeeFilter{}, false
	}
	return employee.EmployeeFilter{
		SectionID: sectionID,
		Active:    active,
		Query:     r.URL.Query().Get("q"),
	}, true
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter, ok := employeeFilterFrom(r)
	if !ok {
		response.BadRequest(w, "Invalid section_id or active filter", nil)
		return
	}

	result, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListOptions returns active employees as dropdown entries.
func (h *employeeHandlerImpl) ListOptions(w http.ResponseWriter, r *http.Request) {
	filter, ok := employeeFilterFrom(r)
	if !ok {
		response.BadRequest(w, "Invalid section_id filter", nil)
		return
	}

	result, err := h.employeeService.Options(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements EmployeeHandler
func (h *employeeHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	day, ok := optionalDate(r, "date")
	if !ok {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}
	if day.IsZero() {
		day = time.Now()
	}

	result, err := h.employeeService.Summary(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := int64URLParam(r, "id")
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.employeeService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// ReplaceEmployee overwrites the whole employee record.
func (h *employeeHandlerImpl) ReplaceEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := int64URLParam(r, "id")
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req employee.UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReplaceEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Replace(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := int64URLParam(r, "id")
	if !ok {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}
