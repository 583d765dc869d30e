package http

import (
	"net/http"

	"github.com/ismo-hris/hris-backend-go/internal/domain/master"
	"github.com/ismo-hris/hris-backend-go/internal/handler/http/response"
)

type MasterHandler interface {
	Lookups(w http.ResponseWriter, r *http.Request)
	ListSections(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// Lookups returns every dropdown list of the employee form in one call.
func (h *masterHandlerImpl) Lookups(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.Lookups(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListSections(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListSections(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
