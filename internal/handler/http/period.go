package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/folhacerta/folha-backend-go/internal/domain/period"
	"github.com/folhacerta/folha-backend-go/internal/handler/http/response"
)

type PeriodHandler interface {
	GetStatus(w http.ResponseWriter, r *http.Request)
	Finalize(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)
	GetReopenHistory(w http.ResponseWriter, r *http.Request)
}

type periodHandlerImpl struct {
	periodService period.Service
}

func NewPeriodHandler(periodService period.Service) PeriodHandler {
	return &periodHandlerImpl{periodService: periodService}
}

// parsePeriodQuery reads the month/year query pair shared by the read endpoints.
func parsePeriodQuery(r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

func (h *periodHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriodQuery(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.periodService.GetStatus(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *periodHandlerImpl) Finalize(w http.ResponseWriter, r *http.Request) {
	var req period.FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.periodService.Finalize(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period finalized", result)
}

func (h *periodHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	var req period.ReopenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.periodService.Reopen(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period reopened", result)
}

func (h *periodHandlerImpl) GetReopenHistory(w http.ResponseWriter, r *http.Request) {
	month, year, ok := parsePeriodQuery(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.periodService.ReopenHistory(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
