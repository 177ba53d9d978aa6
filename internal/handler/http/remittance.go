package http

import (
	"net/http"
	"strconv"

	"github.com/folhacerta/folha-backend-go/internal/domain/remittance"
	"github.com/folhacerta/folha-backend-go/internal/handler/http/response"
)

type RemittanceHandler interface {
	ListRecords(w http.ResponseWriter, r *http.Request)
	ValidateBankData(w http.ResponseWriter, r *http.Request)
	DownloadBordero(w http.ResponseWriter, r *http.Request)
	DownloadCNAB400(w http.ResponseWriter, r *http.Request)
}

type remittanceHandlerImpl struct {
	remittanceService remittance.Service
}

func NewRemittanceHandler(remittanceService remittance.Service) RemittanceHandler {
	return &remittanceHandlerImpl{remittanceService: remittanceService}
}

func parseGenerateRequest(r *http.Request) (remittance.GenerateRequest, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return remittance.GenerateRequest{}, false
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return remittance.GenerateRequest{}, false
	}

	req := remittance.GenerateRequest{Month: month, Year: year}
	if company := r.URL.Query().Get("company"); company != "" {
		req.CompanyCode = &company
	}
	if costCenter := r.URL.Query().Get("cost_center"); costCenter != "" {
		req.CostCenter = &costCenter
	}
	return req, true
}

func (h *remittanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	req, ok := parseGenerateRequest(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.remittanceService.ListRecords(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *remittanceHandlerImpl) ValidateBankData(w http.ResponseWriter, r *http.Request) {
	req, ok := parseGenerateRequest(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	result, err := h.remittanceService.ValidateBankData(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *remittanceHandlerImpl) DownloadBordero(w http.ResponseWriter, r *http.Request) {
	req, ok := parseGenerateRequest(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	filename, pdf, err := h.remittanceService.GenerateBordero(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.FileDownload(w, filename, "application/pdf", pdf)
}

func (h *remittanceHandlerImpl) DownloadCNAB400(w http.ResponseWriter, r *http.Request) {
	req, ok := parseGenerateRequest(r)
	if !ok {
		response.BadRequest(w, "month and year query parameters are required", nil)
		return
	}

	filename, file, err := h.remittanceService.GenerateCNAB400(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// The bank's clearing system expects Latin-1, not UTF-8.
	response.FileDownload(w, filename, "text/plain; charset=ISO-8859-1", file)
}
