package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/handler/http/response"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
	payrollService "github.com/workpulse/payroll-engine-go/internal/service/payroll"
)

type PayrollHandler interface {
	GenerateCycle(w http.ResponseWriter, r *http.Request)
	RegenerateCycle(w http.ResponseWriter, r *http.Request)
	GetCycleSummary(w http.ResponseWriter, r *http.Request)
	ApproveEntry(w http.ResponseWriter, r *http.Request)
	PayEntry(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService *payrollService.Service
}

func NewPayrollHandler(svc *payrollService.Service) PayrollHandler {
	return &payrollHandlerImpl{payrollService: svc}
}

func (h *payrollHandlerImpl) GenerateCycle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	var req payroll.GenerateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll cycle generated", result)
}

func (h *payrollHandlerImpl) RegenerateCycle(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	var req payroll.GenerateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Regenerate(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle regenerated", result)
}

func (h *payrollHandlerImpl) GetCycleSummary(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	period, err := validator.ParsePeriod(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "Month must be in YYYY-MM format", nil)
		return
	}

	result, err := h.payrollService.GetCycleSummary(r.Context(), companyID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Entry ID must be a valid UUID", nil)
		return
	}

	entry, err := h.payrollService.ApproveEntry(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll entry approved", payroll.MapEntryResponse(entry))
}

func (h *payrollHandlerImpl) PayEntry(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Entry ID must be a valid UUID", nil)
		return
	}

	entry, err := h.payrollService.PayEntry(r.Context(), id, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll entry paid", payroll.MapEntryResponse(entry))
}
