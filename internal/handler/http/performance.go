package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
	"github.com/workpulse/payroll-engine-go/internal/handler/http/response"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
	performanceService "github.com/workpulse/payroll-engine-go/internal/service/performance"
)

type PerformanceHandler interface {
	Calculate(w http.ResponseWriter, r *http.Request)
	GetScore(w http.ResponseWriter, r *http.Request)
	ListScores(w http.ResponseWriter, r *http.Request)
}

type performanceHandlerImpl struct {
	performanceService *performanceService.Service
}

func NewPerformanceHandler(svc *performanceService.Service) PerformanceHandler {
	return &performanceHandlerImpl{performanceService: svc}
}

// Calculate recomputes scores for one month: one employee when
// employee_id is set, the whole company otherwise.
func (h *performanceHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	var req performance.CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if req.EmployeeID != "" {
		score, err := h.performanceService.CalculateForEmployee(r.Context(), companyID, req.EmployeeID, req.Period())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.SuccessWithMessage(w, "Performance score calculated", performance.MapScoreResponse(score))
		return
	}

	scores, err := h.performanceService.CalculateForCompany(r.Context(), companyID, req.Period())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Performance scores calculated", performance.MapScoreResponses(scores))
}

func (h *performanceHandlerImpl) GetScore(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Company scope is required")
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !validator.IsValidUUID(employeeID) {
		response.BadRequest(w, "Employee ID must be a valid UUID", nil)
		return
	}

	period, err := validator.ParsePeriod(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "Month must be in YYYY-MM format", nil)
		return
	}

	score, err := h.performanceService.GetScore(r.Context(), companyID, employeeID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, performance.MapScoreResponse(score))
}

func (h *performanceHandlerImpl) ListScores(w http.ResponseWriter, r *http.Request) {
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

	scores, err := h.performanceService.ListScores(r.Context(), companyID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, performance.MapScoreResponses(scores))
}
