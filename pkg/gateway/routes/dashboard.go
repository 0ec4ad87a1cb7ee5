package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/strokecare/platform/pkg/engine"
	"github.com/strokecare/platform/pkg/gateway/middleware"
)

type DashboardHandler struct {
	engine *engine.Engine
}

func NewDashboardHandler(e *engine.Engine) *DashboardHandler {
	return &DashboardHandler{engine: e}
}

func (h *DashboardHandler) Register(r *mux.Router) {
	r.HandleFunc("/dashboard", h.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/reports/patient", h.handlePatientReport).Methods(http.MethodGet)
}

func (h *DashboardHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.engine.Dashboard(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *DashboardHandler) handlePatientReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.PatientReport(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
