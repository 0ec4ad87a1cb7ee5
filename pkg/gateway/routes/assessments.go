package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/engine"
	"github.com/strokecare/platform/pkg/gateway/middleware"
)

type AssessmentHandler struct {
	engine *engine.Engine
}

func NewAssessmentHandler(e *engine.Engine) *AssessmentHandler {
	return &AssessmentHandler{engine: e}
}

func (h *AssessmentHandler) Register(r *mux.Router) {
	r.HandleFunc("/assessments", h.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/assessments", h.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/assessments/current", h.handleCurrent).Methods(http.MethodGet)
	r.HandleFunc("/assessments/current", h.handleClearCurrent).Methods(http.MethodDelete)
	r.HandleFunc("/assessments/{id:[0-9]+}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/guidance/diet", h.handleDiet).Methods(http.MethodGet)
}

func (h *AssessmentHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var form models.FormData
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, err)
		return
	}
	assessment, err := h.engine.SubmitAssessment(r.Context(), middleware.ViewerFrom(r.Context()), form)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, assessment)
}

func (h *AssessmentHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.engine.History(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"assessments": history})
}

func (h *AssessmentHandler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := h.engine.CurrentResult(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, current)
}

func (h *AssessmentHandler) handleClearCurrent(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ClearCurrentResult(r.Context(), middleware.ViewerFrom(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssessmentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.engine.DeleteAssessment(r.Context(), middleware.ViewerFrom(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssessmentHandler) handleDiet(w http.ResponseWriter, r *http.Request) {
	plan, err := h.engine.DietPlan(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}
