package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/engine"
	"github.com/strokecare/platform/pkg/fast"
	"github.com/strokecare/platform/pkg/gateway/middleware"
)

type FASTHandler struct {
	engine *engine.Engine
}

type fastResponse struct {
	engine.FASTResult
	SideEffectErrors []string `json:"sideEffectErrors,omitempty"`
}

func NewFASTHandler(e *engine.Engine) *FASTHandler {
	return &FASTHandler{engine: e}
}

func (h *FASTHandler) Register(r *mux.Router) {
	r.HandleFunc("/fast-tests", h.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/fast-tests", h.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/alerts", h.handleAlerts).Methods(http.MethodGet)
}

func (h *FASTHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var obs models.FASTResults
	if err := decodeJSON(r, &obs); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.engine.SubmitFAST(r.Context(), middleware.ViewerFrom(r.Context()), obs)
	if err != nil {
		if result.Outcome.State == fast.StateIncomplete && models.IsValidation(err) {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":   err.Error(),
				"outcome": result.Outcome,
			})
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, fastResponse{FASTResult: result, SideEffectErrors: result.SideEffectMessages()})
}

func (h *FASTHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	tests, err := h.engine.FASTHistory(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"fastTests": tests})
}

func (h *FASTHandler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.engine.Alerts(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}
