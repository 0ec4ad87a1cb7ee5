package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/engine"
	"github.com/strokecare/platform/pkg/gateway/middleware"
)

type SharingHandler struct {
	engine *engine.Engine
}

type shareRequest struct {
	AssessmentID   int64       `json:"assessment_id"`
	RecipientEmail string      `json:"recipient_email"`
	RecipientRole  models.Role `json:"recipient_role"`
}

type messageRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewSharingHandler(e *engine.Engine) *SharingHandler {
	return &SharingHandler{engine: e}
}

func (h *SharingHandler) Register(r *mux.Router) {
	r.HandleFunc("/shares", h.handleShare).Methods(http.MethodPost)
	r.HandleFunc("/shares", h.handleOutgoing).Methods(http.MethodGet)
	r.HandleFunc("/shares/visible", h.handleVisible).Methods(http.MethodGet)

	r.HandleFunc("/messages", h.handleSend).Methods(http.MethodPost)
	r.HandleFunc("/messages", h.handleInbox).Methods(http.MethodGet)
	r.HandleFunc("/messages/unread-count", h.handleUnread).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id:[0-9]+}/read", h.handleMarkRead).Methods(http.MethodPost)
}

func (h *SharingHandler) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	grant, err := h.engine.Share(r.Context(), middleware.ViewerFrom(r.Context()), req.AssessmentID, req.RecipientEmail, req.RecipientRole)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, grant)
}

func (h *SharingHandler) handleOutgoing(w http.ResponseWriter, r *http.Request) {
	grants, err := h.engine.OutgoingShares(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"shares": grants})
}

func (h *SharingHandler) handleVisible(w http.ResponseWriter, r *http.Request) {
	grants, err := h.engine.VisibleRecords(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"records": grants})
}

func (h *SharingHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	msg, err := h.engine.SendMessage(r.Context(), middleware.ViewerFrom(r.Context()), req.To, req.Subject, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

func (h *SharingHandler) handleInbox(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.engine.Inbox(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": msgs})
}

func (h *SharingHandler) handleUnread(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.UnreadCount(r.Context(), middleware.ViewerFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": n})
}

func (h *SharingHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}
	msg, err := h.engine.MarkRead(r.Context(), middleware.ViewerFrom(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}
