package routes

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	gatewayauth "github.com/strokecare/platform/pkg/gateway/auth"
	"github.com/strokecare/platform/pkg/gateway/middleware"
	"github.com/strokecare/platform/pkg/identity"
)

const oidcStateCookie = "strokecare_oidc_state"

// ExternalLogin is the identity provider side of the OIDC login flow.
type ExternalLogin interface {
	LoginURL(state string) string
	Exchange(ctx context.Context, code string) (gatewayauth.ExternalIdentity, error)
}

type AuthHandler struct {
	service     *identity.Service
	tokenSigner *gatewayauth.JWTManager
	external    ExternalLogin
}

// NewAuthHandler wires password login. external may be nil when OIDC is not configured.
func NewAuthHandler(service *identity.Service, tokenSigner *gatewayauth.JWTManager, external ExternalLogin) *AuthHandler {
	return &AuthHandler{service: service, tokenSigner: tokenSigner, external: external}
}

func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/oidc/login", h.handleOIDCLogin).Methods(http.MethodGet)
	r.HandleFunc("/oidc/callback", h.handleOIDCCallback).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(h.tokenSigner))
	protected.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			logger.Log.WithField("email", req.Email).Warn("authentication failed")
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
			return
		}
		respondError(w, err)
		return
	}
	h.issue(w, user)
}

func (h *AuthHandler) handleOIDCLogin(w http.ResponseWriter, r *http.Request) {
	if h.external == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "OIDC login not configured"})
		return
	}
	role := models.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = models.RolePatient
	}
	if !role.Valid() {
		respondError(w, models.NewValidationError("role", "must be patient, caregiver or doctor"))
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oidcStateCookie,
		Value:    state + "|" + string(role),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	http.Redirect(w, r, h.external.LoginURL(state), http.StatusFound)
}

func (h *AuthHandler) handleOIDCCallback(w http.ResponseWriter, r *http.Request) {
	if h.external == nil {
		respondJSON(w, http.StatusNotFound, errorBody{Error: "OIDC login not configured"})
		return
	}
	cookie, err := r.Cookie(oidcStateCookie)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "login state missing"})
		return
	}
	state, role, _ := strings.Cut(cookie.Value, "|")
	if state == "" || state != r.URL.Query().Get("state") {
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "login state mismatch"})
		return
	}

	id, err := h.external.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logger.Log.WithError(err).Warn("OIDC exchange failed")
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "identity provider rejected login"})
		return
	}

	user, err := h.service.FindOrCreateExternal(r.Context(), id.Email, id.Name, id.Subject, models.Role(role))
	if err != nil {
		respondError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oidcStateCookie, Value: "", Path: "/", MaxAge: -1})
	h.issue(w, user)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFrom(r.Context())
	user, err := h.service.CurrentUser(r.Context(), viewer.Email)
	if err != nil {
		if models.IsNotFound(err) {
			respondError(w, models.NewNotFoundError("session", ""))
			return
		}
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) issue(w http.ResponseWriter, user models.User) {
	token, err := h.tokenSigner.IssueToken(user)
	if err != nil {
		logger.Log.WithError(err).Error("failed issuing token")
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	respondJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}
