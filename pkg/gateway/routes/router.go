package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	gatewayauth "github.com/strokecare/platform/pkg/gateway/auth"
	"github.com/strokecare/platform/pkg/gateway/middleware"
)

type Handlers struct {
	Auth        *AuthHandler
	Assessments *AssessmentHandler
	FAST        *FASTHandler
	Sharing     *SharingHandler
	Dashboard   *DashboardHandler
	Health      *HealthHandler
}

// NewRouter mounts the API under /api/v1. Everything except the auth
// endpoints requires a session token.
func NewRouter(h Handlers, tokens *gatewayauth.JWTManager, mws ...mux.MiddlewareFunc) *mux.Router {
	router := mux.NewRouter()
	for _, mw := range mws {
		router.Use(mw)
	}

	h.Health.Register(router)

	api := router.PathPrefix("/api/v1").Subrouter()
	h.Auth.Register(api.PathPrefix("/auth").Subrouter())

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(tokens))
	h.Assessments.Register(protected)
	h.FAST.Register(protected)
	h.Sharing.Register(protected)
	h.Dashboard.Register(protected)

	// Router middleware only runs on a matched route, so preflights need one.
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return router
}
