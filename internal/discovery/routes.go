package discovery

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/embermatch/ember-backend/internal/common/utils"
)

// IdentityMiddleware extracts the caller identity set by the upstream
// gateway. Authentication itself happens before traffic reaches this service.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
			return
		}
		ctx := context.WithValue(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/discovery").Subrouter()
	api.Use(IdentityMiddleware)

	// Ranked matches
	api.HandleFunc("/matches", handler.GetMatches).Methods("GET")

	// Swipes
	api.HandleFunc("/swipes", handler.RecordSwipe).Methods("POST")

	// Saved filters
	api.HandleFunc("/filters", handler.GetFilters).Methods("GET")
	api.HandleFunc("/filters", handler.UpdateFilters).Methods("PUT")

	// Compatibility
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")
}
