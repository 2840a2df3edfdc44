package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter registers every route of the service.
func NewRouter(handler *TryOnHandler, logger zerolog.Logger, allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Recoverer(logger), Logger(logger), CORS(allowedOrigins))

	r.HandleFunc("/", handler.HandleIndex).Methods("GET")
	r.HandleFunc("/healthz", handler.HandleHealth).Methods("GET")
	r.HandleFunc("/tryon", handler.HandleTryOn).Methods("POST", "OPTIONS")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/images", handler.HandleIngest).Methods("POST", "OPTIONS")
	api.HandleFunc("/sessions", handler.HandleCreateSession).Methods("POST", "OPTIONS")
	api.HandleFunc("/sessions/{id}", handler.HandleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", handler.HandleDeleteSession).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/sessions/{id}/base-image", handler.HandleUploadBaseImage).Methods("PUT", "OPTIONS")
	api.HandleFunc("/sessions/{id}/product-image", handler.HandleUploadProductImage).Methods("PUT", "OPTIONS")
	api.HandleFunc("/sessions/{id}/product-url", handler.HandleProductURL).Methods("POST", "OPTIONS")
	api.HandleFunc("/sessions/{id}/generate", handler.HandleGenerate).Methods("POST", "OPTIONS")
	api.HandleFunc("/sessions/{id}/reset", handler.HandleReset).Methods("POST", "OPTIONS")
	api.HandleFunc("/sessions/{id}/clear", handler.HandleClear).Methods("POST", "OPTIONS")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, "Not found.", http.StatusNotFound)
	})
	return r
}
