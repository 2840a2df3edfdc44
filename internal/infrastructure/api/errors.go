package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"tryon-studio/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes and the message shown
// to the user. Unknown errors are hidden behind a generic message.
func statusFor(err error) (int, string) {
	var fetchErr *domain.FetchError
	switch {
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, fetchErr.Notice
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, "Please upload a JPG, PNG or WEBP image."
	case errors.Is(err, domain.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "Image is too large (10MB max)."
	case errors.Is(err, domain.ErrRead):
		return http.StatusBadRequest, "The image could not be read."
	case errors.Is(err, domain.ErrEmptyURL):
		return http.StatusBadRequest, "Please enter a product URL."
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest, "Please provide both a photo and a product image."
	case errors.Is(err, domain.ErrGenerationInProgress):
		return http.StatusConflict, "A try-on is already being generated."
	case errors.Is(err, domain.ErrResultShown):
		return http.StatusConflict, "Reset the current result before changing the images."
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found."
	case errors.Is(err, domain.ErrServiceBusy):
		return http.StatusTooManyRequests, "The service is busy. Please wait a moment and try again."
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway, domain.FetchNotice
	default:
		return http.StatusInternalServerError, "Try-on generation failed. Please try again."
	}
}

func sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, errorResponse{Error: message})
}

func (h *TryOnHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("request_id", RequestIDFromContext(r.Context())).
		Int("status", status).
		Msg("request failed")
	sendError(w, message, status)
}
