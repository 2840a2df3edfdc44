package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"tryon-studio/internal/application/services"
	"tryon-studio/internal/application/usecases"
	"tryon-studio/internal/domain/entities"
)

const maxJSONBody = 64 << 10

type TryOnHandler struct {
	tryOnUseCase  *usecases.TryOnUseCase
	ingestUseCase *usecases.IngestUseCase
	uploadService *services.UploadService
}

func NewTryOnHandler(
	tryOnUseCase *usecases.TryOnUseCase,
	ingestUseCase *usecases.IngestUseCase,
	uploadService *services.UploadService,
) *TryOnHandler {
	return &TryOnHandler{
		tryOnUseCase:  tryOnUseCase,
		ingestUseCase: ingestUseCase,
		uploadService: uploadService,
	}
}

func (h *TryOnHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *TryOnHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

// HandleIngest validates a single upload and echoes it back as a data URL.
func (h *TryOnHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	h.uploadService.LimitBody(w, r, 1)
	if err := h.uploadService.ParseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	input, file, err := h.uploadService.FileFromRequest(r, "image")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer file.Close()

	imageData, err := h.ingestUseCase.Execute(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, imageResponse{
		DataURL:  imageData.Ref(),
		MimeType: imageData.MimeType(),
		Size:     imageData.Size(),
	})
}

// HandleTryOn runs a one-shot try-on without a session.
func (h *TryOnHandler) HandleTryOn(w http.ResponseWriter, r *http.Request) {
	h.uploadService.LimitBody(w, r, 2)
	if err := h.uploadService.ParseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	personInput, personFile, err := h.uploadService.FileFromRequest(r, "person_image")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer personFile.Close()

	garmentInput, garmentFile, err := h.uploadService.FileFromRequest(r, "garment_image")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer garmentFile.Close()

	result, err := h.tryOnUseCase.Execute(r.Context(), usecases.TryOnInput{
		BaseImage:    personInput,
		ProductImage: garmentInput,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, newResultResponse(result))
}

func (h *TryOnHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tryOnUseCase.CreateSession(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/sessions/%s", snapshot.ID))
	sendJSON(w, http.StatusCreated, newSessionResponse(snapshot))
}

func (h *TryOnHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tryOnUseCase.GetSession(r.Context(), sessionID(r))
	h.respondSession(w, r, snapshot, err)
}

func (h *TryOnHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.tryOnUseCase.DeleteSession(r.Context(), sessionID(r)); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TryOnHandler) HandleUploadBaseImage(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, h.tryOnUseCase.UploadBaseImage)
}

func (h *TryOnHandler) HandleUploadProductImage(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, h.tryOnUseCase.UploadProductImage)
}

type uploadFunc func(ctx context.Context, id entities.SessionID, input usecases.FileInput) (entities.SessionSnapshot, error)

func (h *TryOnHandler) handleUpload(w http.ResponseWriter, r *http.Request, upload uploadFunc) {
	h.uploadService.LimitBody(w, r, 1)
	if err := h.uploadService.ParseForm(r); err != nil {
		h.handleError(w, r, err)
		return
	}

	input, file, err := h.uploadService.FileFromRequest(r, "image")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	defer file.Close()

	snapshot, err := upload(r.Context(), sessionID(r), input)
	h.respondSession(w, r, snapshot, err)
}

func (h *TryOnHandler) HandleProductURL(w http.ResponseWriter, r *http.Request) {
	var body productURLRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			sendError(w, "Request body must be JSON like {\"url\": \"https://...\"}.", http.StatusBadRequest)
			return
		}
	} else {
		// plain HTML form submission
		body.URL = h.uploadService.ProductURL(r)
	}

	snapshot, err := h.tryOnUseCase.FetchProduct(r.Context(), sessionID(r), body.URL)
	h.respondSession(w, r, snapshot, err)
}

func (h *TryOnHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tryOnUseCase.Generate(r.Context(), sessionID(r))
	h.respondSession(w, r, snapshot, err)
}

func (h *TryOnHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tryOnUseCase.Reset(r.Context(), sessionID(r))
	h.respondSession(w, r, snapshot, err)
}

func (h *TryOnHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tryOnUseCase.Clear(r.Context(), sessionID(r))
	h.respondSession(w, r, snapshot, err)
}

func (h *TryOnHandler) respondSession(w http.ResponseWriter, r *http.Request, snapshot entities.SessionSnapshot, err error) {
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	log.Debug().
		Str("session_id", string(snapshot.ID)).
		Str("state", string(snapshot.State)).
		Msg("session updated")
	sendJSON(w, http.StatusOK, newSessionResponse(snapshot))
}

func sessionID(r *http.Request) entities.SessionID {
	return entities.SessionID(mux.Vars(r)["id"])
}
