package services

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"tryon-studio/internal/application/usecases"
	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/valueobjects"
)

const (
	multipartOverhead = 1 << 20
	formMemory        = 32 << 20
)

// UploadService turns multipart form files into ingest inputs.
type UploadService struct{}

func NewUploadService() *UploadService {
	return &UploadService{}
}

// LimitBody caps the request body for a form carrying up to files images.
func (s *UploadService) LimitBody(w http.ResponseWriter, r *http.Request, files int) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(files)*valueobjects.MaxImageSize+multipartOverhead)
}

func (s *UploadService) ParseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: failed to parse form: %v", domain.ErrRead, err)
	}
	return nil
}

// FileFromRequest opens the named form file. The caller closes the returned file.
func (s *UploadService) FileFromRequest(r *http.Request, field string) (usecases.FileInput, multipart.File, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return usecases.FileInput{}, nil, fmt.Errorf("%w: %s is required", domain.ErrMissingInput, field)
		}
		return usecases.FileInput{}, nil, fmt.Errorf("%w: %s: %v", domain.ErrRead, field, err)
	}

	return usecases.FileInput{
		Name:     header.Filename,
		MimeType: s.mimeType(header),
		Size:     header.Size,
		Reader:   file,
	}, file, nil
}

// mimeType prefers the part's declared type and falls back to the extension.
func (s *UploadService) mimeType(header *multipart.FileHeader) string {
	declared := valueobjects.NormalizeMimeType(header.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename)))
	if byExt == "" {
		return declared
	}
	return valueobjects.NormalizeMimeType(byExt)
}

func (s *UploadService) getString(r *http.Request, key, defaultValue string) string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// ProductURL reads the url form field.
func (s *UploadService) ProductURL(r *http.Request) string {
	return s.getString(r, "url", "")
}
