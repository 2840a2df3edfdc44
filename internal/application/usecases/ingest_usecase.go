package usecases

import (
	"context"
	"fmt"
	"io"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/valueobjects"
)

// FileInput is an uploaded file as declared by the client.
type FileInput struct {
	Name     string
	MimeType string
	Size     int64
	Reader   io.Reader
}

type IngestUseCase struct{}

func NewIngestUseCase() *IngestUseCase {
	return &IngestUseCase{}
}

// Execute validates the declared type and size, reads the bytes and checks
// that they decode as the declared format. The declared size is not trusted:
// at most MaxImageSize+1 bytes are read.
func (uc *IngestUseCase) Execute(ctx context.Context, input FileInput) (*valueobjects.ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := valueobjects.ValidateUpload(input.MimeType, input.Size); err != nil {
		return nil, err
	}

	if input.Reader == nil {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrRead, input.Name)
	}

	data, err := io.ReadAll(io.LimitReader(input.Reader, valueobjects.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRead, input.Name, err)
	}
	if len(data) > valueobjects.MaxImageSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrTooLarge, input.Name, valueobjects.MaxImageSize)
	}

	imageData, err := valueobjects.NewImageData(data, input.MimeType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input.Name, err)
	}

	return imageData, nil
}
