package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/valueobjects"
)

type TryOnRequestID string

// TryOnRequest pairs the base photo with the product image to be tried on.
type TryOnRequest struct {
	id           TryOnRequestID
	baseImage    valueobjects.ImageRef
	overlayImage valueobjects.ImageRef
	createdAt    time.Time
}

func NewTryOnRequest(baseImage, overlayImage valueobjects.ImageRef) (*TryOnRequest, error) {
	if baseImage.IsEmpty() {
		return nil, fmt.Errorf("%w: base image is required", domain.ErrMissingInput)
	}

	if overlayImage.IsEmpty() {
		return nil, fmt.Errorf("%w: product image is required", domain.ErrMissingInput)
	}

	return &TryOnRequest{
		id:           TryOnRequestID("req_" + uuid.NewString()),
		baseImage:    baseImage,
		overlayImage: overlayImage,
		createdAt:    time.Now(),
	}, nil
}

func (r *TryOnRequest) ID() TryOnRequestID {
	return r.id
}

func (r *TryOnRequest) BaseImage() valueobjects.ImageRef {
	return r.baseImage
}

func (r *TryOnRequest) OverlayImage() valueobjects.ImageRef {
	return r.overlayImage
}

func (r *TryOnRequest) CreatedAt() time.Time {
	return r.createdAt
}
