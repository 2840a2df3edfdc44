package api

import (
	"time"

	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/valueobjects"
)

type sessionResponse struct {
	ID           string                `json:"id"`
	State        string                `json:"state"`
	BaseImage    valueobjects.ImageRef `json:"baseImage"`
	ProductImage valueobjects.ImageRef `json:"productImage"`
	ProductURL   string                `json:"productUrl"`
	Processing   bool                  `json:"processing"`
	CanGenerate  bool                  `json:"canGenerate"`
	Result       *resultResponse       `json:"result"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

type resultResponse struct {
	ID            string                 `json:"id"`
	RequestID     string                 `json:"requestId"`
	BaseImage     valueobjects.ImageRef  `json:"baseImage"`
	OverlayImage  valueobjects.ImageRef  `json:"overlayImage"`
	RenderedImage valueobjects.ImageRef  `json:"renderedImage"`
	Analysis      entities.TryOnAnalysis `json:"analysis"`
	CreatedAt     time.Time              `json:"createdAt"`
}

type imageResponse struct {
	DataURL  valueobjects.ImageRef `json:"dataUrl"`
	MimeType string                `json:"mimeType"`
	Size     int                   `json:"size"`
}

type productURLRequest struct {
	URL string `json:"url"`
}

func newSessionResponse(s entities.SessionSnapshot) sessionResponse {
	return sessionResponse{
		ID:           string(s.ID),
		State:        string(s.State),
		BaseImage:    s.BaseImage,
		ProductImage: s.ProductImage,
		ProductURL:   s.ProductURL,
		Processing:   s.Processing,
		CanGenerate:  !s.BaseImage.IsEmpty() && !s.ProductImage.IsEmpty() && !s.Processing && s.Result == nil,
		Result:       newResultResponse(s.Result),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func newResultResponse(r *entities.TryOnResult) *resultResponse {
	if r == nil {
		return nil
	}
	return &resultResponse{
		ID:            string(r.ID()),
		RequestID:     string(r.RequestID()),
		BaseImage:     r.BaseImage(),
		OverlayImage:  r.OverlayImage(),
		RenderedImage: r.RenderedImage(),
		Analysis:      r.Analysis(),
		CreatedAt:     r.CreatedAt(),
	}
}
