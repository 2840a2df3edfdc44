package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/valueobjects"
)

const (
	MinConfidence = 0
	MaxConfidence = 10
)

// TryOnAnalysis is the styling commentary attached to every result.
type TryOnAnalysis struct {
	FitAnalysis        string   `json:"fitAnalysis"`
	StylingTips        []string `json:"stylingTips"`
	ComplementaryItems []string `json:"complementaryItems"`
	Occasions          []string `json:"occasions"`
	Confidence         int      `json:"confidence"`
}

// Validate reports whether every field is populated and confidence is in range.
func (a TryOnAnalysis) Validate() error {
	if a.FitAnalysis == "" {
		return fmt.Errorf("analysis: fit analysis is empty")
	}
	if len(a.StylingTips) == 0 {
		return fmt.Errorf("analysis: no styling tips")
	}
	if len(a.ComplementaryItems) == 0 {
		return fmt.Errorf("analysis: no complementary items")
	}
	if len(a.Occasions) == 0 {
		return fmt.Errorf("analysis: no occasions")
	}
	if a.Confidence < MinConfidence || a.Confidence > MaxConfidence {
		return fmt.Errorf("analysis: confidence %d outside [%d,%d]", a.Confidence, MinConfidence, MaxConfidence)
	}
	return nil
}

// ClampConfidence forces v into the confidence range.
func ClampConfidence(v int) int {
	return max(MinConfidence, min(MaxConfidence, v))
}

type TryOnResultID string

type TryOnResult struct {
	id            TryOnResultID
	requestID     TryOnRequestID
	baseImage     valueobjects.ImageRef
	overlayImage  valueobjects.ImageRef
	renderedImage valueobjects.ImageRef
	analysis      TryOnAnalysis
	createdAt     time.Time
}

// NewTryOnResult refuses to build a result unless both image refs are set.
func NewTryOnResult(
	requestID TryOnRequestID,
	baseImage valueobjects.ImageRef,
	overlayImage valueobjects.ImageRef,
	analysis TryOnAnalysis,
) (*TryOnResult, error) {
	if baseImage.IsEmpty() || overlayImage.IsEmpty() {
		return nil, fmt.Errorf("%w: result needs base and overlay images", domain.ErrMissingInput)
	}

	return &TryOnResult{
		id:           TryOnResultID("result_" + uuid.NewString()),
		requestID:    requestID,
		baseImage:    baseImage,
		overlayImage: overlayImage,
		analysis:     analysis,
		createdAt:    time.Now(),
	}, nil
}

func (r *TryOnResult) ID() TryOnResultID {
	return r.id
}

func (r *TryOnResult) RequestID() TryOnRequestID {
	return r.requestID
}

func (r *TryOnResult) BaseImage() valueobjects.ImageRef {
	return r.baseImage
}

func (r *TryOnResult) OverlayImage() valueobjects.ImageRef {
	return r.overlayImage
}

// RenderedImage is empty unless a backend produced a composite.
func (r *TryOnResult) RenderedImage() valueobjects.ImageRef {
	return r.renderedImage
}

// Analysis returns a copy; the slices are not shared with the result.
func (r *TryOnResult) Analysis() TryOnAnalysis {
	a := r.analysis
	a.StylingTips = append([]string(nil), a.StylingTips...)
	a.ComplementaryItems = append([]string(nil), a.ComplementaryItems...)
	a.Occasions = append([]string(nil), a.Occasions...)
	return a
}

func (r *TryOnResult) CreatedAt() time.Time {
	return r.createdAt
}

// WithRenderedImage returns a copy carrying the composite.
func (r *TryOnResult) WithRenderedImage(ref valueobjects.ImageRef) *TryOnResult {
	cp := *r
	cp.renderedImage = ref
	return &cp
}
