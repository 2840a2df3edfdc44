package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/valueobjects"
)

type mockGenerator struct {
	analysis *entities.TryOnAnalysis
	swap     bool
	err      error
}

func (m *mockGenerator) GenerateTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.analysis == nil {
		return nil, nil
	}
	base, overlay := request.BaseImage(), request.OverlayImage()
	if m.swap {
		base, overlay = overlay, base
	}
	return entities.NewTryOnResult(request.ID(), base, overlay, *m.analysis)
}

func (m *mockGenerator) Close() error { return nil }

type mockRenderer struct {
	ref valueobjects.ImageRef
	err error
}

func (m *mockRenderer) Render(ctx context.Context, request *entities.TryOnRequest) (valueobjects.ImageRef, error) {
	return m.ref, m.err
}

func validAnalysis() *entities.TryOnAnalysis {
	return &entities.TryOnAnalysis{
		FitAnalysis:        "fits",
		StylingTips:        []string{"a", "b", "c"},
		ComplementaryItems: []string{"d"},
		Occasions:          []string{"e"},
		Confidence:         9,
	}
}

func createTestRequest(t *testing.T) *entities.TryOnRequest {
	t.Helper()
	request, err := entities.NewTryOnRequest(
		valueobjects.NewDataURLRef("image/png", []byte("photo")),
		valueobjects.NewDataURLRef("image/png", []byte("shirt")),
	)
	if err != nil {
		t.Fatalf("Failed to create valid request: %v", err)
	}
	return request
}

func TestTryOnDomainService_ProcessTryOn(t *testing.T) {
	validRequest := createTestRequest(t)

	t.Run("successful processing", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{analysis: validAnalysis()}, nil)
		result, err := service.ProcessTryOn(context.Background(), validRequest)

		if err != nil {
			t.Fatalf("ProcessTryOn() error = %v", err)
		}
		if result.BaseImage() != validRequest.BaseImage() {
			t.Errorf("Result base image does not match request")
		}
		if !result.RenderedImage().IsEmpty() {
			t.Errorf("Expected no rendered image without a renderer")
		}
	})

	t.Run("nil request", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{analysis: validAnalysis()}, nil)
		_, err := service.ProcessTryOn(context.Background(), nil)
		if !errors.Is(err, domain.ErrMissingInput) {
			t.Errorf("Expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("AI service error", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{err: errors.New("AI service failed")}, nil)
		result, err := service.ProcessTryOn(context.Background(), validRequest)

		if err == nil {
			t.Errorf("Expected error, got nil")
		}
		if result != nil {
			t.Errorf("Expected nil result on error")
		}
		if errors.Is(err, domain.ErrServiceBusy) {
			t.Errorf("Plain failure must not be reported as busy")
		}
	})

	t.Run("quota error handling", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{err: errors.New("rpc error: code = ResourceExhausted")}, nil)
		_, err := service.ProcessTryOn(context.Background(), validRequest)

		if !errors.Is(err, domain.ErrServiceBusy) {
			t.Fatalf("Expected ErrServiceBusy, got %v", err)
		}
		if !strings.Contains(err.Error(), "service temporarily unavailable due to high demand") {
			t.Errorf("Expected quota error message, got %v", err.Error())
		}
	})

	t.Run("no result generated", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{}, nil)
		result, err := service.ProcessTryOn(context.Background(), validRequest)

		if err == nil {
			t.Errorf("Expected error for no result")
		}
		if result != nil {
			t.Errorf("Expected nil result when nothing was generated")
		}
	})

	t.Run("swapped images rejected", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{analysis: validAnalysis(), swap: true}, nil)
		if _, err := service.ProcessTryOn(context.Background(), validRequest); err == nil {
			t.Errorf("Expected error for mismatched images")
		}
	})

	t.Run("out of range confidence rejected", func(t *testing.T) {
		analysis := validAnalysis()
		analysis.Confidence = 12
		service := NewTryOnDomainService(&mockGenerator{analysis: analysis}, nil)
		if _, err := service.ProcessTryOn(context.Background(), validRequest); err == nil {
			t.Errorf("Expected error for confidence out of range")
		}
	})

	t.Run("renderer attaches composite", func(t *testing.T) {
		composite := valueobjects.NewDataURLRef("image/png", []byte("composite"))
		service := NewTryOnDomainService(&mockGenerator{analysis: validAnalysis()}, &mockRenderer{ref: composite})
		result, err := service.ProcessTryOn(context.Background(), validRequest)
		if err != nil {
			t.Fatalf("ProcessTryOn() error = %v", err)
		}
		if result.RenderedImage() != composite {
			t.Errorf("Expected rendered image to be attached")
		}
	})

	t.Run("renderer failure keeps analysis", func(t *testing.T) {
		service := NewTryOnDomainService(&mockGenerator{analysis: validAnalysis()}, &mockRenderer{err: errors.New("render failed")})
		result, err := service.ProcessTryOn(context.Background(), validRequest)
		if err != nil {
			t.Fatalf("ProcessTryOn() error = %v", err)
		}
		if !result.RenderedImage().IsEmpty() {
			t.Errorf("Expected no rendered image after a failed render")
		}
	})
}
