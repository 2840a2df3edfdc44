package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/repositories"
)

type TryOnDomainService struct {
	generator repositories.TryOnGenerator
	renderer  repositories.TryOnRenderer
}

// NewTryOnDomainService wires the generator. renderer may be nil.
func NewTryOnDomainService(generator repositories.TryOnGenerator, renderer repositories.TryOnRenderer) *TryOnDomainService {
	return &TryOnDomainService{
		generator: generator,
		renderer:  renderer,
	}
}

func (s *TryOnDomainService) ProcessTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	if err := s.validateRequest(request); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}

	result, err := s.generator.GenerateTryOn(ctx, request)
	if err != nil {
		if s.isQuotaError(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrServiceBusy, err)
		}
		return nil, fmt.Errorf("try-on generation failed: %w", err)
	}

	if err := s.validateResult(request, result); err != nil {
		return nil, fmt.Errorf("try-on generation returned an invalid result: %w", err)
	}

	if s.renderer != nil {
		// A failed render still leaves a usable analysis.
		rendered, err := s.renderer.Render(ctx, request)
		if err != nil {
			log.Warn().Err(err).Str("request_id", string(request.ID())).Msg("try-on render failed")
		} else if !rendered.IsEmpty() {
			result = result.WithRenderedImage(rendered)
		}
	}

	return result, nil
}

func (s *TryOnDomainService) validateRequest(request *entities.TryOnRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request is nil", domain.ErrMissingInput)
	}

	if request.BaseImage().IsEmpty() {
		return fmt.Errorf("%w: base image is required", domain.ErrMissingInput)
	}

	if request.OverlayImage().IsEmpty() {
		return fmt.Errorf("%w: product image is required", domain.ErrMissingInput)
	}

	return nil
}

func (s *TryOnDomainService) validateResult(request *entities.TryOnRequest, result *entities.TryOnResult) error {
	if result == nil {
		return fmt.Errorf("no result generated")
	}
	if result.BaseImage() != request.BaseImage() || result.OverlayImage() != request.OverlayImage() {
		return fmt.Errorf("result images do not match the request")
	}
	return result.Analysis().Validate()
}

func (s *TryOnDomainService) isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "resourceexhausted") ||
		strings.Contains(errStr, "resource_exhausted")
}
