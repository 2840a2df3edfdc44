package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/repositories"
	"tryon-studio/internal/domain/services"
	"tryon-studio/internal/domain/valueobjects"
)

type TryOnUseCase struct {
	sessions      repositories.SessionRepository
	ingest        *IngestUseCase
	resolver      repositories.ProductResolver
	domainService *services.TryOnDomainService
}

func NewTryOnUseCase(
	sessions repositories.SessionRepository,
	ingest *IngestUseCase,
	resolver repositories.ProductResolver,
	domainService *services.TryOnDomainService,
) *TryOnUseCase {
	return &TryOnUseCase{
		sessions:      sessions,
		ingest:        ingest,
		resolver:      resolver,
		domainService: domainService,
	}
}

// TryOnInput is a one-shot request carrying both uploads.
type TryOnInput struct {
	BaseImage    FileInput
	ProductImage FileInput
}

func (uc *TryOnUseCase) CreateSession(ctx context.Context) (entities.SessionSnapshot, error) {
	session := entities.NewSession()
	if err := uc.sessions.Save(ctx, session); err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("failed to save session: %w", err)
	}
	log.Debug().Str("session_id", string(session.ID())).Msg("session created")
	return session.Snapshot(), nil
}

func (uc *TryOnUseCase) GetSession(ctx context.Context, id entities.SessionID) (entities.SessionSnapshot, error) {
	session, err := uc.sessions.FindByID(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (uc *TryOnUseCase) DeleteSession(ctx context.Context, id entities.SessionID) error {
	return uc.sessions.Delete(ctx, id)
}

func (uc *TryOnUseCase) UploadBaseImage(ctx context.Context, id entities.SessionID, input FileInput) (entities.SessionSnapshot, error) {
	return uc.upload(ctx, id, input, (*entities.Session).SetBaseImage)
}

func (uc *TryOnUseCase) UploadProductImage(ctx context.Context, id entities.SessionID, input FileInput) (entities.SessionSnapshot, error) {
	return uc.upload(ctx, id, input, (*entities.Session).SetProductImage)
}

func (uc *TryOnUseCase) upload(
	ctx context.Context,
	id entities.SessionID,
	input FileInput,
	set func(*entities.Session, valueobjects.ImageRef) error,
) (entities.SessionSnapshot, error) {
	session, err := uc.sessions.FindByID(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}
	if err := session.CanEditInputs(); err != nil {
		return entities.SessionSnapshot{}, err
	}

	imageData, err := uc.ingest.Execute(ctx, input)
	if err != nil {
		return entities.SessionSnapshot{}, fmt.Errorf("invalid image: %w", err)
	}

	if err := set(session, imageData.Ref()); err != nil {
		return entities.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// FetchProduct resolves a product page URL into the session's product image.
// On any resolver failure the product image is left as it was and a
// *domain.FetchError carrying the user notice is returned. The URL is recorded
// before resolving, so the session keeps the last URL tried even when it fails.
func (uc *TryOnUseCase) FetchProduct(ctx context.Context, id entities.SessionID, url string) (entities.SessionSnapshot, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return entities.SessionSnapshot{}, domain.ErrEmptyURL
	}

	session, err := uc.sessions.FindByID(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}
	if err := session.SetProductURL(url); err != nil {
		return entities.SessionSnapshot{}, err
	}

	ref, err := uc.resolver.Resolve(context.WithoutCancel(ctx), url)
	if err == nil && ref.IsEmpty() {
		err = fmt.Errorf("no product image found")
	}
	if err != nil {
		log.Error().Err(err).Str("session_id", string(id)).Str("url", url).Msg("product fetch failed")
		return entities.SessionSnapshot{}, domain.NewFetchError(url, err)
	}

	if err := session.SetProductImage(ref); err != nil {
		return entities.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Generate runs the try-on for a session. Only one generation per session
// can be in flight; once started it runs to completion even if ctx is
// cancelled.
func (uc *TryOnUseCase) Generate(ctx context.Context, id entities.SessionID) (entities.SessionSnapshot, error) {
	session, err := uc.sessions.FindByID(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}

	request, err := session.BeginGeneration()
	if err != nil {
		return entities.SessionSnapshot{}, err
	}

	completed := false
	defer func() {
		// also runs while a generator panic unwinds
		if !completed {
			session.FailGeneration()
		}
	}()

	logger := log.With().Str("session_id", string(id)).Str("request_id", string(request.ID())).Logger()
	logger.Info().Msg("try-on generation started")

	result, err := uc.domainService.ProcessTryOn(context.WithoutCancel(ctx), request)
	if err != nil {
		logger.Error().Err(err).Msg("try-on generation failed")
		return entities.SessionSnapshot{}, err
	}

	if err := session.CompleteGeneration(result); err != nil {
		return entities.SessionSnapshot{}, err
	}
	completed = true
	logger.Info().Int("confidence", result.Analysis().Confidence).Msg("try-on generation finished")
	return session.Snapshot(), nil
}

func (uc *TryOnUseCase) Reset(ctx context.Context, id entities.SessionID) (entities.SessionSnapshot, error) {
	session, err := uc.sessions.FindByID(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}
	if err := session.Reset(); err != nil {
		return entities.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (uc *TryOnUseCase) Clear(ctx context.Context, id entities.SessionID) (entities.SessionSnapshot, error) {
	session, err := uc.sessions.FindByID(ctx, id)
	if err != nil {
		return entities.SessionSnapshot{}, err
	}
	if err := session.Clear(); err != nil {
		return entities.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Execute ingests both uploads in parallel and generates without a session.
func (uc *TryOnUseCase) Execute(ctx context.Context, input TryOnInput) (*entities.TryOnResult, error) {
	var baseImage, productImage *valueobjects.ImageData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		imageData, err := uc.ingest.Execute(gctx, input.BaseImage)
		if err != nil {
			return fmt.Errorf("invalid base image: %w", err)
		}
		baseImage = imageData
		return nil
	})
	g.Go(func() error {
		imageData, err := uc.ingest.Execute(gctx, input.ProductImage)
		if err != nil {
			return fmt.Errorf("invalid product image: %w", err)
		}
		productImage = imageData
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	request, err := entities.NewTryOnRequest(baseImage.Ref(), productImage.Ref())
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return uc.domainService.ProcessTryOn(context.WithoutCancel(ctx), request)
}
