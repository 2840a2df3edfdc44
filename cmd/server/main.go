package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"tryon-studio/internal/application/services"
	"tryon-studio/internal/application/usecases"
	domainrepos "tryon-studio/internal/domain/repositories"
	domainservices "tryon-studio/internal/domain/services"
	"tryon-studio/internal/infrastructure/api"
	"tryon-studio/internal/infrastructure/config"
	"tryon-studio/internal/infrastructure/external"
	"tryon-studio/internal/infrastructure/repositories"
	infraservices "tryon-studio/internal/infrastructure/services"
)

func main() {
	// .env は任意
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg.AppEnv)
	log.Logger = logger

	// Initialize infrastructure layer
	httpClient := external.NewHTTPClient(cfg.FetchTimeout)
	images := external.NewHTTPImageFetcher(httpClient)
	clientPool := infraservices.NewClientPoolService(domainrepos.AIClientConfig{
		ProjectID:    cfg.ProjectID,
		Location:     cfg.Location,
		GeminiAPIKey: cfg.GeminiAPIKey,
	})
	defer clientPool.Close()

	generator := newGenerator(cfg, clientPool, images)
	defer generator.Close()

	resolver, err := newResolver(cfg, httpClient, images)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create product resolver")
	}

	var renderer domainrepos.TryOnRenderer
	if cfg.RenderTryOn {
		renderer = external.NewVirtualTryOnRenderer(cfg.ProjectID, cfg.Location, cfg.VTOModel, images)
	}

	sessionRepository := repositories.NewMemorySessionRepository()
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if cfg.SessionTTL > 0 {
		sessionRepository.StartJanitor(janitorCtx, cfg.SessionSweepInterval, cfg.SessionTTL)
	}

	// Initialize domain layer
	tryOnDomainService := domainservices.NewTryOnDomainService(generator, renderer)

	// Initialize application layer
	ingestUseCase := usecases.NewIngestUseCase()
	tryOnUseCase := usecases.NewTryOnUseCase(sessionRepository, ingestUseCase, resolver, tryOnDomainService)
	uploadService := services.NewUploadService()

	// Initialize API layer
	handler := api.NewTryOnHandler(tryOnUseCase, ingestUseCase, uploadService)
	router := api.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("generator", cfg.GeneratorBackend).
			Str("resolver", cfg.ResolverBackend).
			Bool("render", cfg.RenderTryOn).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	stopJanitor()
	logger.Info().Msg("server stopped")
}

func newGenerator(cfg *config.Config, pool domainrepos.ClientPoolService, images domainrepos.ImageFetcher) domainrepos.TryOnGenerator {
	switch cfg.GeneratorBackend {
	case config.BackendGemini:
		return external.NewGeminiGenerator(pool.GenAIPool(), images, cfg.GeminiModel)
	case config.BackendVertex:
		return external.NewVertexGenerator(pool.VertexAIPool(), images, cfg.VertexModel)
	default:
		return external.NewDemoGenerator(cfg.DemoGenerateDelay, nil)
	}
}

func newResolver(cfg *config.Config, client *resty.Client, images domainrepos.ImageFetcher) (domainrepos.ProductResolver, error) {
	if cfg.ResolverBackend == config.BackendPage {
		return external.NewPageResolver(client, images), nil
	}
	return external.NewDemoResolver(cfg.DemoResolveDelay, cfg.PlaceholderImageURL, nil)
}
