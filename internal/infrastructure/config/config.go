package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendDemo   = "demo"
	BackendGemini = "gemini"
	BackendVertex = "vertex"
	BackendPage   = "page"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	GeneratorBackend    string
	ResolverBackend     string
	DemoGenerateDelay   time.Duration
	DemoResolveDelay    time.Duration
	PlaceholderImageURL string
	GeminiAPIKey        string
	GeminiModel         string
	ProjectID           string
	Location            string
	VertexModel         string
	VTOModel            string
	RenderTryOn         bool
	FetchTimeout        time.Duration
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	CORSAllowedOrigins  []string
	// SessionTTL of zero keeps sessions until they are deleted.
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 getEnv("PORT", "8080"),
		GeneratorBackend:     strings.ToLower(getEnv("GENERATOR_BACKEND", BackendDemo)),
		ResolverBackend:      strings.ToLower(getEnv("RESOLVER_BACKEND", BackendDemo)),
		DemoGenerateDelay:    getEnvDuration("DEMO_GENERATE_DELAY", 1200*time.Millisecond),
		DemoResolveDelay:     getEnvDuration("DEMO_RESOLVE_DELAY", 1500*time.Millisecond),
		PlaceholderImageURL:  os.Getenv("PLACEHOLDER_IMAGE_URL"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ProjectID:            getEnv("PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		Location:             getEnv("LOCATION", "us-central1"),
		VertexModel:          getEnv("VERTEX_MODEL", "gemini-2.5-flash"),
		VTOModel:             getEnv("VTO_MODEL", "virtual-try-on-preview-08-04"),
		RenderTryOn:          getEnvBool("RENDER_TRYON", false),
		FetchTimeout:         getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		CORSAllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS"),
		SessionTTL:           getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
	}

	switch cfg.GeneratorBackend {
	case BackendDemo:
	case BackendGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
	case BackendVertex:
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("PROJECT_ID is required for the vertex backend")
		}
	default:
		return nil, fmt.Errorf("unknown GENERATOR_BACKEND %q", cfg.GeneratorBackend)
	}

	if cfg.ResolverBackend != BackendDemo && cfg.ResolverBackend != BackendPage {
		return nil, fmt.Errorf("unknown RESOLVER_BACKEND %q", cfg.ResolverBackend)
	}

	if cfg.SessionTTL > 0 && cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive when SESSION_TTL is set")
	}

	if cfg.RenderTryOn && cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID is required when RENDER_TRYON is enabled")
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
