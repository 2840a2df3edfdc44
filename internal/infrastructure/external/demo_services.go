package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/valueobjects"
)

// DefaultPlaceholderImageURL is what the demo resolver returns for every URL.
const DefaultPlaceholderImageURL = "https://via.placeholder.com/400x600/FF6B6B/fff?text=Product+Image"

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepContext is the default WaitFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DemoAnalysis is the canned styling analysis returned by the demo generator.
func DemoAnalysis() entities.TryOnAnalysis {
	return entities.TryOnAnalysis{
		FitAnalysis: "The selected outfit complements your proportions and gives a sharp, modern silhouette.",
		StylingTips: []string{
			"Ensure the shoulders fit snugly for a clean look",
			"Pair with tailored trousers for balance",
			"Keep accessories minimal to highlight the outfit",
		},
		ComplementaryItems: []string{
			"Slim-fit dark trousers",
			"Classic stainless steel wristwatch",
			"Black formal shoes",
		},
		Occasions:  []string{"Office presentation", "Formal meeting", "Evening dinner"},
		Confidence: 9,
	}
}

// DemoGenerator waits a fixed delay and pairs the inputs with DemoAnalysis.
// No compositing or inference takes place.
type DemoGenerator struct {
	delay time.Duration
	wait  WaitFunc
}

func NewDemoGenerator(delay time.Duration, wait WaitFunc) *DemoGenerator {
	if wait == nil {
		wait = SleepContext
	}
	return &DemoGenerator{delay: delay, wait: wait}
}

func (g *DemoGenerator) GenerateTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	if err := g.wait(ctx, g.delay); err != nil {
		return nil, fmt.Errorf("demo generation interrupted: %w", err)
	}

	log.Debug().Str("request_id", string(request.ID())).Dur("delay", g.delay).Msg("demo try-on generated")
	return entities.NewTryOnResult(request.ID(), request.BaseImage(), request.OverlayImage(), DemoAnalysis())
}

func (g *DemoGenerator) Close() error {
	return nil
}

// DemoResolver waits a fixed delay and returns a placeholder product image.
type DemoResolver struct {
	delay       time.Duration
	placeholder valueobjects.ImageRef
	wait        WaitFunc
}

func NewDemoResolver(delay time.Duration, placeholderURL string, wait WaitFunc) (*DemoResolver, error) {
	if placeholderURL == "" {
		placeholderURL = DefaultPlaceholderImageURL
	}
	placeholder, err := valueobjects.ParseImageRef(placeholderURL)
	if err != nil {
		return nil, fmt.Errorf("invalid placeholder image: %w", err)
	}
	if wait == nil {
		wait = SleepContext
	}
	return &DemoResolver{delay: delay, placeholder: placeholder, wait: wait}, nil
}

func (r *DemoResolver) Resolve(ctx context.Context, url string) (valueobjects.ImageRef, error) {
	if strings.TrimSpace(url) == "" {
		return valueobjects.ImageRef{}, domain.ErrEmptyURL
	}
	if err := r.wait(ctx, r.delay); err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("demo fetch interrupted: %w", err)
	}
	return r.placeholder, nil
}
