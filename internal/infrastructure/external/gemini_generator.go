package external

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	genai_std "google.golang.org/genai"

	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/repositories"
	"tryon-studio/internal/domain/valueobjects"
)

// GeminiGenerator asks a Gemini model for styling analysis of the pair.
type GeminiGenerator struct {
	pool   repositories.GenAIClientPool
	images repositories.ImageFetcher
	model  string
}

func NewGeminiGenerator(pool repositories.GenAIClientPool, images repositories.ImageFetcher, model string) *GeminiGenerator {
	return &GeminiGenerator{
		pool:   pool,
		images: images,
		model:  model,
	}
}

func (g *GeminiGenerator) GenerateTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	client, err := g.pool.GetGenAIClient(ctx)
	if err != nil {
		return nil, err
	}

	baseImage, err := g.images.Fetch(ctx, request.BaseImage())
	if err != nil {
		return nil, fmt.Errorf("failed to load base image: %w", err)
	}
	overlayImage, err := g.images.Fetch(ctx, request.OverlayImage())
	if err != nil {
		return nil, fmt.Errorf("failed to load product image: %w", err)
	}

	parts := []*genai_std.Part{
		genai_std.NewPartFromText(stylingPrompt),
		genai_std.NewPartFromText("person:"),
		imagePart(baseImage),
		genai_std.NewPartFromText("garment:"),
		imagePart(overlayImage),
	}

	config := &genai_std.GenerateContentConfig{
		Temperature:      genai_std.Ptr[float32](0.4),
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiAnalysisSchema(),
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, []*genai_std.Content{
		genai_std.NewContentFromParts(parts, genai_std.RoleUser),
	}, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	analysis, err := parseAnalysis(resp.Text())
	if err != nil {
		return nil, err
	}

	event := log.Info().Str("model", g.model).Str("request_id", string(request.ID()))
	if resp.UsageMetadata != nil {
		event = event.
			Int32("inputTokens", resp.UsageMetadata.PromptTokenCount).
			Int32("outputTokens", resp.UsageMetadata.CandidatesTokenCount)
	}
	event.Msg("styling llm call")

	return entities.NewTryOnResult(request.ID(), request.BaseImage(), request.OverlayImage(), analysis)
}

// Close leaves the pool alone; it belongs to whoever built the generator.
func (g *GeminiGenerator) Close() error {
	return nil
}

// imagePart sends the canonical type; the API rejects aliases like image/jpg.
func imagePart(img *valueobjects.ImageData) *genai_std.Part {
	return genai_std.NewPartFromBytes(img.Data(), img.CanonicalMimeType())
}

func geminiAnalysisSchema() *genai_std.Schema {
	list := &genai_std.Schema{
		Type:  genai_std.TypeArray,
		Items: &genai_std.Schema{Type: genai_std.TypeString},
	}
	return &genai_std.Schema{
		Type: genai_std.TypeObject,
		Properties: map[string]*genai_std.Schema{
			"fitAnalysis":        {Type: genai_std.TypeString},
			"stylingTips":        list,
			"complementaryItems": list,
			"occasions":          list,
			"confidence":         {Type: genai_std.TypeInteger},
		},
		Required: []string{"fitAnalysis", "stylingTips", "complementaryItems", "occasions", "confidence"},
	}
}
