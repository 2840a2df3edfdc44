package external

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/rs/zerolog/log"

	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/repositories"
)

// VertexGenerator is the Vertex AI flavour of GeminiGenerator, authenticated
// with application default credentials instead of an API key.
type VertexGenerator struct {
	pool   repositories.VertexAIClientPool
	images repositories.ImageFetcher
	model  string
}

func NewVertexGenerator(pool repositories.VertexAIClientPool, images repositories.ImageFetcher, model string) *VertexGenerator {
	return &VertexGenerator{
		pool:   pool,
		images: images,
		model:  model,
	}
}

func (g *VertexGenerator) GenerateTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	client, err := g.pool.GetVertexAIClient(ctx)
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

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.4)
	model.SetTopP(1)
	model.SetMaxOutputTokens(2048)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = vertexAnalysisSchema()

	resp, err := model.GenerateContent(ctx,
		genai.Text(stylingPrompt),
		genai.Text("person:"),
		genai.ImageData(string(baseImage.Format()), baseImage.Data()),
		genai.Text("garment:"),
		genai.ImageData(string(overlayImage.Format()), overlayImage.Data()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	analysis, err := parseAnalysis(text.String())
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
func (g *VertexGenerator) Close() error {
	return nil
}

func vertexAnalysisSchema() *genai.Schema {
	list := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"fitAnalysis":        {Type: genai.TypeString},
			"stylingTips":        list,
			"complementaryItems": list,
			"occasions":          list,
			"confidence":         {Type: genai.TypeInteger},
		},
		Required: []string{"fitAnalysis", "stylingTips", "complementaryItems", "occasions", "confidence"},
	}
}
