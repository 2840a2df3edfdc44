package external

import (
	"encoding/json"
	"fmt"
	"strings"

	"tryon-studio/internal/domain/entities"
)

const stylingPrompt = `You are a personal stylist. The first image shows a person, the second image shows a clothing product.
Imagine the person wearing the product and give styling advice.

Respond in JSON format with these fields:
- fitAnalysis: 1-2 sentences on how the product suits the person's proportions and style
- stylingTips: exactly 3 short, actionable tips
- complementaryItems: exactly 3 items that pair well with the product
- occasions: exactly 3 occasions the outfit suits
- confidence: integer from 0 to 10, how confident you are that the product suits the person

Respond ONLY with the JSON object, no markdown or other text.`

// parseAnalysis reads the model's JSON answer. Confidence is clamped into
// range; missing fields are an error.
func parseAnalysis(text string) (entities.TryOnAnalysis, error) {
	raw, err := extractJSONObject(text)
	if err != nil {
		return entities.TryOnAnalysis{}, err
	}

	var analysis entities.TryOnAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return entities.TryOnAnalysis{}, fmt.Errorf("failed to parse analysis: %w", err)
	}
	analysis.Confidence = entities.ClampConfidence(analysis.Confidence)

	if err := analysis.Validate(); err != nil {
		return entities.TryOnAnalysis{}, err
	}
	return analysis, nil
}

// extractJSONObject strips markdown code fences and surrounding prose.
func extractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response: %q", text)
	}
	return text[start : end+1], nil
}
