package valueobjects

import (
	"fmt"
)

type PersonGeneration string
type SafetySetting string

const (
	AllowAdult PersonGeneration = "allow_adult"
	AllowAll   PersonGeneration = "allow_all"
	DontAllow  PersonGeneration = "dont_allow"
)

const (
	BlockMediumAndAbove SafetySetting = "block_medium_and_above"
	BlockLowAndAbove    SafetySetting = "block_low_and_above"
	BlockOnlyHigh       SafetySetting = "block_only_high"
	BlockNone           SafetySetting = "block_none"
)

// RenderParameters tune the optional composite render of a try-on.
type RenderParameters struct {
	addWatermark     bool
	baseSteps        int
	personGeneration PersonGeneration
	safetySetting    SafetySetting
	outputMimeType   string
}

func NewRenderParameters(
	addWatermark bool,
	baseSteps int,
	personGeneration PersonGeneration,
	safetySetting SafetySetting,
	outputMimeType string,
) (*RenderParameters, error) {
	if baseSteps < 1 || baseSteps > 100 {
		return nil, fmt.Errorf("baseSteps must be between 1 and 100, got %d", baseSteps)
	}

	switch personGeneration {
	case AllowAdult, AllowAll, DontAllow:
	default:
		return nil, fmt.Errorf("unknown personGeneration %q", personGeneration)
	}

	switch safetySetting {
	case BlockMediumAndAbove, BlockLowAndAbove, BlockOnlyHigh, BlockNone:
	default:
		return nil, fmt.Errorf("unknown safetySetting %q", safetySetting)
	}

	if outputMimeType != "image/png" && outputMimeType != "image/jpeg" {
		return nil, fmt.Errorf("outputMimeType must be image/png or image/jpeg, got %q", outputMimeType)
	}

	return &RenderParameters{
		addWatermark:     addWatermark,
		baseSteps:        baseSteps,
		personGeneration: personGeneration,
		safetySetting:    safetySetting,
		outputMimeType:   outputMimeType,
	}, nil
}

func DefaultRenderParameters() *RenderParameters {
	params, _ := NewRenderParameters(
		true,
		32,
		AllowAdult,
		BlockMediumAndAbove,
		"image/png",
	)
	return params
}

func (p *RenderParameters) AddWatermark() bool {
	return p.addWatermark
}

func (p *RenderParameters) BaseSteps() int {
	return p.baseSteps
}

func (p *RenderParameters) PersonGeneration() PersonGeneration {
	return p.personGeneration
}

func (p *RenderParameters) SafetySetting() SafetySetting {
	return p.safetySetting
}

func (p *RenderParameters) OutputMimeType() string {
	return p.outputMimeType
}
