package valueobjects

import (
	"testing"
)

func TestNewRenderParameters(t *testing.T) {
	tests := []struct {
		name             string
		baseSteps        int
		personGeneration PersonGeneration
		safetySetting    SafetySetting
		outputMimeType   string
		wantErr          bool
	}{
		{
			name:             "valid parameters",
			baseSteps:        32,
			personGeneration: AllowAdult,
			safetySetting:    BlockMediumAndAbove,
			outputMimeType:   "image/png",
		},
		{
			name:             "baseSteps too low",
			baseSteps:        0,
			personGeneration: AllowAdult,
			safetySetting:    BlockMediumAndAbove,
			outputMimeType:   "image/png",
			wantErr:          true,
		},
		{
			name:             "baseSteps too high",
			baseSteps:        101,
			personGeneration: AllowAdult,
			safetySetting:    BlockMediumAndAbove,
			outputMimeType:   "image/png",
			wantErr:          true,
		},
		{
			name:             "unknown person generation",
			baseSteps:        32,
			personGeneration: "everyone",
			safetySetting:    BlockMediumAndAbove,
			outputMimeType:   "image/png",
			wantErr:          true,
		},
		{
			name:             "unknown safety setting",
			baseSteps:        32,
			personGeneration: AllowAll,
			safetySetting:    "block_some",
			outputMimeType:   "image/png",
			wantErr:          true,
		},
		{
			name:             "webp output not supported",
			baseSteps:        32,
			personGeneration: AllowAll,
			safetySetting:    BlockNone,
			outputMimeType:   "image/webp",
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderParameters(
				true,
				tt.baseSteps,
				tt.personGeneration,
				tt.safetySetting,
				tt.outputMimeType,
			)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRenderParameters() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultRenderParameters(t *testing.T) {
	params := DefaultRenderParameters()

	if params.BaseSteps() != 32 {
		t.Errorf("Expected BaseSteps 32, got %d", params.BaseSteps())
	}

	if params.PersonGeneration() != AllowAdult {
		t.Errorf("Expected PersonGeneration AllowAdult, got %v", params.PersonGeneration())
	}

	if params.SafetySetting() != BlockMediumAndAbove {
		t.Errorf("Expected SafetySetting BlockMediumAndAbove, got %v", params.SafetySetting())
	}

	if params.OutputMimeType() != "image/png" {
		t.Errorf("Expected OutputMimeType PNG, got %v", params.OutputMimeType())
	}
}
