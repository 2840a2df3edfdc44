package model

// VirtualTryOnRequest is the body of a virtual try-on predict call
type VirtualTryOnRequest struct {
	Instances  []VirtualTryOnInstance `json:"instances"`
	Parameters VirtualTryOnParameters `json:"parameters"`
}

type VirtualTryOnInstance struct {
	PersonImage   ImageInput   `json:"personImage"`
	ProductImages []ImageInput `json:"productImages"`
}

type ImageInput struct {
	Image EncodedImage `json:"image"`
}

type EncodedImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type VirtualTryOnParameters struct {
	AddWatermark     bool          `json:"addWatermark"`
	BaseSteps        int           `json:"baseSteps"`
	PersonGeneration string        `json:"personGeneration"`
	SafetySetting    string        `json:"safetySetting"`
	SampleCount      int           `json:"sampleCount"`
	OutputOptions    OutputOptions `json:"outputOptions"`
}

type OutputOptions struct {
	MimeType string `json:"mimeType"`
}

// VirtualTryOnResponse represents the response structure from Google's Virtual Try-On API
type VirtualTryOnResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// Prediction represents a single prediction result
type Prediction struct {
	MimeType           string `json:"mimeType"`
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	// フィルタで除外された場合に理由が入る
	RaiFilteredReason string         `json:"raiFilteredReason,omitempty"`
	SafetyAttributes  map[string]any `json:"safetyAttributes,omitempty"`
}

// FirstImage returns the first prediction that carries image bytes.
func (r *VirtualTryOnResponse) FirstImage() (Prediction, bool) {
	for _, p := range r.Predictions {
		if p.BytesBase64Encoded != "" {
			return p, true
		}
	}
	return Prediction{}, false
}
