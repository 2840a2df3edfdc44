package external

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"

	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/repositories"
	"tryon-studio/internal/domain/valueobjects"
	"tryon-studio/model"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	renderTimeout      = 300 * time.Second
)

// TokenFunc returns an OAuth2 access token for the predict endpoint.
type TokenFunc func(ctx context.Context) (string, error)

// VirtualTryOnRenderer produces a composite picture of the person wearing the
// product through the Vertex AI virtual try-on predict API.
type VirtualTryOnRenderer struct {
	endpoint string
	params   *valueobjects.RenderParameters
	images   repositories.ImageFetcher
	client   *resty.Client
	token    TokenFunc
}

type RendererOption func(*VirtualTryOnRenderer)

// WithEndpoint overrides the predict URL.
func WithEndpoint(endpoint string) RendererOption {
	return func(r *VirtualTryOnRenderer) { r.endpoint = endpoint }
}

func WithTokenFunc(token TokenFunc) RendererOption {
	return func(r *VirtualTryOnRenderer) { r.token = token }
}

func WithRenderParameters(params *valueobjects.RenderParameters) RendererOption {
	return func(r *VirtualTryOnRenderer) { r.params = params }
}

func NewVirtualTryOnRenderer(projectID, location, vtoModel string, images repositories.ImageFetcher, opts ...RendererOption) *VirtualTryOnRenderer {
	r := &VirtualTryOnRenderer{
		endpoint: fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
			location, projectID, location, vtoModel),
		params: valueobjects.DefaultRenderParameters(),
		images: images,
		client: resty.New().SetTimeout(renderTimeout),
		token:  defaultAccessToken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *VirtualTryOnRenderer) Render(ctx context.Context, request *entities.TryOnRequest) (valueobjects.ImageRef, error) {
	accessToken, err := r.token(ctx)
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to get access token: %w", err)
	}

	person, err := r.loadJPEG(ctx, request.BaseImage())
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to load base image: %w", err)
	}
	garment, err := r.loadJPEG(ctx, request.OverlayImage())
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to load product image: %w", err)
	}

	body := model.VirtualTryOnRequest{
		Instances: []model.VirtualTryOnInstance{{
			PersonImage:   model.ImageInput{Image: model.EncodedImage{BytesBase64Encoded: person.ToBase64()}},
			ProductImages: []model.ImageInput{{Image: model.EncodedImage{BytesBase64Encoded: garment.ToBase64()}}},
		}},
		Parameters: model.VirtualTryOnParameters{
			AddWatermark:     r.params.AddWatermark(),
			BaseSteps:        r.params.BaseSteps(),
			PersonGeneration: string(r.params.PersonGeneration()),
			SafetySetting:    string(r.params.SafetySetting()),
			SampleCount:      1,
			OutputOptions:    model.OutputOptions{MimeType: r.params.OutputMimeType()},
		},
	}

	var predResp model.VirtualTryOnResponse
	res, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&predResp).
		Post(r.endpoint)
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to send request: %w", err)
	}
	if res.IsError() {
		return valueobjects.ImageRef{}, fmt.Errorf("API request failed with status %d: %s", res.StatusCode(), res.String())
	}

	prediction, ok := predResp.FirstImage()
	if !ok {
		return valueobjects.ImageRef{}, fmt.Errorf("no image in predictions (%d returned)", len(predResp.Predictions))
	}

	imageBytes, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("failed to decode rendered image: %w", err)
	}
	mimeType := prediction.MimeType
	if mimeType == "" {
		mimeType = r.params.OutputMimeType()
	}
	rendered, err := valueobjects.NewImageData(imageBytes, mimeType)
	if err != nil {
		return valueobjects.ImageRef{}, fmt.Errorf("invalid rendered image: %w", err)
	}

	log.Info().
		Str("request_id", string(request.ID())).
		Int("bytes", rendered.Size()).
		Msg("try-on image rendered")
	return rendered.Ref(), nil
}

// The predict API only accepts JPEG input.
func (r *VirtualTryOnRenderer) loadJPEG(ctx context.Context, ref valueobjects.ImageRef) (*valueobjects.ImageData, error) {
	img, err := r.images.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	return img.ToJPEG()
}

func defaultAccessToken(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return "", fmt.Errorf("failed to find default credentials: %w", err)
	}

	token, err := creds.TokenSource.Token()
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}
