package external

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	genai_std "google.golang.org/genai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/valueobjects"
	"tryon-studio/model"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantErr        bool
		wantConfidence int
	}{
		{
			name:           "plain json",
			text:           `{"fitAnalysis":"Great fit.","stylingTips":["a"],"complementaryItems":["b"],"occasions":["c"],"confidence":7}`,
			wantConfidence: 7,
		},
		{
			name:           "fenced json with confidence clamped",
			text:           "```json\n{\"fitAnalysis\":\"Bold.\",\"stylingTips\":[\"a\"],\"complementaryItems\":[\"b\"],\"occasions\":[\"c\"],\"confidence\":14}\n```",
			wantConfidence: 10,
		},
		{
			name:           "prose around object",
			text:           `Here you go: {"fitAnalysis":"Ok.","stylingTips":["a"],"complementaryItems":["b"],"occasions":["c"],"confidence":-2} hope it helps`,
			wantConfidence: 0,
		},
		{
			name:    "missing fit analysis",
			text:    `{"stylingTips":["a"],"complementaryItems":["b"],"occasions":["c"],"confidence":5}`,
			wantErr: true,
		},
		{
			name:    "no object",
			text:    "I cannot help with that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnalysis(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
		})
	}
}

func TestVirtualTryOnRenderer_Render(t *testing.T) {
	img := pngBytes(t)
	request, err := entities.NewTryOnRequest(
		valueobjects.NewDataURLRef("image/png", img),
		valueobjects.NewDataURLRef("image/png", img),
	)
	require.NoError(t, err)

	t.Run("posts jpeg inputs and returns rendered image", func(t *testing.T) {
		var got model.VirtualTryOnRequest
		var auth string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(model.VirtualTryOnResponse{Predictions: []model.Prediction{
				{MimeType: "image/png", BytesBase64Encoded: base64.StdEncoding.EncodeToString(img)},
			}})
		}))
		defer ts.Close()

		renderer := NewVirtualTryOnRenderer("p", "us-central1", "vto", NewHTTPImageFetcher(nil),
			WithEndpoint(ts.URL),
			WithTokenFunc(func(context.Context) (string, error) { return "tok", nil }),
		)

		ref, err := renderer.Render(context.Background(), request)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok", auth)
		require.Len(t, got.Instances, 1)
		assert.Equal(t, 32, got.Parameters.BaseSteps)

		person, err := base64.StdEncoding.DecodeString(got.Instances[0].PersonImage.Image.BytesBase64Encoded)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xD8}, person[:2], "person image should be sent as JPEG")

		mimeType, data, err := ref.Decode()
		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
		assert.Equal(t, img, data)
	})

	t.Run("filtered predictions", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"predictions":[{"raiFilteredReason":"blocked"}]}`))
		}))
		defer ts.Close()

		renderer := NewVirtualTryOnRenderer("p", "us-central1", "vto", NewHTTPImageFetcher(nil),
			WithEndpoint(ts.URL),
			WithTokenFunc(func(context.Context) (string, error) { return "tok", nil }),
		)
		_, err := renderer.Render(context.Background(), request)
		assert.Error(t, err)
	})

	t.Run("api error status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer ts.Close()

		renderer := NewVirtualTryOnRenderer("p", "us-central1", "vto", NewHTTPImageFetcher(nil),
			WithEndpoint(ts.URL),
			WithTokenFunc(func(context.Context) (string, error) { return "tok", nil }),
		)
		_, err := renderer.Render(context.Background(), request)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("token failure", func(t *testing.T) {
		renderer := NewVirtualTryOnRenderer("p", "us-central1", "vto", NewHTTPImageFetcher(nil),
			WithTokenFunc(func(context.Context) (string, error) { return "", errors.New("no credentials") }),
		)
		_, err := renderer.Render(context.Background(), request)
		assert.ErrorContains(t, err, "no credentials")
	})
}

func TestImagePart_JPGAlias(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))

	ref := valueobjects.NewDataURLRef("image/jpg", buf.Bytes())
	require.Contains(t, ref.String(), "data:image/jpg;base64,")

	img, err := NewHTTPImageFetcher(nil).Fetch(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "image/jpg", img.MimeType())

	part := imagePart(img)
	require.NotNil(t, part.InlineData)
	assert.Equal(t, "image/jpeg", part.InlineData.MIMEType)
	assert.Equal(t, buf.Bytes(), part.InlineData.Data)
}

type countingGenAIPool struct{ closed int }

func (p *countingGenAIPool) GetGenAIClient(context.Context) (*genai_std.Client, error) {
	return nil, errors.New("no client")
}

func (p *countingGenAIPool) Close() error {
	p.closed++
	return nil
}

type countingVertexPool struct{ closed int }

func (p *countingVertexPool) GetVertexAIClient(context.Context) (*genai.Client, error) {
	return nil, errors.New("no client")
}

func (p *countingVertexPool) Close() error {
	p.closed++
	return nil
}

func TestGenerators_CloseLeavesSharedPool(t *testing.T) {
	genAIPool := &countingGenAIPool{}
	require.NoError(t, NewGeminiGenerator(genAIPool, NewHTTPImageFetcher(nil), "gemini").Close())
	assert.Zero(t, genAIPool.closed)

	vertexPool := &countingVertexPool{}
	require.NoError(t, NewVertexGenerator(vertexPool, NewHTTPImageFetcher(nil), "gemini").Close())
	assert.Zero(t, vertexPool.closed)
}
