package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/valueobjects"
)

const DefaultFetchTimeout = 15 * time.Second

// HTTPImageFetcher turns an ImageRef into validated image bytes. Data URLs
// are decoded locally; remote refs are downloaded.
type HTTPImageFetcher struct {
	client *resty.Client
}

func NewHTTPImageFetcher(client *resty.Client) *HTTPImageFetcher {
	if client == nil {
		client = NewHTTPClient(DefaultFetchTimeout)
	}
	return &HTTPImageFetcher{client: client}
}

// NewHTTPClient builds the shared outbound client.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetDebug(false).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "tryon-studio/1.0 (+product-image-fetch)")
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, ref valueobjects.ImageRef) (*valueobjects.ImageData, error) {
	switch {
	case ref.IsEmpty():
		return nil, fmt.Errorf("%w: empty image ref", domain.ErrMissingInput)
	case ref.IsDataURL():
		mimeType, data, err := ref.Decode()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRead, err)
		}
		return valueobjects.NewImageData(data, mimeType)
	default:
		return f.download(ctx, ref.String())
	}
}

func (f *HTTPImageFetcher) download(ctx context.Context, imageURL string) (*valueobjects.ImageData, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "image/*").
		Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("download failed: GET %s (status: %d)", imageURL, res.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, valueobjects.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRead, err)
	}
	if len(data) > valueobjects.MaxImageSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrTooLarge, imageURL, valueobjects.MaxImageSize)
	}

	mimeType := valueobjects.NormalizeMimeType(res.Header().Get("Content-Type"))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}

	return valueobjects.NewImageData(data, mimeType)
}
