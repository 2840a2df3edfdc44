package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"mime"
	"strings"

	_ "golang.org/x/image/webp"

	"tryon-studio/internal/domain"
)

// MaxImageSize is the upload ceiling for any ingested image.
const MaxImageSize = 10 * 1024 * 1024 // 10MB

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
	WEBP ImageFormat = "webp"
)

// allowedMimeTypes maps accepted declared types to the format the bytes must decode as.
var allowedMimeTypes = map[string]ImageFormat{
	"image/jpeg": JPEG,
	"image/jpg":  JPEG,
	"image/png":  PNG,
	"image/webp": WEBP,
}

// NormalizeMimeType lowercases a declared content type and drops parameters.
func NormalizeMimeType(mimeType string) string {
	mimeType = strings.TrimSpace(mimeType)
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// ValidateUpload checks a declared type and size before any bytes are read.
func ValidateUpload(mimeType string, size int64) error {
	normalized := NormalizeMimeType(mimeType)
	if _, ok := allowedMimeTypes[normalized]; !ok {
		return fmt.Errorf("%w: %q (use JPG, PNG or WEBP)", domain.ErrUnsupportedType, mimeType)
	}
	if size > MaxImageSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrTooLarge, size, MaxImageSize)
	}
	return nil
}

type ImageData struct {
	data     []byte
	format   ImageFormat
	mimeType string
}

// NewImageData validates raw bytes against the declared type. The bytes must
// decode as the format the declared type names.
func NewImageData(data []byte, mimeType string) (*ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image data cannot be empty", domain.ErrRead)
	}
	if err := ValidateUpload(mimeType, int64(len(data))); err != nil {
		return nil, err
	}

	normalized := NormalizeMimeType(mimeType)
	format, err := detectFormat(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRead, err)
	}
	if want := allowedMimeTypes[normalized]; want != format {
		return nil, fmt.Errorf("%w: declared %s but content is %s", domain.ErrUnsupportedType, normalized, format)
	}

	return &ImageData{
		data:     data,
		format:   format,
		mimeType: normalized,
	}, nil
}

func (i *ImageData) Data() []byte {
	return i.data
}

func (i *ImageData) Format() ImageFormat {
	return i.format
}

func (i *ImageData) MimeType() string {
	return i.mimeType
}

// CanonicalMimeType names the detected format, so the image/jpg alias comes
// back as image/jpeg.
func (i *ImageData) CanonicalMimeType() string {
	return "image/" + string(i.format)
}

func (i *ImageData) Size() int {
	return len(i.data)
}

func (i *ImageData) IsJPEG() bool {
	return i.format == JPEG
}

func (i *ImageData) ToJPEG() (*ImageData, error) {
	if i.IsJPEG() {
		return i, nil
	}

	reader := bytes.NewReader(i.data)
	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	opts := &jpeg.Options{Quality: 90}
	if err := jpeg.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	return &ImageData{
		data:     buf.Bytes(),
		format:   JPEG,
		mimeType: "image/jpeg",
	}, nil
}

func (i *ImageData) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

// Ref embeds the image as a data URL carrying the declared type.
func (i *ImageData) Ref() ImageRef {
	return NewDataURLRef(i.mimeType, i.data)
}

func detectFormat(data []byte) (ImageFormat, error) {
	reader := bytes.NewReader(data)
	_, format, err := image.DecodeConfig(reader)
	if err != nil {
		return "", err
	}

	switch format {
	case "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WEBP, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
