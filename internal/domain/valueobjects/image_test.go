package valueobjects

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"tryon-studio/internal/domain"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}
	return buf.Bytes()
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to create test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		size     int64
		wantErr  error
	}{
		{name: "jpeg", mimeType: "image/jpeg", size: 1024},
		{name: "jpg alias", mimeType: "image/jpg", size: 1024},
		{name: "png with parameters", mimeType: "image/PNG; charset=binary", size: 1024},
		{name: "webp", mimeType: "image/webp", size: 1024},
		{name: "exactly at ceiling", mimeType: "image/png", size: MaxImageSize},
		{name: "gif rejected", mimeType: "image/gif", size: 1024, wantErr: domain.ErrUnsupportedType},
		{name: "pdf rejected", mimeType: "application/pdf", size: 1024, wantErr: domain.ErrUnsupportedType},
		{name: "empty type rejected", mimeType: "", size: 1024, wantErr: domain.ErrUnsupportedType},
		{name: "12MB rejected", mimeType: "image/png", size: 12 * 1024 * 1024, wantErr: domain.ErrTooLarge},
		{name: "one byte over", mimeType: "image/jpeg", size: MaxImageSize + 1, wantErr: domain.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.mimeType, tt.size)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateUpload() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUpload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewImageData(t *testing.T) {
	pngBytes := testPNG(t)
	jpegBytes := testJPEG(t)

	tests := []struct {
		name     string
		data     []byte
		mimeType string
		wantErr  error
		format   ImageFormat
	}{
		{name: "empty data should fail", data: []byte{}, mimeType: "image/jpeg", wantErr: domain.ErrRead},
		{name: "nil data should fail", data: nil, mimeType: "image/jpeg", wantErr: domain.ErrRead},
		{name: "invalid image data should fail", data: []byte{0x00, 0x01, 0x02}, mimeType: "image/jpeg", wantErr: domain.ErrRead},
		{name: "png accepted", data: pngBytes, mimeType: "image/png", format: PNG},
		{name: "jpeg accepted as jpg", data: jpegBytes, mimeType: "image/jpg", format: JPEG},
		{name: "declared type must match content", data: pngBytes, mimeType: "image/jpeg", wantErr: domain.ErrUnsupportedType},
		{name: "unsupported declared type", data: pngBytes, mimeType: "image/gif", wantErr: domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewImageData(tt.data, tt.mimeType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewImageData() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewImageData() unexpected error = %v", err)
			}
			if got.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", got.Format(), tt.format)
			}
		})
	}
}

func TestImageData_ToJPEG(t *testing.T) {
	imageData, err := NewImageData(testJPEG(t), "image/jpeg")
	if err != nil {
		t.Fatalf("Failed to create ImageData: %v", err)
	}

	t.Run("JPEG to JPEG should return same instance", func(t *testing.T) {
		result, err := imageData.ToJPEG()
		if err != nil {
			t.Errorf("ToJPEG() error = %v", err)
		}
		if result != imageData {
			t.Errorf("Expected same instance for JPEG to JPEG conversion")
		}
	})

	t.Run("PNG converts to JPEG", func(t *testing.T) {
		pngData, err := NewImageData(testPNG(t), "image/png")
		if err != nil {
			t.Fatalf("Failed to create PNG ImageData: %v", err)
		}
		result, err := pngData.ToJPEG()
		if err != nil {
			t.Fatalf("ToJPEG() error = %v", err)
		}
		if !result.IsJPEG() || result.MimeType() != "image/jpeg" {
			t.Errorf("Expected JPEG output, got %v (%s)", result.Format(), result.MimeType())
		}
	})
}

func TestImageData_RefRoundTrip(t *testing.T) {
	data := testPNG(t)
	imageData, err := NewImageData(data, "image/png")
	if err != nil {
		t.Fatalf("Failed to create ImageData: %v", err)
	}

	mimeType, decoded, err := imageData.Ref().Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if mimeType != "image/png" {
		t.Errorf("Decode() mime = %q, want image/png", mimeType)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("Decode() bytes differ from input")
	}
}

func TestImageData_CanonicalMimeType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		mimeType string
		want     string
	}{
		{name: "jpg alias", data: testJPEG(t), mimeType: "image/jpg", want: "image/jpeg"},
		{name: "jpeg", data: testJPEG(t), mimeType: "image/jpeg", want: "image/jpeg"},
		{name: "png", data: testPNG(t), mimeType: "image/png", want: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imageData, err := NewImageData(tt.data, tt.mimeType)
			if err != nil {
				t.Fatalf("NewImageData() error = %v", err)
			}
			if got := imageData.CanonicalMimeType(); got != tt.want {
				t.Errorf("CanonicalMimeType() = %q, want %q", got, tt.want)
			}
			if imageData.MimeType() != tt.mimeType {
				t.Errorf("MimeType() = %q, want declared %q", imageData.MimeType(), tt.mimeType)
			}
		})
	}
}
