package valueobjects

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const dataURLPrefix = "data:"

// ImageRef points at an image either embedded as a data URL or hosted remotely.
// The zero value means "no image".
type ImageRef struct {
	value string
}

// NewDataURLRef encodes bytes as data:<mime>;base64,<payload>.
func NewDataURLRef(mimeType string, data []byte) ImageRef {
	return ImageRef{value: dataURLPrefix + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)}
}

// NewRemoteRef accepts absolute http(s) URLs only.
func NewRemoteRef(rawURL string) (ImageRef, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ImageRef{}, fmt.Errorf("invalid image url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ImageRef{}, fmt.Errorf("invalid image url %q: must be absolute http(s)", rawURL)
	}
	return ImageRef{value: u.String()}, nil
}

// ParseImageRef accepts either form and rejects anything else.
func ParseImageRef(s string) (ImageRef, error) {
	if strings.HasPrefix(s, dataURLPrefix) {
		ref := ImageRef{value: s}
		if _, _, err := ref.Decode(); err != nil {
			return ImageRef{}, err
		}
		return ref, nil
	}
	return NewRemoteRef(s)
}

func (r ImageRef) String() string {
	return r.value
}

func (r ImageRef) IsEmpty() bool {
	return r.value == ""
}

func (r ImageRef) IsDataURL() bool {
	return strings.HasPrefix(r.value, dataURLPrefix)
}

func (r ImageRef) IsRemote() bool {
	return !r.IsEmpty() && !r.IsDataURL()
}

// Decode returns the MIME type and bytes of a data URL.
func (r ImageRef) Decode() (string, []byte, error) {
	if !r.IsDataURL() {
		return "", nil, errors.New("image ref is not a data url")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(r.value, dataURLPrefix), ",")
	if !ok {
		return "", nil, errors.New("malformed data url: missing payload")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, errors.New("malformed data url: only base64 payloads are supported")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data url: %w", err)
	}
	return mimeType, data, nil
}

// MimeType is the embedded type for data URLs and empty for remote refs.
func (r ImageRef) MimeType() string {
	if !r.IsDataURL() {
		return ""
	}
	header, _, _ := strings.Cut(strings.TrimPrefix(r.value, dataURLPrefix), ",")
	return strings.TrimSuffix(header, ";base64")
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	if r.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

func (r *ImageRef) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ImageRef{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*r = ImageRef{}
		return nil
	}
	ref, err := ParseImageRef(s)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
