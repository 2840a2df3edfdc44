package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType      = errors.New("unsupported image type")
	ErrTooLarge             = errors.New("image too large")
	ErrRead                 = errors.New("image could not be read")
	ErrFetch                = errors.New("product fetch failed")
	ErrEmptyURL             = errors.New("product url is required")
	ErrMissingInput         = errors.New("both images are required")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrResultShown          = errors.New("a result is already shown")
	ErrSessionNotFound      = errors.New("session not found")
	ErrServiceBusy          = errors.New("service temporarily unavailable due to high demand")
)

// FetchNotice is shown to the user whenever a product URL cannot be turned
// into an image.
const FetchNotice = "Failed to fetch product from URL. Please try uploading an image instead."

// FetchError reports a failed product lookup. Notice is safe to show to the user.
type FetchError struct {
	URL    string
	Notice string
	Err    error
}

func NewFetchError(url string, err error) *FetchError {
	return &FetchError{URL: url, Notice: FetchNotice, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, ErrFetch)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}
