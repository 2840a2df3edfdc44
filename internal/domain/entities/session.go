package entities

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/valueobjects"
)

type SessionID string

type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateCollecting SessionState = "collecting"
	StateGenerating SessionState = "generating"
	StateShown      SessionState = "shown"
)

// Session tracks one user's chosen images, the in-flight flag and the latest
// result. All methods are safe for concurrent use.
type Session struct {
	mu           sync.Mutex
	id           SessionID
	baseImage    valueobjects.ImageRef
	productImage valueobjects.ImageRef
	productURL   string
	processing   bool
	result       *TryOnResult
	createdAt    time.Time
	updatedAt    time.Time
}

// SessionSnapshot is a point-in-time copy of a session.
type SessionSnapshot struct {
	ID           SessionID
	State        SessionState
	BaseImage    valueobjects.ImageRef
	ProductImage valueobjects.ImageRef
	ProductURL   string
	Processing   bool
	Result       *TryOnResult
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewSession() *Session {
	now := time.Now()
	return &Session{
		id:        SessionID(uuid.NewString()),
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() SessionID {
	return s.id
}

func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionSnapshot{
		ID:           s.id,
		State:        s.state(),
		BaseImage:    s.baseImage,
		ProductImage: s.productImage,
		ProductURL:   s.productURL,
		Processing:   s.processing,
		Result:       s.result,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
	}
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() SessionState {
	switch {
	case s.result != nil:
		return StateShown
	case s.processing:
		return StateGenerating
	case !s.baseImage.IsEmpty() || !s.productImage.IsEmpty() || s.productURL != "":
		return StateCollecting
	default:
		return StateIdle
	}
}

func (s *Session) SetBaseImage(ref valueobjects.ImageRef) error {
	return s.mutateInputs(func() { s.baseImage = ref })
}

func (s *Session) SetProductImage(ref valueobjects.ImageRef) error {
	return s.mutateInputs(func() { s.productImage = ref })
}

func (s *Session) SetProductURL(url string) error {
	return s.mutateInputs(func() { s.productURL = url })
}

// CanEditInputs reports whether input setters would currently succeed.
func (s *Session) CanEditInputs() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil {
		return domain.ErrResultShown
	}
	return nil
}

func (s *Session) mutateInputs(fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return domain.ErrResultShown
	}
	fn()
	s.updatedAt = time.Now()
	return nil
}

// BeginGeneration atomically checks the preconditions and raises the
// processing flag. Only one caller can hold the flag at a time.
func (s *Session) BeginGeneration() (*TryOnRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return nil, domain.ErrResultShown
	}
	if s.processing {
		return nil, domain.ErrGenerationInProgress
	}
	request, err := NewTryOnRequest(s.baseImage, s.productImage)
	if err != nil {
		return nil, err
	}

	s.processing = true
	s.updatedAt = time.Now()
	return request, nil
}

func (s *Session) CompleteGeneration(result *TryOnResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.processing {
		return fmt.Errorf("complete generation: no generation in progress")
	}
	s.processing = false
	s.result = result
	s.updatedAt = time.Now()
	return nil
}

// FailGeneration drops the attempt and returns to collecting.
func (s *Session) FailGeneration() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processing = false
	s.updatedAt = time.Now()
}

// Reset hides the current result and keeps the chosen images.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return domain.ErrGenerationInProgress
	}
	s.result = nil
	s.updatedAt = time.Now()
	return nil
}

// Clear returns the session to idle.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return domain.ErrGenerationInProgress
	}
	s.baseImage = valueobjects.ImageRef{}
	s.productImage = valueobjects.ImageRef{}
	s.productURL = ""
	s.result = nil
	s.updatedAt = time.Now()
	return nil
}
