package external

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-studio/internal/domain"
	"tryon-studio/internal/domain/entities"
	"tryon-studio/internal/domain/valueobjects"
)

type recordingWait struct {
	calls []time.Duration
	err   error
}

func (w *recordingWait) wait(ctx context.Context, d time.Duration) error {
	w.calls = append(w.calls, d)
	return w.err
}

func TestDemoGenerator_PhotoAndShirtScenario(t *testing.T) {
	photo := valueobjects.NewDataURLRef("image/png", []byte("photo.png"))
	shirt := valueobjects.NewDataURLRef("image/png", []byte("shirt.png"))
	request, err := entities.NewTryOnRequest(photo, shirt)
	require.NoError(t, err)

	w := &recordingWait{}
	gen := NewDemoGenerator(1200*time.Millisecond, w.wait)

	result, err := gen.GenerateTryOn(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, []time.Duration{1200 * time.Millisecond}, w.calls)
	assert.Equal(t, photo, result.BaseImage())
	assert.Equal(t, shirt, result.OverlayImage())
	assert.Equal(t, request.ID(), result.RequestID())

	analysis := result.Analysis()
	assert.Equal(t, 9, analysis.Confidence)
	assert.Len(t, analysis.StylingTips, 3)
	assert.Len(t, analysis.ComplementaryItems, 3)
	assert.Len(t, analysis.Occasions, 3)
	assert.NoError(t, analysis.Validate())
}

func TestDemoGenerator_Interrupted(t *testing.T) {
	request, err := entities.NewTryOnRequest(
		valueobjects.NewDataURLRef("image/png", []byte("a")),
		valueobjects.NewDataURLRef("image/png", []byte("b")),
	)
	require.NoError(t, err)

	gen := NewDemoGenerator(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gen.GenerateTryOn(ctx, request)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemoResolver(t *testing.T) {
	w := &recordingWait{}
	resolver, err := NewDemoResolver(1500*time.Millisecond, "", w.wait)
	require.NoError(t, err)

	ref, err := resolver.Resolve(context.Background(), "https://shop.example.com/p/1")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaceholderImageURL, ref.String())
	assert.True(t, ref.IsRemote())
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, w.calls)
}

func TestDemoResolver_EmptyURLSkipsDelay(t *testing.T) {
	w := &recordingWait{}
	resolver, err := NewDemoResolver(1500*time.Millisecond, "", w.wait)
	require.NoError(t, err)

	ref, err := resolver.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyURL)
	assert.True(t, ref.IsEmpty())
	assert.Empty(t, w.calls)
}

func TestNewDemoResolver_InvalidPlaceholder(t *testing.T) {
	_, err := NewDemoResolver(0, "not-a-url", nil)
	assert.Error(t, err)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), 0))
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
