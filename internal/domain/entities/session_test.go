package entities

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-studio/internal/domain"
)

func fixtureAnalysis() TryOnAnalysis {
	return TryOnAnalysis{
		FitAnalysis:        "fits",
		StylingTips:        []string{"a", "b", "c"},
		ComplementaryItems: []string{"d"},
		Occasions:          []string{"e"},
		Confidence:         9,
	}
}

func TestSession_StateTransitions(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.SetBaseImage(testRef("photo.png")))
	assert.Equal(t, StateCollecting, s.State())

	_, err := s.BeginGeneration()
	assert.ErrorIs(t, err, domain.ErrMissingInput)
	assert.Equal(t, StateCollecting, s.State())

	require.NoError(t, s.SetProductImage(testRef("shirt.png")))

	req, err := s.BeginGeneration()
	require.NoError(t, err)
	assert.Equal(t, StateGenerating, s.State())
	assert.Equal(t, testRef("photo.png"), req.BaseImage())
	assert.Equal(t, testRef("shirt.png"), req.OverlayImage())

	result, err := NewTryOnResult(req.ID(), req.BaseImage(), req.OverlayImage(), fixtureAnalysis())
	require.NoError(t, err)
	require.NoError(t, s.CompleteGeneration(result))
	assert.Equal(t, StateShown, s.State())

	// inputs are frozen while a result is shown
	assert.ErrorIs(t, s.SetBaseImage(testRef("other.png")), domain.ErrResultShown)
	assert.ErrorIs(t, s.SetProductURL("https://example.com"), domain.ErrResultShown)
	_, err = s.BeginGeneration()
	assert.ErrorIs(t, err, domain.ErrResultShown)

	require.NoError(t, s.Reset())
	snap := s.Snapshot()
	assert.Equal(t, StateCollecting, snap.State)
	assert.Nil(t, snap.Result)
	assert.Equal(t, testRef("photo.png"), snap.BaseImage)

	require.NoError(t, s.Clear())
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_FailureReturnsToCollecting(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetBaseImage(testRef("photo.png")))
	require.NoError(t, s.SetProductImage(testRef("shirt.png")))

	_, err := s.BeginGeneration()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Reset(), domain.ErrGenerationInProgress)
	assert.ErrorIs(t, s.Clear(), domain.ErrGenerationInProgress)

	s.FailGeneration()
	snap := s.Snapshot()
	assert.Equal(t, StateCollecting, snap.State)
	assert.False(t, snap.Processing)
	assert.Nil(t, snap.Result)

	// a fresh attempt is allowed after a failure
	_, err = s.BeginGeneration()
	assert.NoError(t, err)
}

func TestSession_CompleteWithoutBegin(t *testing.T) {
	s := NewSession()
	result, err := NewTryOnResult("req", testRef("a"), testRef("b"), fixtureAnalysis())
	require.NoError(t, err)
	assert.Error(t, s.CompleteGeneration(result))
	assert.Equal(t, StateIdle, s.State())
}

func TestSession_SingleInFlightGeneration(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetBaseImage(testRef("photo.png")))
	require.NoError(t, s.SetProductImage(testRef("shirt.png")))

	const callers = 64
	var started, rejected atomic.Int32
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.BeginGeneration(); err == nil {
				started.Add(1)
			} else if assert.ErrorIs(t, err, domain.ErrGenerationInProgress) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, started.Load())
	assert.EqualValues(t, callers-1, rejected.Load())
}
