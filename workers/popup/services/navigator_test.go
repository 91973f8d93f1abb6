package services

import (
	"testing"

	"github.com/Torvusil/Furadder/workers/popup/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/stretchr/testify/assert"
)

func images(n int) []shared.ImageCandidate {
	out := make([]shared.ImageCandidate, n)
	for i := range out {
		src := "http://img/" + string(rune('a'+i)) + ".png"
		out[i] = shared.NewImageCandidate(src, "", nil, nil, false)
	}
	return out
}

func TestNavigator_LoadBounds(t *testing.T) {
	for length := 0; length <= 3; length++ {
		for idx := -1; idx <= 4; idx++ {
			var nav Navigator
			err := nav.Load(images(length), idx)
			valid := idx >= 0 && idx < length
			if valid {
				assert.NoError(t, err, "len=%d idx=%d", length, idx)
				assert.Equal(t, idx, nav.Index())
				assert.Equal(t, length, nav.Len())
			} else {
				assert.Error(t, err, "len=%d idx=%d", length, idx)
				assert.True(t, nav.Empty())
				assert.Equal(t, domain.Affordances{}, nav.Affordances())
			}
		}
	}
}

func TestNavigator_LoadErrors(t *testing.T) {
	var nav Navigator
	assert.ErrorIs(t, nav.Load(nil, 0), ErrNoImages)
	assert.ErrorIs(t, nav.Load(images(3), 5), ErrIndexOutOfBounds)
}

func TestNavigator_StepsStayInBounds(t *testing.T) {
	var nav Navigator
	assert.NoError(t, nav.Load(images(3), 0))
	assert.Equal(t, domain.Affordances{Prev: false, Next: true}, nav.Affordances())

	assert.False(t, nav.StepPrev())
	assert.Equal(t, 0, nav.Index())
	assert.Equal(t, domain.Affordances{Prev: false, Next: true}, nav.Affordances())

	assert.True(t, nav.StepNext())
	assert.Equal(t, domain.Affordances{Prev: true, Next: true}, nav.Affordances())
	assert.True(t, nav.StepNext())
	assert.Equal(t, domain.Affordances{Prev: true, Next: false}, nav.Affordances())

	for i := 0; i < 3; i++ {
		assert.False(t, nav.StepNext())
		assert.Equal(t, 2, nav.Index())
		assert.Equal(t, domain.Affordances{Prev: true, Next: false}, nav.Affordances())
	}
}

func TestNavigator_StepSetsManual(t *testing.T) {
	var nav Navigator
	assert.NoError(t, nav.Load(images(1), 0))
	assert.False(t, nav.Manual())

	// a no-op step at the boundary still counts as manual navigation
	assert.False(t, nav.StepNext())
	assert.True(t, nav.Manual())
}

func TestNavigator_StepInEmptyIsNoop(t *testing.T) {
	var nav Navigator
	assert.False(t, nav.StepNext())
	assert.False(t, nav.StepPrev())
	assert.False(t, nav.Manual())
	_, ok := nav.Selected()
	assert.False(t, ok)
}

func TestNavigator_ManualIndexSurvivesReload(t *testing.T) {
	var nav Navigator
	assert.NoError(t, nav.Load(images(3), 0))
	nav.StepNext()

	assert.NoError(t, nav.Load(images(4), 3))
	assert.Equal(t, 1, nav.Index())
	assert.True(t, nav.Manual())

	// the kept index no longer fits
	assert.Error(t, nav.Load(images(1), 0))
	assert.True(t, nav.Empty())
	assert.False(t, nav.Manual())

	assert.NoError(t, nav.Load(images(3), 2))
	assert.Equal(t, 2, nav.Index())
}

func TestNavigator_Cleanup(t *testing.T) {
	var nav Navigator
	assert.NoError(t, nav.Load(images(2), 1))
	nav.StepPrev()
	nav.Cleanup()

	assert.True(t, nav.Empty())
	assert.False(t, nav.Manual())
	assert.Equal(t, domain.Affordances{}, nav.Affordances())
}
