package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestImageCandidate_Resolution(t *testing.T) {
	known := NewImageCandidate("http://img/a.png", "", intPtr(800), intPtr(600), false)
	res, ok := known.Resolution()
	assert.True(t, ok)
	assert.Equal(t, Resolution{Width: 800, Height: 600}, res)
	assert.Equal(t, "800px × 600px", res.String())
	assert.Equal(t, "http://img/a.png", known.FetchSrc)

	half := NewImageCandidate("http://img/b.png", "http://page", intPtr(800), nil, false)
	_, ok = half.Resolution()
	assert.False(t, ok)
	assert.Nil(t, half.Width)
	assert.Equal(t, "http://page", half.FetchSrc)
}

func TestEnvelope_Expired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Envelope{}.Expired(now))
	assert.False(t, Envelope{ExpiresAt: now.Add(time.Millisecond).UnixMilli()}.Expired(now))
	assert.True(t, Envelope{ExpiresAt: now.UnixMilli()}.Expired(now))
	assert.True(t, Envelope{ExpiresAt: now.Add(-time.Second).UnixMilli()}.Expired(now))
}
