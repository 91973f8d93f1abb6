package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	timeout := NewBusError(KindTimeout, "tab-1", ErrReplyTimeout)
	wrapped := fmt.Errorf("delivery failed: %w", timeout)

	assert.Equal(t, KindTimeout, KindOf(timeout))
	assert.Equal(t, KindTimeout, KindOf(wrapped))
	assert.Equal(t, KindFatal, KindOf(errors.New("boom")))
	assert.True(t, errors.Is(wrapped, ErrReplyTimeout))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(NewBusError(KindTimeout, "t", ErrReplyTimeout)))
	assert.True(t, Retryable(NewBusError(KindNoReceiver, "t", ErrNoReceiver)))
	assert.True(t, Retryable(NewBusError(KindLogicalFailure, "t", ErrNotInteractive)))
	assert.False(t, Retryable(NewBusError(KindFatal, "t", &Rejection{Reason: "nope"})))
	assert.False(t, Retryable(errors.New("plain")))
}

func TestBusError_Message(t *testing.T) {
	err := NewBusError(KindFatal, "page:1", &Rejection{Reason: "Unsupported fetch type: x"})
	assert.Equal(t, "fatal sending to page:1: rejected: Unsupported fetch type: x", err.Error())

	var rejection *Rejection
	assert.True(t, errors.As(err, &rejection))
	assert.Equal(t, "Unsupported fetch type: x", rejection.Reason)
}
