package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed cross-context exchange.
type ErrorKind int

const (
	KindFatal ErrorKind = iota
	KindTimeout
	KindNoReceiver
	KindLogicalFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNoReceiver:
		return "no receiver"
	case KindLogicalFailure:
		return "logical failure"
	default:
		return "fatal"
	}
}

var (
	ErrNoReceiver     = errors.New("receiving end does not exist")
	ErrReplyTimeout   = errors.New("no reply before deadline")
	ErrNotInteractive = errors.New("receiver answered success=false")
)

// Rejection is an explicit refusal returned by the receiving context.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return "rejected: " + r.Reason
}

// BusError is the only error shape transports hand back to their callers.
type BusError struct {
	Kind   ErrorKind
	Target string
	Err    error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("%s sending to %s: %v", e.Kind, e.Target, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

func NewBusError(kind ErrorKind, target string, err error) error {
	return &BusError{Kind: kind, Target: target, Err: err}
}

// KindOf returns the kind carried by err; anything unclassified is fatal.
func KindOf(err error) ErrorKind {
	var busErr *BusError
	if errors.As(err, &busErr) {
		return busErr.Kind
	}
	return KindFatal
}

// Retryable reports whether a delivery failing with err may be attempted again.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindNoReceiver, KindLogicalFailure:
		return true
	default:
		return false
	}
}
