package domain

import (
	"time"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

// DeliveryConfig bounds the retrying push into a submission page.
type DeliveryConfig struct {
	DeliveryTimeout time.Duration // per-attempt wait for a reply
	MaxRetries      int           // attempt cap
	RetryDelay      time.Duration // wait before every attempt
}

// InboundCommand is a command received from the queue together with its receipt handle.
type InboundCommand struct {
	Command       shared.Command
	ReceiptHandle string
}
