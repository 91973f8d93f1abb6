package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Torvusil/Furadder/workers/coordinator/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

// Messenger pushes a command into another context and waits for its reply.
type Messenger interface {
	Send(ctx context.Context, target, command string, data interface{}, timeout time.Duration) (shared.Reply, error)
}

// DeliveryResult describes how a delivery ended.
type DeliveryResult struct {
	Attempts  int
	Delivered bool
}

// DeliveryService pushes a submission payload into a page that may not be
// listening yet. Attempts against one target are strictly sequential.
type DeliveryService struct {
	messenger Messenger
	cfg       domain.DeliveryConfig
	wait      func(ctx context.Context, d time.Duration) error
}

func NewDeliveryService(messenger Messenger, cfg domain.DeliveryConfig) *DeliveryService {
	return &DeliveryService{
		messenger: messenger,
		cfg:       cfg,
		wait:      sleepContext,
	}
}

// Deliver retries timeouts, missing receivers and success=false replies after a
// fixed delay, up to MaxRetries attempts. Running out of attempts is not an
// error; only a fatal send failure or cancellation is.
func (s *DeliveryService) Deliver(ctx context.Context, target string, payload shared.PostData) (DeliveryResult, error) {
	var result DeliveryResult
	for result.Attempts < s.cfg.MaxRetries {
		if err := s.wait(ctx, s.cfg.RetryDelay); err != nil {
			return result, err
		}
		result.Attempts++

		reply, err := s.messenger.Send(ctx, target, shared.CmdFillSubmission, payload, s.cfg.DeliveryTimeout)
		if err == nil && !reply.Success {
			err = shared.NewBusError(shared.KindLogicalFailure, target, shared.ErrNotInteractive)
		}
		if err == nil {
			result.Delivered = true
			log.Printf("Delivered submission to %s after %d attempt(s)", target, result.Attempts)
			return result, nil
		}
		if !shared.Retryable(err) {
			return result, fmt.Errorf("delivery to %s failed: %w", target, err)
		}
		log.Printf("Delivery attempt %d/%d to %s failed (%s), retrying", result.Attempts, s.cfg.MaxRetries, target, shared.KindOf(err))
	}

	log.Printf("Giving up on delivery to %s after %d attempts", target, result.Attempts)
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
