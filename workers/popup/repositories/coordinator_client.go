package repositories

import (
	"context"
	"time"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type Messenger interface {
	Send(ctx context.Context, target, command string, data interface{}, timeout time.Duration) (shared.Reply, error)
}

// BusCoordinatorClient talks to the coordinator over the message bus. A
// missing coordinator surfaces as a NoReceiver error, distinct from an
// answer of success=false.
type BusCoordinatorClient struct {
	messenger Messenger
	contextID string
	timeout   time.Duration
}

func NewBusCoordinatorClient(messenger Messenger, contextID string, timeout time.Duration) *BusCoordinatorClient {
	return &BusCoordinatorClient{
		messenger: messenger,
		contextID: contextID,
		timeout:   timeout,
	}
}

func (c *BusCoordinatorClient) CreateSubmissionTab(ctx context.Context, data shared.CreateSubmissionTabData) (shared.RouteResponse, error) {
	reply, err := c.messenger.Send(ctx, c.contextID, shared.CmdCreateSubmissionTab, data, c.timeout)
	if err != nil {
		return shared.RouteResponse{}, err
	}
	return shared.RouteResponse{Success: reply.Success}, nil
}
