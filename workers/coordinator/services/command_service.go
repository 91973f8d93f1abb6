package services

import (
	"context"
	"log"
	"time"

	"github.com/Torvusil/Furadder/workers/coordinator/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"
)

type SQSRepository interface {
	ReceiveMessages(ctx context.Context) ([]domain.InboundCommand, error)
	DeleteMessage(ctx context.Context, handle string) error
}

type Router interface {
	Route(cmd shared.Command) shared.RouteResponse
}

// CommandService feeds queued commands to the router.
type CommandService struct {
	sqsRepo    SQSRepository
	router     Router
	retryDelay time.Duration
}

func NewCommandService(sqsRepo SQSRepository, router Router) *CommandService {
	return &CommandService{
		sqsRepo:    sqsRepo,
		router:     router,
		retryDelay: 5 * time.Second,
	}
}

func (s *CommandService) Start(ctx context.Context) {
	log.Println("Command Service started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Command Service stopping...")
			return
		default:
			commands, err := s.sqsRepo.ReceiveMessages(ctx)
			if err != nil {
				log.Printf("Error receiving commands: %v", err)
				time.Sleep(s.retryDelay)
				continue
			}

			for _, inbound := range commands {
				resp := s.router.Route(inbound.Command)
				log.Printf("Routed queued command %q: success=%v", inbound.Command.Command, resp.Success)

				// Delete even when rejected so a bad command cannot loop forever.
				if err := s.sqsRepo.DeleteMessage(ctx, inbound.ReceiptHandle); err != nil {
					log.Printf("Error deleting command %s: %v", inbound.ReceiptHandle, err)
				}
			}
		}
	}
}
