package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSCoordinatorClient queues submission commands for the coordinator.
type SQSCoordinatorClient struct {
	Client   *sqs.Client
	queueURL string
}

func NewSQSCoordinatorClient(client *sqs.Client, queueURL string) *SQSCoordinatorClient {
	return &SQSCoordinatorClient{Client: client, queueURL: queueURL}
}

// CreateSubmissionTab enqueues the command. Success only means it was
// queued; the coordinator routes it later.
func (s *SQSCoordinatorClient) CreateSubmissionTab(ctx context.Context, data shared.CreateSubmissionTabData) (shared.RouteResponse, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return shared.RouteResponse{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	body, err := json.Marshal(shared.Command{Command: shared.CmdCreateSubmissionTab, Data: payload})
	if err != nil {
		return shared.RouteResponse{}, fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		log.Printf("failed to send message to %s: %v", s.queueURL, err)
		return shared.RouteResponse{}, fmt.Errorf("failed to send message: %w", err)
	}
	return shared.RouteResponse{Success: true}, nil
}
