package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Torvusil/Furadder/workers/coordinator/domain"
	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type SQSRepository struct {
	client   *sqs.Client
	queueURL string
}

func NewSQSRepository(client *sqs.Client, queueURL string) *SQSRepository {
	return &SQSRepository{
		client:   client,
		queueURL: queueURL,
	}
}

// ReceiveMessages long-polls the command queue. A body that is not a command
// still comes back (with an empty command) so it gets routed, rejected and deleted.
func (r *SQSRepository) ReceiveMessages(ctx context.Context) ([]domain.InboundCommand, error) {
	output, err := r.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(r.queueURL),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	var commands []domain.InboundCommand
	for _, msg := range output.Messages {
		var cmd shared.Command
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &cmd); err != nil {
			log.Printf("Received invalid command message: %v", err)
		}
		commands = append(commands, domain.InboundCommand{
			Command:       cmd,
			ReceiptHandle: aws.ToString(msg.ReceiptHandle),
		})
	}

	return commands, nil
}

func (r *SQSRepository) DeleteMessage(ctx context.Context, handle string) error {
	_, err := r.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(r.queueURL),
		ReceiptHandle: aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
