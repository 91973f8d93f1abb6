package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	shared "github.com/Torvusil/Furadder/workers/shared/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/smithy-go/middleware"
	"github.com/stretchr/testify/assert"
)

// Mock middleware to return specific output or error
func mockSQSMiddleware(output interface{}, err error) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Finalize.Add(
			middleware.FinalizeMiddlewareFunc("MockMiddleware", func(context.Context, middleware.FinalizeInput, middleware.FinalizeHandler) (middleware.FinalizeOutput, middleware.Metadata, error) {
				return middleware.FinalizeOutput{
					Result: output,
				}, middleware.Metadata{}, err
			}),
			middleware.Before,
		)
	}
}

// captureSQSBody records the message body before the stubbed send.
func captureSQSBody(body *string) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Initialize.Add(
			middleware.InitializeMiddlewareFunc("CaptureBody", func(ctx context.Context, in middleware.InitializeInput, next middleware.InitializeHandler) (middleware.InitializeOutput, middleware.Metadata, error) {
				if input, ok := in.Parameters.(*sqs.SendMessageInput); ok {
					*body = aws.ToString(input.MessageBody)
				}
				return next.HandleInitialize(ctx, in)
			}),
			middleware.Before,
		)
	}
}

func TestSQSCoordinatorClient_CreateSubmissionTab(t *testing.T) {
	var body string
	client := sqs.NewFromConfig(aws.Config{Region: "us-east-1"}, func(o *sqs.Options) {
		o.APIOptions = append(o.APIOptions, captureSQSBody(&body), mockSQSMiddleware(&sqs.SendMessageOutput{}, nil))
	})

	repo := NewSQSCoordinatorClient(client, "queue-url")
	resp, err := repo.CreateSubmissionTab(context.TODO(), shared.CreateSubmissionTabData{
		URLStr:   "https://furbooru.org/images/new",
		PostData: shared.PostData{FetchURLStr: "http://img/a.png", Tags: []string{"safe"}},
	})
	assert.NoError(t, err)
	assert.True(t, resp.Success)

	var cmd shared.Command
	assert.NoError(t, json.Unmarshal([]byte(body), &cmd))
	assert.Equal(t, shared.CmdCreateSubmissionTab, cmd.Command)
	var data shared.CreateSubmissionTabData
	assert.NoError(t, json.Unmarshal(cmd.Data, &data))
	assert.Equal(t, "https://furbooru.org/images/new", data.URLStr)
	assert.Equal(t, []string{"safe"}, data.PostData.Tags)
}

func TestSQSCoordinatorClient_CreateSubmissionTab_Error(t *testing.T) {
	clientErr := sqs.NewFromConfig(aws.Config{Region: "us-east-1"}, func(o *sqs.Options) {
		o.APIOptions = append(o.APIOptions, mockSQSMiddleware(nil, errors.New("aws error")))
	})

	repoErr := NewSQSCoordinatorClient(clientErr, "queue-url")
	resp, err := repoErr.CreateSubmissionTab(context.TODO(), shared.CreateSubmissionTabData{})
	assert.Error(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, err.Error(), "failed to send message")
}
