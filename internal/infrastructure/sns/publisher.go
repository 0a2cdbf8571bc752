package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/notifperf-api/internal/config"
	"github.com/notifperf-api/internal/domain"
)

// EventGenerationCompleted is the event_type attribute of generation messages.
const EventGenerationCompleted = "performance.generated"

type publishAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, opts ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher announces completed generation batches on an SNS topic.
type Publisher struct {
	client   publishAPI
	topicARN string
}

// NewClient creates an SNS client, honouring AWS_ENDPOINT_URL like the DynamoDB client.
func NewClient(awsCfg aws.Config, cfg *config.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
}

func NewPublisher(client publishAPI, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

func (p *Publisher) PublishGeneration(ctx context.Context, report domain.GenerationReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal generation report: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventGenerationCompleted)},
			"batch_id":   {DataType: aws.String("String"), StringValue: aws.String(report.BatchID)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topicARN, err)
	}
	return nil
}
