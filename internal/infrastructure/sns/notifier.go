package sns

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-review-api/internal/config"
)

// Notifier publishes verification events to a downstream workflow topic.
// Delivery is best-effort: callers log failures and move on.
type Notifier interface {
	ReviewVerified(ctx context.Context, reviewID, email string) error
}

type notifier struct {
	client   *sns.Client
	topicARN string
}

func NewNotifier(cfg *config.Config) (Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &notifier{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSTopicARN}, nil
}

func (n *notifier) ReviewVerified(ctx context.Context, reviewID, email string) error {
	msg, err := json.Marshal(map[string]string{
		"event":      "review.verified",
		"reviewId":   reviewID,
		"email":      email,
		"verifiedAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(msg)),
	})
	return err
}
