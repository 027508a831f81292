package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-review-api/internal/domain"
)

// ReviewRepo provides typed DynamoDB operations for the reviews table.
// PK: review_id. The status attribute carries the verification state;
// a `status-index` GSI serves the pending listing.
type ReviewRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewReviewRepo(client *dynamodb.Client, tableName string) *ReviewRepo {
	return &ReviewRepo{client: client, tableName: tableName}
}

func (r *ReviewRepo) Put(ctx context.Context, rev *domain.Review) error {
	item, err := attributevalue.MarshalMap(rev)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ReviewRepo) Get(ctx context.Context, reviewID string) (*domain.Review, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("review_id", reviewID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("review not found: %w", domain.ErrNotFound)
	}
	var rev domain.Review
	if err := attributevalue.UnmarshalMap(out.Item, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

// MarkVerified performs the pending→verified transition as a single
// conditional update: status, metadata.verified_at and reviewer.verified
// change together or not at all.
func (r *ReviewRepo) MarkVerified(ctx context.Context, reviewID string, at time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("review_id", reviewID),
		UpdateExpression:    aws.String("SET #s = :v, #md.#va = :now, #rv.#vf = :t"),
		ConditionExpression: aws.String("attribute_exists(review_id)"),
		ExpressionAttributeNames: map[string]string{
			"#s":  "status",
			"#md": "metadata",
			"#va": "verified_at",
			"#rv": "reviewer",
			"#vf": "verified",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":   strVal(domain.StatusVerified),
			":now": strVal(at.UTC().Format(time.RFC3339Nano)),
			":t":   boolVal(true),
		},
	})
	return err
}

// ListByStatus queries the status-index GSI. Results are sorted by
// submission time client-side since the GSI has no range key.
func (r *ReviewRepo) ListByStatus(ctx context.Context, status string) ([]domain.Review, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                aws.String(r.tableName),
		IndexName:                aws.String("status-index"),
		KeyConditionExpression:   aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": strVal(status),
		},
	})
	if err != nil {
		return nil, err
	}
	var reviews []domain.Review
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// HardDelete permanently removes a review item.
func (r *ReviewRepo) HardDelete(ctx context.Context, reviewID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("review_id", reviewID),
	})
	return err
}
