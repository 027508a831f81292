package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-review-api/internal/domain"
)

// indexKey is the partition key of the single aggregate item.
const indexKey = "verified"

// IndexRepo manages the verified-index aggregate: one item holding the
// bounded listing plus the cumulative counter.
type IndexRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewIndexRepo(client *dynamodb.Client, tableName string) *IndexRepo {
	return &IndexRepo{client: client, tableName: tableName}
}

// Get loads the index, lazily initialising an empty one if the item does
// not exist yet.
func (r *IndexRepo) Get(ctx context.Context) (*domain.VerifiedIndex, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("index_key", indexKey),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return &domain.VerifiedIndex{Key: indexKey}, nil
	}
	var idx domain.VerifiedIndex
	if err := attributevalue.UnmarshalMap(out.Item, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Append loads the index, applies the entry and persists the whole item.
// Callers treat failures as best-effort: the verification itself has
// already committed by the time this runs.
func (r *IndexRepo) Append(ctx context.Context, e domain.VerifiedIndexEntry, now time.Time) (*domain.VerifiedIndex, error) {
	idx, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	idx.Append(e, now)

	item, err := attributevalue.MarshalMap(idx)
	if err != nil {
		return nil, fmt.Errorf("marshal verified index: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}
