package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-review-api/internal/domain"
)

// TokenRepo manages verification tokens.
// PK: token (64-char hex). The expires_at attribute is the table TTL.
type TokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTokenRepo(client *dynamodb.Client, tableName string) *TokenRepo {
	return &TokenRepo{client: client, tableName: tableName}
}

func (r *TokenRepo) Put(ctx context.Context, t *domain.VerificationToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TokenRepo) Get(ctx context.Context, token string) (*domain.VerificationToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("token not found: %w", domain.ErrNotFound)
	}
	var t domain.VerificationToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Consume flips used from false to true with a conditional write and bumps
// the attempts counter in the same update. Returns domain.ErrConflict when
// the condition fails, i.e. a concurrent attempt already consumed the token.
func (r *TokenRepo) Consume(ctx context.Context, token string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("token", token),
		UpdateExpression:    aws.String("SET #u = :t ADD #a :one"),
		ConditionExpression: aws.String("attribute_exists(#tk) AND #u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#tk": "token",
			"#u":  "used",
			"#a":  "attempts",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   boolVal(true),
			":f":   boolVal(false),
			":one": numVal("1"),
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("token already consumed: %w", domain.ErrConflict)
	}
	return err
}

// Scan returns every token item. Items that don't unmarshal into the domain
// type are returned as raw keys in corrupt so the sweep can remove them.
func (r *TokenRepo) Scan(ctx context.Context) (tokens []domain.VerificationToken, corrupt []string, err error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, item := range out.Items {
			var t domain.VerificationToken
			if err := attributevalue.UnmarshalMap(item, &t); err != nil || t.Token == "" {
				if key, ok := item["token"].(*types.AttributeValueMemberS); ok {
					corrupt = append(corrupt, key.Value)
				}
				continue
			}
			tokens = append(tokens, t)
		}
	}
	return tokens, corrupt, nil
}

func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	return err
}
