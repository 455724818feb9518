package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// draftRecord is the DynamoDB item: the draft fields plus the hash key and TTL attribute.
type draftRecord struct {
	SessionID string `dynamodbav:"session_id"`
	Draft
	UpdatedAt string `dynamodbav:"updatedAt"`
	ExpiresAt int64  `dynamodbav:"expiresAt,omitempty"`
}

// DynamoStore keeps drafts in a table keyed by session_id. Expiry relies on the table's TTL
// setting for expiresAt.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewDynamoStore(client dynamoAPI, tableName string, ttl time.Duration) *DynamoStore {
	if client == nil {
		panic("wizard: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("wizard: table name cannot be empty")
	}
	return &DynamoStore{client: client, tableName: tableName, ttl: ttl, now: time.Now}
}

func (s *DynamoStore) key(sessionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"session_id": &types.AttributeValueMemberS{Value: sessionID},
	}
}

func (s *DynamoStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(sessionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("wizard: failed to fetch draft: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var rec draftRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("wizard: failed to decode draft: %w", err)
	}
	if rec.ExpiresAt > 0 && rec.ExpiresAt <= s.now().Unix() {
		// TTL deletion is lazy on the DynamoDB side.
		return nil, nil
	}
	return &rec.Draft, nil
}

func (s *DynamoStore) Save(ctx context.Context, sessionID string, draft Draft) error {
	now := s.now().UTC()
	rec := draftRecord{
		SessionID: sessionID,
		Draft:     draft,
		UpdatedAt: now.Format(time.RFC3339Nano),
	}
	if s.ttl > 0 {
		rec.ExpiresAt = now.Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("wizard: failed to marshal draft: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("wizard: failed to persist draft: %w", err)
	}
	return nil
}

func (s *DynamoStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(sessionID),
	}); err != nil {
		return fmt.Errorf("wizard: failed to clear draft: %w", err)
	}
	return nil
}

var _ DraftStore = (*DynamoStore)(nil)
