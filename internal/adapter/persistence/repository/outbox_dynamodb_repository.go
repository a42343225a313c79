package repository

import (
	"context"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	outboxPendingIndex = "pending-index"
	outboxPendingValue = "1"
)

type outboxItem struct {
	ID          string `dynamodbav:"id"`
	OrderID     string `dynamodbav:"order_id"`
	Effect      string `dynamodbav:"effect"`
	Recipient   string `dynamodbav:"recipient"`
	Pending     string `dynamodbav:"pending,omitempty"`
	CreatedAt   string `dynamodbav:"created_at"`
	ProcessedAt string `dynamodbav:"processed_at,omitempty"`
	AbandonedAt string `dynamodbav:"abandoned_at,omitempty"`
	Attempts    int    `dynamodbav:"attempts"`
	LastError   string `dynamodbav:"last_error,omitempty"`
}

// OutboxDynamoRepository reads and settles outbox events. Events are written
// by the order and transaction repositories inside their own transactions.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: pending-index (PK: pending, SK: created_at), sparse; the pending
//     attribute is removed once the event is processed or abandoned.
type OutboxDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOutboxRepository = (*OutboxDynamoRepository)(nil)

func NewOutboxDynamoRepository(ddb *dynamodb.Client, tableName string) *OutboxDynamoRepository {
	return &OutboxDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *OutboxDynamoRepository) ListPending(ctx context.Context, limit int) ([]entities.OutboxEvent, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(outboxPendingIndex),
		KeyConditionExpression: aws.String("#pending = :pending"),
		ExpressionAttributeNames: map[string]string{
			"#pending": "pending",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": &types.AttributeValueMemberS{Value: outboxPendingValue},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if limit > 0 {
		in.Limit = aws.Int32(int32(limit))
	}

	out, err := r.ddb.Query(ctx, in)
	if err != nil {
		return nil, err
	}

	items := make([]entities.OutboxEvent, 0, len(out.Items))
	for _, raw := range out.Items {
		var it outboxItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromOutboxItem(it))
	}
	return items, nil
}

func (r *OutboxDynamoRepository) MarkProcessed(ctx context.Context, id string, now time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String("attribute_exists(#id) AND attribute_exists(#pending)"),
		UpdateExpression:    aws.String("SET #processed_at = :processed_at REMOVE #pending"),
		ExpressionAttributeNames: map[string]string{
			"#id":           "id",
			"#processed_at": "processed_at",
			"#pending":      "pending",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":processed_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func (r *OutboxDynamoRepository) RecordFailure(ctx context.Context, id, reason string) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #attempts = #attempts + :one, #last_error = :reason"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#attempts":   "attempts",
			"#last_error": "last_error",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":reason": &types.AttributeValueMemberS{Value: reason},
		},
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

// MarkAbandoned takes an event that ran out of attempts off the pending
// index, so it no longer occupies a batch slot.
func (r *OutboxDynamoRepository) MarkAbandoned(ctx context.Context, id string, now time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String("attribute_exists(#id) AND attribute_exists(#pending)"),
		UpdateExpression:    aws.String("SET #abandoned_at = :abandoned_at REMOVE #pending"),
		ExpressionAttributeNames: map[string]string{
			"#id":           "id",
			"#abandoned_at": "abandoned_at",
			"#pending":      "pending",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":abandoned_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func toOutboxItem(e entities.OutboxEvent) outboxItem {
	it := outboxItem{
		ID:          e.ID,
		OrderID:     e.OrderID,
		Effect:      string(e.Effect),
		Recipient:   string(e.Recipient),
		CreatedAt:   formatTime(e.CreatedAt),
		ProcessedAt: formatTimePtr(e.ProcessedAt),
		AbandonedAt: formatTimePtr(e.AbandonedAt),
		Attempts:    e.Attempts,
		LastError:   e.LastError,
	}
	if !e.Settled() {
		it.Pending = outboxPendingValue
	}
	return it
}

func fromOutboxItem(it outboxItem) entities.OutboxEvent {
	return entities.OutboxEvent{
		ID:          it.ID,
		OrderID:     it.OrderID,
		Effect:      entities.Effect(it.Effect),
		Recipient:   entities.Recipient(it.Recipient),
		CreatedAt:   parseTime(it.CreatedAt),
		ProcessedAt: parseTimePtr(it.ProcessedAt),
		AbandonedAt: parseTimePtr(it.AbandonedAt),
		Attempts:    it.Attempts,
		LastError:   it.LastError,
	}
}
