package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type paymentTransactionItem struct {
	ID               string `dynamodbav:"id"`
	QuoteID          string `dynamodbav:"quote_id"`
	SessionID        string `dynamodbav:"session_id"`
	CheckoutURL      string `dynamodbav:"checkout_url"`
	GatewayPaymentID string `dynamodbav:"gateway_payment_id,omitempty"`
	Amount           string `dynamodbav:"amount"`
	Currency         string `dynamodbav:"currency"`
	CustomerEmail    string `dynamodbav:"customer_email,omitempty"`
	CustomerName     string `dynamodbav:"customer_name,omitempty"`
	DiscountCode     string `dynamodbav:"discount_code,omitempty"`
	PaymentStatus    string `dynamodbav:"payment_status"`
	Status           string `dynamodbav:"status"`
	OrderID          string `dynamodbav:"order_id,omitempty"`
	TMSProjectID     string `dynamodbav:"tms_project_id,omitempty"`
	CreatedAt        string `dynamodbav:"created_at"`
	UpdatedAt        string `dynamodbav:"updated_at"`
	PaidAt           string `dynamodbav:"paid_at,omitempty"`
}

// PaymentTransactionDynamoRepository persists checkout transactions in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// A paid transaction is never written again: every status update carries a
// payment_status <> paid condition, and Complete commits the transaction,
// its order and the order's outbox events in one TransactWriteItems call.
type PaymentTransactionDynamoRepository struct {
	ddb         *dynamodb.Client
	tableName   string
	ordersTable string
	outboxTable string
}

var _ interfaces.IPaymentTransactionRepository = (*PaymentTransactionDynamoRepository)(nil)

func NewPaymentTransactionDynamoRepository(ddb *dynamodb.Client, tableName, ordersTable, outboxTable string) *PaymentTransactionDynamoRepository {
	return &PaymentTransactionDynamoRepository{
		ddb:         ddb,
		tableName:   tableName,
		ordersTable: ordersTable,
		outboxTable: outboxTable,
	}
}

func (r *PaymentTransactionDynamoRepository) Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error) {
	av, err := attributevalue.MarshalMap(toPaymentTransactionItem(t))
	if err != nil {
		return entities.PaymentTransaction{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.PaymentTransaction{}, conditionFailed(err)
	}
	return t, nil
}

func (r *PaymentTransactionDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentTransaction{}, nil
	}

	var it paymentTransactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentTransaction{}, err
	}
	return fromPaymentTransactionItem(it), nil
}

func (r *PaymentTransactionDynamoRepository) Complete(ctx context.Context, t entities.PaymentTransaction, o entities.Order, events []entities.OutboxEvent) error {
	txAV, err := attributevalue.MarshalMap(toPaymentTransactionItem(t))
	if err != nil {
		return err
	}
	orderAV, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return err
	}
	eventPuts, err := outboxPuts(r.outboxTable, events)
	if err != nil {
		return err
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_exists(#id) AND #payment_status <> :paid"),
				ExpressionAttributeNames: map[string]string{
					"#id":             "id",
					"#payment_status": "payment_status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":paid": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPaid)},
				},
			},
		},
		{
			Put: &types.Put{
				TableName:                aws.String(r.ordersTable),
				Item:                     orderAV,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			},
		},
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: append(items, eventPuts...),
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func (r *PaymentTransactionDynamoRepository) MarkPending(ctx context.Context, id, gatewayPaymentID string, now time.Time) error {
	return r.transition(ctx, id, []entities.TransactionStatus{entities.TransactionInitiated},
		"SET #status = :status, #gateway_payment_id = :gw, #updated_at = :updated_at",
		map[string]string{"#gateway_payment_id": "gateway_payment_id"},
		map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(entities.TransactionPending)},
			":gw":         &types.AttributeValueMemberS{Value: gatewayPaymentID},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	)
}

func (r *PaymentTransactionDynamoRepository) MarkFailed(ctx context.Context, id, gatewayPaymentID string, now time.Time) error {
	return r.transition(ctx, id, []entities.TransactionStatus{entities.TransactionInitiated, entities.TransactionPending},
		"SET #payment_status = :failed, #gateway_payment_id = :gw, #updated_at = :updated_at",
		map[string]string{"#gateway_payment_id": "gateway_payment_id"},
		map[string]types.AttributeValue{
			":failed":     &types.AttributeValueMemberS{Value: string(entities.PaymentStatusFailed)},
			":gw":         &types.AttributeValueMemberS{Value: gatewayPaymentID},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	)
}

func (r *PaymentTransactionDynamoRepository) MarkExpired(ctx context.Context, id string, now time.Time) error {
	return r.transition(ctx, id, []entities.TransactionStatus{entities.TransactionInitiated, entities.TransactionPending},
		"SET #payment_status = :expired, #status = :status, #updated_at = :updated_at",
		nil,
		map[string]types.AttributeValue{
			":expired":    &types.AttributeValueMemberS{Value: string(entities.PaymentStatusExpired)},
			":status":     &types.AttributeValueMemberS{Value: string(entities.TransactionExpired)},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	)
}

// transition applies updateExpr when the stored status is one of from and the
// transaction is not paid.
func (r *PaymentTransactionDynamoRepository) transition(
	ctx context.Context,
	id string,
	from []entities.TransactionStatus,
	updateExpr string,
	names map[string]string,
	values map[string]types.AttributeValue,
) error {
	vals := map[string]types.AttributeValue{
		":paid": &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPaid)},
	}
	for k, v := range values {
		vals[k] = v
	}
	condition := "attribute_exists(#id) AND #payment_status <> :paid AND #status IN ("
	for i, s := range from {
		key := ":from" + strconv.Itoa(i)
		if i > 0 {
			condition += ", "
		}
		condition += key
		vals[key] = &types.AttributeValueMemberS{Value: string(s)}
	}
	condition += ")"

	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String(condition),
		UpdateExpression:    aws.String(updateExpr),
		ExpressionAttributeNames: mergeNames(names, map[string]string{
			"#id":             "id",
			"#status":         "status",
			"#payment_status": "payment_status",
			"#updated_at":     "updated_at",
		}),
		ExpressionAttributeValues: vals,
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func (r *PaymentTransactionDynamoRepository) ListOpenCreatedBefore(ctx context.Context, cutoff time.Time) ([]entities.PaymentTransaction, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("#status IN (:initiated, :pending) AND #payment_status <> :paid AND #created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status":         "status",
			"#payment_status": "payment_status",
			"#created_at":     "created_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":initiated": &types.AttributeValueMemberS{Value: string(entities.TransactionInitiated)},
			":pending":   &types.AttributeValueMemberS{Value: string(entities.TransactionPending)},
			":paid":      &types.AttributeValueMemberS{Value: string(entities.PaymentStatusPaid)},
			":cutoff":    &types.AttributeValueMemberS{Value: formatTime(cutoff)},
		},
	})

	items := make([]entities.PaymentTransaction, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it paymentTransactionItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromPaymentTransactionItem(it))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *PaymentTransactionDynamoRepository) SetTMSProject(ctx context.Context, id, projectID string, now time.Time) error {
	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #tms_project_id = :project, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#id":             "id",
			"#tms_project_id": "tms_project_id",
			"#updated_at":     "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":project":    &types.AttributeValueMemberS{Value: projectID},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func toPaymentTransactionItem(t entities.PaymentTransaction) paymentTransactionItem {
	return paymentTransactionItem{
		ID:               t.ID,
		QuoteID:          t.QuoteID,
		SessionID:        t.SessionID,
		CheckoutURL:      t.CheckoutURL,
		GatewayPaymentID: t.GatewayPaymentID,
		Amount:           decimalToString(t.Amount),
		Currency:         t.Currency,
		CustomerEmail:    t.CustomerEmail,
		CustomerName:     t.CustomerName,
		DiscountCode:     t.DiscountCode,
		PaymentStatus:    string(t.PaymentStatus),
		Status:           string(t.Status),
		OrderID:          t.OrderID,
		TMSProjectID:     t.TMSProjectID,
		CreatedAt:        formatTime(t.CreatedAt),
		UpdatedAt:        formatTime(t.UpdatedAt),
		PaidAt:           formatTimePtr(t.PaidAt),
	}
}

func fromPaymentTransactionItem(it paymentTransactionItem) entities.PaymentTransaction {
	return entities.PaymentTransaction{
		ID:               it.ID,
		QuoteID:          it.QuoteID,
		SessionID:        it.SessionID,
		CheckoutURL:      it.CheckoutURL,
		GatewayPaymentID: it.GatewayPaymentID,
		Amount:           parseDecimal(it.Amount),
		Currency:         it.Currency,
		CustomerEmail:    it.CustomerEmail,
		CustomerName:     it.CustomerName,
		DiscountCode:     it.DiscountCode,
		PaymentStatus:    entities.PaymentStatus(it.PaymentStatus),
		Status:           entities.TransactionStatus(it.Status),
		OrderID:          it.OrderID,
		TMSProjectID:     it.TMSProjectID,
		CreatedAt:        parseTime(it.CreatedAt),
		UpdatedAt:        parseTime(it.UpdatedAt),
		PaidAt:           parseTimePtr(it.PaidAt),
	}
}
