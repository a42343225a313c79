package repository

import (
	"context"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type quoteItem struct {
	ID             string `dynamodbav:"id"`
	Reference      string `dynamodbav:"reference"`
	ServiceType    string `dynamodbav:"service_type"`
	TranslateFrom  string `dynamodbav:"translate_from"`
	TranslateTo    string `dynamodbav:"translate_to"`
	WordCount      int    `dynamodbav:"word_count"`
	Pages          int    `dynamodbav:"pages"`
	Urgency        string `dynamodbav:"urgency"`
	PhysicalCopy   bool   `dynamodbav:"physical_copy"`
	BasePrice      string `dynamodbav:"base_price"`
	UrgencyFee     string `dynamodbav:"urgency_fee"`
	ShippingFee    string `dynamodbav:"shipping_fee"`
	DiscountAmount string `dynamodbav:"discount_amount"`
	DiscountCode   string `dynamodbav:"discount_code,omitempty"`
	TotalPrice     string `dynamodbav:"total_price"`
	CustomerEmail  string `dynamodbav:"customer_email,omitempty"`
	CustomerName   string `dynamodbav:"customer_name,omitempty"`
	PartnerID      string `dynamodbav:"partner_id,omitempty"`
	CreatedAt      string `dynamodbav:"created_at"`
}

// QuoteDynamoRepository persists quotes in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client, tableName string) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		return entities.Quote{}, err
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
		return entities.Quote{}, conditionFailed(err)
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	return quoteItem{
		ID:             q.ID,
		Reference:      q.Reference,
		ServiceType:    string(q.ServiceType),
		TranslateFrom:  q.TranslateFrom,
		TranslateTo:    q.TranslateTo,
		WordCount:      q.WordCount,
		Pages:          q.Pages,
		Urgency:        string(q.Urgency),
		PhysicalCopy:   q.PhysicalCopy,
		BasePrice:      decimalToString(q.BasePrice),
		UrgencyFee:     decimalToString(q.UrgencyFee),
		ShippingFee:    decimalToString(q.ShippingFee),
		DiscountAmount: decimalToString(q.DiscountAmount),
		DiscountCode:   q.DiscountCode,
		TotalPrice:     decimalToString(q.TotalPrice),
		CustomerEmail:  q.CustomerEmail,
		CustomerName:   q.CustomerName,
		PartnerID:      q.PartnerID,
		CreatedAt:      formatTime(q.CreatedAt),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	return entities.Quote{
		ID:             it.ID,
		Reference:      it.Reference,
		ServiceType:    entities.ServiceType(it.ServiceType),
		TranslateFrom:  it.TranslateFrom,
		TranslateTo:    it.TranslateTo,
		WordCount:      it.WordCount,
		Pages:          it.Pages,
		Urgency:        entities.Urgency(it.Urgency),
		PhysicalCopy:   it.PhysicalCopy,
		BasePrice:      parseDecimal(it.BasePrice),
		UrgencyFee:     parseDecimal(it.UrgencyFee),
		ShippingFee:    parseDecimal(it.ShippingFee),
		DiscountAmount: parseDecimal(it.DiscountAmount),
		DiscountCode:   it.DiscountCode,
		TotalPrice:     parseDecimal(it.TotalPrice),
		CustomerEmail:  it.CustomerEmail,
		CustomerName:   it.CustomerName,
		PartnerID:      it.PartnerID,
		CreatedAt:      parseTime(it.CreatedAt),
	}
}
