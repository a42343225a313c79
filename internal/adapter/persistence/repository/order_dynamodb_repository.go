package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const ordersAssignmentTokenIndex = "assignment_token-index"

type personItem struct {
	ID    string `dynamodbav:"id,omitempty"`
	Name  string `dynamodbav:"name,omitempty"`
	Email string `dynamodbav:"email,omitempty"`
}

type assignmentRecordItem struct {
	Translator  personItem `dynamodbav:"translator"`
	Status      string     `dynamodbav:"status"`
	AssignedAt  string     `dynamodbav:"assigned_at"`
	RespondedAt string     `dynamodbav:"responded_at,omitempty"`
}

type orderItem struct {
	ID                    string                 `dynamodbav:"id"`
	QuoteID               string                 `dynamodbav:"quote_id"`
	TransactionID         string                 `dynamodbav:"transaction_id,omitempty"`
	Reference             string                 `dynamodbav:"reference"`
	ClientEmail           string                 `dynamodbav:"client_email"`
	ClientName            string                 `dynamodbav:"client_name,omitempty"`
	PartnerID             string                 `dynamodbav:"partner_id,omitempty"`
	ServiceType           string                 `dynamodbav:"service_type"`
	TranslateFrom         string                 `dynamodbav:"translate_from"`
	TranslateTo           string                 `dynamodbav:"translate_to"`
	WordCount             int                    `dynamodbav:"word_count"`
	Urgency               string                 `dynamodbav:"urgency"`
	TotalPrice            string                 `dynamodbav:"total_price"`
	TranslationStatus     string                 `dynamodbav:"translation_status"`
	PaymentStatus         string                 `dynamodbav:"payment_status"`
	DueDate               string                 `dynamodbav:"due_date,omitempty"`
	Deadline              string                 `dynamodbav:"deadline,omitempty"`
	PM                    personItem             `dynamodbav:"pm"`
	Translator            personItem             `dynamodbav:"translator"`
	AssignmentToken       string                 `dynamodbav:"assignment_token,omitempty"`
	AssignmentTokenUsed   bool                   `dynamodbav:"assignment_token_used"`
	AssignmentStatus      string                 `dynamodbav:"assignment_status"`
	AssignmentRespondedAt string                 `dynamodbav:"assignment_responded_at,omitempty"`
	AssignmentHistory     []assignmentRecordItem `dynamodbav:"assignment_history,omitempty"`
	TMSProjectID          string                 `dynamodbav:"tms_project_id,omitempty"`
	Version               int                    `dynamodbav:"version"`
	CreatedAt             string                 `dynamodbav:"created_at"`
	UpdatedAt             string                 `dynamodbav:"updated_at"`
	DeliveredAt           string                 `dynamodbav:"delivered_at,omitempty"`
}

// OrderDynamoRepository persists orders in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: assignment_token-index (PK: assignment_token)
//
// Every write goes through TransactWriteItems so the outbox events declared
// by a status change land in the same commit as the order itself. Updates are
// guarded by the version attribute.
type OrderDynamoRepository struct {
	ddb         *dynamodb.Client
	tableName   string
	outboxTable string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client, tableName, outboxTable string) *OrderDynamoRepository {
	return &OrderDynamoRepository{ddb: ddb, tableName: tableName, outboxTable: outboxTable}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order, events []entities.OutboxEvent) (entities.Order, error) {
	put, err := r.orderPut(o, "attribute_not_exists(#id)", map[string]string{"#id": "id"}, nil)
	if err != nil {
		return entities.Order{}, err
	}
	if err := r.write(ctx, put, events); err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) Save(ctx context.Context, o entities.Order, expectedVersion int, events []entities.OutboxEvent) (entities.Order, error) {
	put, err := r.orderPut(o,
		"attribute_exists(#id) AND #version = :expected",
		map[string]string{"#id": "id", "#version": "version"},
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expectedVersion)},
		},
	)
	if err != nil {
		return entities.Order{}, err
	}
	if err := r.write(ctx, put, events); err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

// GetByAssignmentToken resolves the order behind a translator response link.
// The index is eventually consistent, so the hit is re-read by primary key.
func (r *OrderDynamoRepository) GetByAssignmentToken(ctx context.Context, token string) (entities.Order, error) {
	if token == "" {
		return entities.Order{}, nil
	}
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ordersAssignmentTokenIndex),
		KeyConditionExpression: aws.String("assignment_token = :token"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Items) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Order{}, err
	}
	return r.GetByID(ctx, it.ID)
}

func (r *OrderDynamoRepository) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})

	items := make([]entities.Order, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it orderItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			o := fromOrderItem(it)
			if filter.Matches(o) {
				items = append(items, o)
			}
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *OrderDynamoRepository) CountByClientEmail(ctx context.Context, email string) (int, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		FilterExpression:         aws.String("#client_email = :email"),
		ExpressionAttributeNames: map[string]string{"#client_email": "client_email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: strings.ToLower(email)},
		},
		Select: types.SelectCount,
	})

	n := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		n += int(page.Count)
	}
	return n, nil
}

func (r *OrderDynamoRepository) orderPut(
	o entities.Order,
	condition string,
	names map[string]string,
	values map[string]types.AttributeValue,
) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:                 aws.String(r.tableName),
			Item:                      av,
			ConditionExpression:       aws.String(condition),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		},
	}, nil
}

func (r *OrderDynamoRepository) write(ctx context.Context, put types.TransactWriteItem, events []entities.OutboxEvent) error {
	eventPuts, err := outboxPuts(r.outboxTable, events)
	if err != nil {
		return err
	}
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: append([]types.TransactWriteItem{put}, eventPuts...),
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func toPersonItem(p entities.Person) personItem {
	return personItem{ID: p.ID, Name: p.Name, Email: p.Email}
}

func fromPersonItem(it personItem) entities.Person {
	return entities.Person{ID: it.ID, Name: it.Name, Email: it.Email}
}

func toOrderItem(o entities.Order) orderItem {
	history := make([]assignmentRecordItem, 0, len(o.AssignmentHistory))
	for _, h := range o.AssignmentHistory {
		history = append(history, assignmentRecordItem{
			Translator:  toPersonItem(h.Translator),
			Status:      string(h.Status),
			AssignedAt:  formatTime(h.AssignedAt),
			RespondedAt: formatTimePtr(h.RespondedAt),
		})
	}
	return orderItem{
		ID:                    o.ID,
		QuoteID:               o.QuoteID,
		TransactionID:         o.TransactionID,
		Reference:             o.Reference,
		ClientEmail:           o.ClientEmail,
		ClientName:            o.ClientName,
		PartnerID:             o.PartnerID,
		ServiceType:           string(o.ServiceType),
		TranslateFrom:         o.TranslateFrom,
		TranslateTo:           o.TranslateTo,
		WordCount:             o.WordCount,
		Urgency:               string(o.Urgency),
		TotalPrice:            decimalToString(o.TotalPrice),
		TranslationStatus:     string(o.TranslationStatus),
		PaymentStatus:         string(o.PaymentStatus),
		DueDate:               formatTimePtr(o.DueDate),
		Deadline:              formatTimePtr(o.Deadline),
		PM:                    toPersonItem(o.PM),
		Translator:            toPersonItem(o.Translator),
		AssignmentToken:       o.AssignmentToken,
		AssignmentTokenUsed:   o.AssignmentTokenUsed,
		AssignmentStatus:      string(o.AssignmentStatus),
		AssignmentRespondedAt: formatTimePtr(o.AssignmentRespondedAt),
		AssignmentHistory:     history,
		TMSProjectID:          o.TMSProjectID,
		Version:               o.Version,
		CreatedAt:             formatTime(o.CreatedAt),
		UpdatedAt:             formatTime(o.UpdatedAt),
		DeliveredAt:           formatTimePtr(o.DeliveredAt),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	var history []entities.AssignmentRecord
	for _, h := range it.AssignmentHistory {
		history = append(history, entities.AssignmentRecord{
			Translator:  fromPersonItem(h.Translator),
			Status:      entities.AssignmentStatus(h.Status),
			AssignedAt:  parseTime(h.AssignedAt),
			RespondedAt: parseTimePtr(h.RespondedAt),
		})
	}
	return entities.Order{
		ID:                    it.ID,
		QuoteID:               it.QuoteID,
		TransactionID:         it.TransactionID,
		Reference:             it.Reference,
		ClientEmail:           it.ClientEmail,
		ClientName:            it.ClientName,
		PartnerID:             it.PartnerID,
		ServiceType:           entities.ServiceType(it.ServiceType),
		TranslateFrom:         it.TranslateFrom,
		TranslateTo:           it.TranslateTo,
		WordCount:             it.WordCount,
		Urgency:               entities.Urgency(it.Urgency),
		TotalPrice:            parseDecimal(it.TotalPrice),
		TranslationStatus:     entities.TranslationStatus(it.TranslationStatus),
		PaymentStatus:         entities.OrderPaymentStatus(it.PaymentStatus),
		DueDate:               parseTimePtr(it.DueDate),
		Deadline:              parseTimePtr(it.Deadline),
		PM:                    fromPersonItem(it.PM),
		Translator:            fromPersonItem(it.Translator),
		AssignmentToken:       it.AssignmentToken,
		AssignmentTokenUsed:   it.AssignmentTokenUsed,
		AssignmentStatus:      entities.AssignmentStatus(it.AssignmentStatus),
		AssignmentRespondedAt: parseTimePtr(it.AssignmentRespondedAt),
		AssignmentHistory:     history,
		TMSProjectID:          it.TMSProjectID,
		Version:               it.Version,
		CreatedAt:             parseTime(it.CreatedAt),
		UpdatedAt:             parseTime(it.UpdatedAt),
		DeliveredAt:           parseTimePtr(it.DeliveredAt),
	}
}
