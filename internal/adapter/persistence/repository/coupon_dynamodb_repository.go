package repository

import (
	"context"
	"sort"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type couponItem struct {
	Code           string   `dynamodbav:"code"`
	DiscountType   string   `dynamodbav:"discount_type"`
	DiscountValue  string   `dynamodbav:"discount_value"`
	MaxUses        int      `dynamodbav:"max_uses"`
	TimesUsed      int      `dynamodbav:"times_used"`
	IsActive       bool     `dynamodbav:"is_active"`
	ValidFrom      string   `dynamodbav:"valid_from"`
	ValidUntil     string   `dynamodbav:"valid_until,omitempty"`
	MinOrderValue  string   `dynamodbav:"min_order_value"`
	FirstOrderOnly bool     `dynamodbav:"first_order_only"`
	PartnerID      string   `dynamodbav:"partner_id,omitempty"`
	RedeemedBy     []string `dynamodbav:"redeemed_by,stringset,omitempty"`
	CreatedAt      string   `dynamodbav:"created_at"`
	UpdatedAt      string   `dynamodbav:"updated_at"`
}

// CouponDynamoRepository persists discount codes in DynamoDB.
//
// Table requirements:
//   - PK: code (string)
//
// Redemption is a single conditional counter update, so two concurrent
// checkouts can never both take the last use of a code.
type CouponDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ICouponRepository = (*CouponDynamoRepository)(nil)

func NewCouponDynamoRepository(ddb *dynamodb.Client, tableName string) *CouponDynamoRepository {
	return &CouponDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *CouponDynamoRepository) Create(ctx context.Context, c entities.Coupon) (entities.Coupon, error) {
	av, err := attributevalue.MarshalMap(toCouponItem(c))
	if err != nil {
		return entities.Coupon{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#code)"),
		ExpressionAttributeNames: map[string]string{
			"#code": "code",
		},
	})
	if err != nil {
		return entities.Coupon{}, conditionFailed(err)
	}
	return c, nil
}

func (r *CouponDynamoRepository) GetByCode(ctx context.Context, code string) (entities.Coupon, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("code", code),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Coupon{}, err
	}
	if len(out.Item) == 0 {
		return entities.Coupon{}, nil
	}

	var it couponItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Coupon{}, err
	}
	return fromCouponItem(it), nil
}

func (r *CouponDynamoRepository) List(ctx context.Context) ([]entities.Coupon, error) {
	p := dynamodb.NewScanPaginator(r.ddb, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})

	items := make([]entities.Coupon, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			var it couponItem
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, err
			}
			items = append(items, fromCouponItem(it))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return items, nil
}

// Redeem takes one use of the code. interfaces.ErrConditionFailed means the
// code is missing, inactive or exhausted at the time of the write, or that
// quoteID already holds a use.
func (r *CouponDynamoRepository) Redeem(ctx context.Context, code, quoteID string, now time.Time) (entities.Coupon, error) {
	cond := "attribute_exists(#code) AND #is_active = :true AND #times_used < #max_uses"
	update := "SET #times_used = #times_used + :one, #updated_at = :updated_at"
	names := map[string]string{
		"#code":       "code",
		"#is_active":  "is_active",
		"#times_used": "times_used",
		"#max_uses":   "max_uses",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":true":       &types.AttributeValueMemberBOOL{Value: true},
		":one":        &types.AttributeValueMemberN{Value: "1"},
		":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
	}
	if quoteID != "" {
		cond += " AND NOT contains(#redeemed_by, :quote)"
		update += " ADD #redeemed_by :quotes"
		names["#redeemed_by"] = "redeemed_by"
		values[":quote"] = &types.AttributeValueMemberS{Value: quoteID}
		values[":quotes"] = &types.AttributeValueMemberSS{Value: []string{quoteID}}
	}

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       stringKey("code", code),
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String(update),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.Coupon{}, conditionFailed(err)
	}

	var it couponItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Coupon{}, err
	}
	return fromCouponItem(it), nil
}

// Release hands back the use quoteID took. interfaces.ErrConditionFailed
// means there was nothing to give back.
func (r *CouponDynamoRepository) Release(ctx context.Context, code, quoteID string, now time.Time) error {
	cond := "attribute_exists(#code) AND #times_used > :zero"
	update := "SET #times_used = #times_used - :one, #updated_at = :updated_at"
	names := map[string]string{
		"#code":       "code",
		"#times_used": "times_used",
		"#updated_at": "updated_at",
	}
	values := map[string]types.AttributeValue{
		":zero":       &types.AttributeValueMemberN{Value: "0"},
		":one":        &types.AttributeValueMemberN{Value: "1"},
		":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
	}
	if quoteID != "" {
		cond += " AND contains(#redeemed_by, :quote)"
		update += " DELETE #redeemed_by :quotes"
		names["#redeemed_by"] = "redeemed_by"
		values[":quote"] = &types.AttributeValueMemberS{Value: quoteID}
		values[":quotes"] = &types.AttributeValueMemberSS{Value: []string{quoteID}}
	}

	_, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       stringKey("code", code),
		ConditionExpression:       aws.String(cond),
		UpdateExpression:          aws.String(update),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return conditionFailed(err)
	}
	return nil
}

func (r *CouponDynamoRepository) Deactivate(ctx context.Context, code string, now time.Time) (entities.Coupon, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("code", code),
		ConditionExpression: aws.String("attribute_exists(#code)"),
		UpdateExpression:    aws.String("SET #is_active = :false, #updated_at = :updated_at"),
		ExpressionAttributeNames: map[string]string{
			"#code":       "code",
			"#is_active":  "is_active",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false":      &types.AttributeValueMemberBOOL{Value: false},
			":updated_at": &types.AttributeValueMemberS{Value: formatTime(now)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return entities.Coupon{}, nil
		}
		return entities.Coupon{}, err
	}

	var it couponItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Coupon{}, err
	}
	return fromCouponItem(it), nil
}

func toCouponItem(c entities.Coupon) couponItem {
	return couponItem{
		Code:           c.Code,
		DiscountType:   string(c.DiscountType),
		DiscountValue:  decimalToString(c.DiscountValue),
		MaxUses:        c.MaxUses,
		TimesUsed:      c.TimesUsed,
		IsActive:       c.IsActive,
		ValidFrom:      formatTime(c.ValidFrom),
		ValidUntil:     formatTime(c.ValidUntil),
		MinOrderValue:  decimalToString(c.MinOrderValue),
		FirstOrderOnly: c.FirstOrderOnly,
		PartnerID:      c.PartnerID,
		RedeemedBy:     c.RedeemedBy,
		CreatedAt:      formatTime(c.CreatedAt),
		UpdatedAt:      formatTime(c.UpdatedAt),
	}
}

func fromCouponItem(it couponItem) entities.Coupon {
	return entities.Coupon{
		Code:           it.Code,
		DiscountType:   entities.DiscountType(it.DiscountType),
		DiscountValue:  parseDecimal(it.DiscountValue),
		MaxUses:        it.MaxUses,
		TimesUsed:      it.TimesUsed,
		IsActive:       it.IsActive,
		ValidFrom:      parseTime(it.ValidFrom),
		ValidUntil:     parseTime(it.ValidUntil),
		MinOrderValue:  parseDecimal(it.MinOrderValue),
		FirstOrderOnly: it.FirstOrderOnly,
		PartnerID:      it.PartnerID,
		RedeemedBy:     it.RedeemedBy,
		CreatedAt:      parseTime(it.CreatedAt),
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
}
