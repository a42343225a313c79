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

type certificationItem struct {
	ID               string `dynamodbav:"id"`
	OrderID          string `dynamodbav:"order_id"`
	ContentHash      string `dynamodbav:"content_hash"`
	DocumentType     string `dynamodbav:"document_type"`
	SourceLanguage   string `dynamodbav:"source_language"`
	TargetLanguage   string `dynamodbav:"target_language"`
	CertifierName    string `dynamodbav:"certifier_name"`
	CertifierTitle   string `dynamodbav:"certifier_title,omitempty"`
	CertifiedAt      string `dynamodbav:"certified_at"`
	IsValid          bool   `dynamodbav:"is_valid"`
	RevokedAt        string `dynamodbav:"revoked_at,omitempty"`
	RevocationReason string `dynamodbav:"revocation_reason,omitempty"`
}

// CertificationDynamoRepository persists certifications in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type CertificationDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ICertificationRepository = (*CertificationDynamoRepository)(nil)

func NewCertificationDynamoRepository(ddb *dynamodb.Client, tableName string) *CertificationDynamoRepository {
	return &CertificationDynamoRepository{ddb: ddb, tableName: tableName}
}

func (r *CertificationDynamoRepository) Create(ctx context.Context, c entities.Certification) (entities.Certification, error) {
	av, err := attributevalue.MarshalMap(toCertificationItem(c))
	if err != nil {
		return entities.Certification{}, err
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
		return entities.Certification{}, conditionFailed(err)
	}
	return c, nil
}

func (r *CertificationDynamoRepository) GetByID(ctx context.Context, id string) (entities.Certification, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            stringKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Certification{}, err
	}
	if len(out.Item) == 0 {
		return entities.Certification{}, nil
	}

	var it certificationItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Certification{}, err
	}
	return fromCertificationItem(it), nil
}

func (r *CertificationDynamoRepository) Revoke(ctx context.Context, id, reason string, now time.Time) (entities.Certification, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String("attribute_exists(#id) AND #is_valid = :true"),
		UpdateExpression:    aws.String("SET #is_valid = :false, #revoked_at = :revoked_at, #reason = :reason"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#is_valid":   "is_valid",
			"#revoked_at": "revoked_at",
			"#reason":     "revocation_reason",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true":       &types.AttributeValueMemberBOOL{Value: true},
			":false":      &types.AttributeValueMemberBOOL{Value: false},
			":revoked_at": &types.AttributeValueMemberS{Value: formatTime(now)},
			":reason":     &types.AttributeValueMemberS{Value: reason},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return entities.Certification{}, conditionFailed(err)
	}

	var it certificationItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Certification{}, err
	}
	return fromCertificationItem(it), nil
}

func toCertificationItem(c entities.Certification) certificationItem {
	return certificationItem{
		ID:               c.ID,
		OrderID:          c.OrderID,
		ContentHash:      c.ContentHash,
		DocumentType:     c.DocumentType,
		SourceLanguage:   c.SourceLanguage,
		TargetLanguage:   c.TargetLanguage,
		CertifierName:    c.CertifierName,
		CertifierTitle:   c.CertifierTitle,
		CertifiedAt:      formatTime(c.CertifiedAt),
		IsValid:          c.IsValid,
		RevokedAt:        formatTimePtr(c.RevokedAt),
		RevocationReason: c.RevocationReason,
	}
}

func fromCertificationItem(it certificationItem) entities.Certification {
	return entities.Certification{
		ID:               it.ID,
		OrderID:          it.OrderID,
		ContentHash:      it.ContentHash,
		DocumentType:     it.DocumentType,
		SourceLanguage:   it.SourceLanguage,
		TargetLanguage:   it.TargetLanguage,
		CertifierName:    it.CertifierName,
		CertifierTitle:   it.CertifierTitle,
		CertifiedAt:      parseTime(it.CertifiedAt),
		IsValid:          it.IsValid,
		RevokedAt:        parseTimePtr(it.RevokedAt),
		RevocationReason: it.RevocationReason,
	}
}
