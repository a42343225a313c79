package interfaces

import (
	"context"
	"time"

	"legacy_portal/internal/domain/entities"
)

// IPaymentTransactionRepository abstracts persistence for PaymentTransaction.
//
// Complete moves a transaction to paid and creates its order plus outbox
// events in one atomic write. It returns ErrConditionFailed when the
// transaction is already paid, so a duplicate webhook changes nothing.
type IPaymentTransactionRepository interface {
	Create(ctx context.Context, t entities.PaymentTransaction) (entities.PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (entities.PaymentTransaction, error)
	Complete(ctx context.Context, t entities.PaymentTransaction, o entities.Order, events []entities.OutboxEvent) error
	MarkPending(ctx context.Context, id, gatewayPaymentID string, now time.Time) error
	MarkFailed(ctx context.Context, id, gatewayPaymentID string, now time.Time) error
	MarkExpired(ctx context.Context, id string, now time.Time) error
	ListOpenCreatedBefore(ctx context.Context, cutoff time.Time) ([]entities.PaymentTransaction, error)
	SetTMSProject(ctx context.Context, id, projectID string, now time.Time) error
}
