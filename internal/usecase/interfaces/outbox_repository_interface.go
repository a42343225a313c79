package interfaces

import (
	"context"
	"time"

	"legacy_portal/internal/domain/entities"
)

// IOutboxRepository reads and settles outbox events. Events are written by
// IOrderRepository and IPaymentTransactionRepository together with the
// transition that declared them.
//
// ListPending returns neither processed nor abandoned events.
type IOutboxRepository interface {
	ListPending(ctx context.Context, limit int) ([]entities.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id string, now time.Time) error
	RecordFailure(ctx context.Context, id, reason string) error
	MarkAbandoned(ctx context.Context, id string, now time.Time) error
}
