package interfaces

import (
	"context"

	"legacy_portal/internal/domain/entities"
)

// IOrderRepository abstracts persistence for Order and the outbox events its
// transitions declare.
//
// Create and Save write the order and its events atomically. Save only
// succeeds when the stored version equals expectedVersion; otherwise it
// returns ErrConditionFailed and writes nothing.
type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order, events []entities.OutboxEvent) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	GetByAssignmentToken(ctx context.Context, token string) (entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	CountByClientEmail(ctx context.Context, email string) (int, error)
	Save(ctx context.Context, o entities.Order, expectedVersion int, events []entities.OutboxEvent) (entities.Order, error)
}
