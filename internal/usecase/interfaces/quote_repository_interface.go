package interfaces

import (
	"context"

	"legacy_portal/internal/domain/entities"
)

// IQuoteRepository abstracts persistence for Quote. Quotes are write-once.
type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
}
