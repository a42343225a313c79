package interfaces

import (
	"context"
	"time"

	"legacy_portal/internal/domain/entities"
)

// ICouponRepository abstracts persistence for Coupon.
//
// Redeem must increment times_used in a single conditional write guarded by
// is_active and times_used < max_uses; a lost guard is ErrConditionFailed.
// A non-empty quoteID is recorded in the same write and the write also fails
// when that quote already holds a use. Release gives the quote's use back.
type ICouponRepository interface {
	Create(ctx context.Context, c entities.Coupon) (entities.Coupon, error)
	GetByCode(ctx context.Context, code string) (entities.Coupon, error)
	List(ctx context.Context) ([]entities.Coupon, error)
	Redeem(ctx context.Context, code, quoteID string, now time.Time) (entities.Coupon, error)
	Release(ctx context.Context, code, quoteID string, now time.Time) error
	Deactivate(ctx context.Context, code string, now time.Time) (entities.Coupon, error)
}
