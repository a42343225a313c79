package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/pricing"
	"legacy_portal/internal/usecase/interfaces"
	"legacy_portal/pkg/validation"

	"github.com/shopspring/decimal"
)

// CouponInput is the order-side context a coupon is checked against.
// QuoteID, when set, limits Apply to one use per quote.
type CouponInput struct {
	Code          string
	Subtotal      decimal.Decimal
	PartnerID     string
	CustomerEmail string
	QuoteID       string
}

// CouponResult is an accepted coupon and the discount it gives on the subtotal.
// Redeemed is false when the quote already held its use.
type CouponResult struct {
	Coupon         entities.Coupon
	DiscountAmount decimal.Decimal
	Redeemed       bool
}

type CreateCouponInput struct {
	Code           string
	DiscountType   string
	DiscountValue  decimal.Decimal
	MaxUses        int
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MinOrderValue  decimal.Decimal
	FirstOrderOnly bool
	PartnerID      string
}

// ICouponUseCase validates and redeems discount codes.
//
//   - Preview runs the full validation chain without touching times_used.
//   - Apply runs the same chain and then redeems atomically.
//   - Release gives back a use Apply took for a quote.
type ICouponUseCase interface {
	Preview(ctx context.Context, in CouponInput) (CouponResult, error)
	Apply(ctx context.Context, in CouponInput) (CouponResult, error)
	Release(ctx context.Context, code, quoteID string) error
	Create(ctx context.Context, in CreateCouponInput) (entities.Coupon, error)
	Get(ctx context.Context, code string) (entities.Coupon, error)
	List(ctx context.Context) ([]entities.Coupon, error)
	Deactivate(ctx context.Context, code string) (entities.Coupon, error)
}

type CouponUseCase struct {
	repo   interfaces.ICouponRepository
	orders interfaces.IOrderRepository
	now    func() time.Time
}

var _ ICouponUseCase = (*CouponUseCase)(nil)

func NewCouponUseCase(repo interfaces.ICouponRepository, orders interfaces.IOrderRepository) *CouponUseCase {
	return &CouponUseCase{repo: repo, orders: orders, now: utcNow}
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (u *CouponUseCase) Preview(ctx context.Context, in CouponInput) (CouponResult, error) {
	c, err := u.check(ctx, in)
	if err != nil {
		return CouponResult{}, err
	}
	return discountFor(c, in.Subtotal)
}

func (u *CouponUseCase) Apply(ctx context.Context, in CouponInput) (CouponResult, error) {
	in.QuoteID = strings.TrimSpace(in.QuoteID)
	if in.QuoteID != "" {
		current, err := u.repo.GetByCode(ctx, NormalizeCouponCode(in.Code))
		if err != nil {
			return CouponResult{}, err
		}
		if current.RedeemedFor(in.QuoteID) {
			log.Printf("[coupon][usecase] already redeemed code=%s quote_id=%s", current.Code, in.QuoteID)
			return discountFor(current, in.Subtotal)
		}
	}

	c, err := u.check(ctx, in)
	if err != nil {
		return CouponResult{}, err
	}

	redeemed, err := u.repo.Redeem(ctx, c.Code, in.QuoteID, u.now())
	if errors.Is(err, interfaces.ErrConditionFailed) {
		// Lost the race: find out which guard failed.
		current, getErr := u.repo.GetByCode(ctx, c.Code)
		if getErr != nil {
			return CouponResult{}, getErr
		}
		if current.RedeemedFor(in.QuoteID) {
			return discountFor(current, in.Subtotal)
		}
		reason := entities.RejectionExhausted
		if current.Code == "" {
			reason = entities.RejectionNotFound
		} else if !current.IsActive {
			reason = entities.RejectionInactive
		}
		log.Printf("[coupon][usecase] redeem lost code=%s reason=%s", c.Code, reason)
		return CouponResult{}, &CouponRejectedError{Code: c.Code, Reason: reason}
	}
	if err != nil {
		log.Printf("[coupon][usecase] redeem failed code=%s err=%v", c.Code, err)
		return CouponResult{}, err
	}
	log.Printf("[coupon][usecase] redeemed code=%s quote_id=%s times_used=%d max_uses=%d", redeemed.Code, in.QuoteID, redeemed.TimesUsed, redeemed.MaxUses)
	res, err := discountFor(redeemed, in.Subtotal)
	if err != nil {
		return CouponResult{}, err
	}
	res.Redeemed = true
	return res, nil
}

// Release returns the use quoteID holds on code. Nothing to give back is
// not an error.
func (u *CouponUseCase) Release(ctx context.Context, code, quoteID string) error {
	code = NormalizeCouponCode(code)
	err := u.repo.Release(ctx, code, strings.TrimSpace(quoteID), u.now())
	if errors.Is(err, interfaces.ErrConditionFailed) {
		return nil
	}
	if err != nil {
		log.Printf("[coupon][usecase] release failed code=%s quote_id=%s err=%v", code, quoteID, err)
		return err
	}
	log.Printf("[coupon][usecase] released code=%s quote_id=%s", code, quoteID)
	return nil
}

func (u *CouponUseCase) check(ctx context.Context, in CouponInput) (entities.Coupon, error) {
	code := NormalizeCouponCode(in.Code)
	v := validation.Violations{}
	validation.Required("code", code, v)
	validation.NonNegativeDecimal("subtotal", in.Subtotal, v)
	if err := newValidationError(v); err != nil {
		return entities.Coupon{}, err
	}

	c, err := u.repo.GetByCode(ctx, code)
	if err != nil {
		return entities.Coupon{}, err
	}
	if c.Code == "" {
		return entities.Coupon{}, &CouponRejectedError{Code: code, Reason: entities.RejectionNotFound}
	}

	isFirstOrder, err := u.isFirstOrder(ctx, c, in.CustomerEmail)
	if err != nil {
		return entities.Coupon{}, err
	}

	reason := c.Evaluate(entities.CouponCheck{
		Subtotal:     in.Subtotal,
		PartnerID:    strings.TrimSpace(in.PartnerID),
		IsFirstOrder: isFirstOrder,
		Now:          u.now(),
	})
	if reason != "" {
		return entities.Coupon{}, &CouponRejectedError{Code: code, Reason: reason}
	}
	return c, nil
}

// isFirstOrder only hits the order store for first-order coupons. An
// anonymous customer never qualifies.
func (u *CouponUseCase) isFirstOrder(ctx context.Context, c entities.Coupon, email string) (bool, error) {
	if !c.FirstOrderOnly {
		return false, nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || u.orders == nil {
		return false, nil
	}
	n, err := u.orders.CountByClientEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func discountFor(c entities.Coupon, subtotal decimal.Decimal) (CouponResult, error) {
	amount, err := pricing.DiscountAmount(subtotal, &pricing.Discount{Type: c.DiscountType, Value: c.DiscountValue})
	if err != nil {
		return CouponResult{}, err
	}
	return CouponResult{Coupon: c, DiscountAmount: amount}, nil
}

func (u *CouponUseCase) Create(ctx context.Context, in CreateCouponInput) (entities.Coupon, error) {
	code := NormalizeCouponCode(in.Code)
	v := validation.Violations{}
	validation.Required("code", code, v)
	validation.OneOf("discount_type", in.DiscountType, []string{string(entities.DiscountTypePercentage), string(entities.DiscountTypeFixed)}, v)
	validation.PositiveDecimal("discount_value", in.DiscountValue, v)
	validation.PositiveInt("max_uses", in.MaxUses, v)
	validation.NonNegativeDecimal("min_order_value", in.MinOrderValue, v)
	if entities.DiscountType(in.DiscountType) == entities.DiscountTypePercentage && in.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		v["discount_value"] = "out_of_range"
	}
	if in.ValidFrom != nil && in.ValidUntil != nil && !in.ValidUntil.After(*in.ValidFrom) {
		v["valid_until"] = "must_be_after_valid_from"
	}
	if err := newValidationError(v); err != nil {
		return entities.Coupon{}, err
	}

	now := u.now()
	c := entities.Coupon{
		Code:           code,
		DiscountType:   entities.DiscountType(in.DiscountType),
		DiscountValue:  in.DiscountValue.Round(2),
		MaxUses:        in.MaxUses,
		IsActive:       true,
		ValidFrom:      now,
		MinOrderValue:  in.MinOrderValue.Round(2),
		FirstOrderOnly: in.FirstOrderOnly,
		PartnerID:      strings.TrimSpace(in.PartnerID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.ValidFrom != nil {
		c.ValidFrom = in.ValidFrom.UTC()
	}
	if in.ValidUntil != nil {
		c.ValidUntil = in.ValidUntil.UTC()
	}

	created, err := u.repo.Create(ctx, c)
	if errors.Is(err, interfaces.ErrConditionFailed) {
		return entities.Coupon{}, ErrCouponAlreadyExists
	}
	if err != nil {
		return entities.Coupon{}, err
	}
	log.Printf("[coupon][usecase] created code=%s type=%s value=%s max_uses=%d", created.Code, created.DiscountType, created.DiscountValue, created.MaxUses)
	return created, nil
}

func (u *CouponUseCase) Get(ctx context.Context, code string) (entities.Coupon, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return entities.Coupon{}, ErrCouponNotFound
	}
	c, err := u.repo.GetByCode(ctx, code)
	if err != nil {
		return entities.Coupon{}, err
	}
	if c.Code == "" {
		return entities.Coupon{}, ErrCouponNotFound
	}
	return c, nil
}

func (u *CouponUseCase) List(ctx context.Context) ([]entities.Coupon, error) {
	return u.repo.List(ctx)
}

func (u *CouponUseCase) Deactivate(ctx context.Context, code string) (entities.Coupon, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return entities.Coupon{}, ErrCouponNotFound
	}
	c, err := u.repo.Deactivate(ctx, code, u.now())
	if err != nil {
		return entities.Coupon{}, err
	}
	if c.Code == "" {
		return entities.Coupon{}, ErrCouponNotFound
	}
	log.Printf("[coupon][usecase] deactivated code=%s", c.Code)
	return c, nil
}

func utcNow() time.Time { return time.Now().UTC() }
