package request

import (
	"legacy_portal/internal/usecase"
	"time"

	"github.com/shopspring/decimal"
)

// ValidateCouponRequest previews or applies a code against an order subtotal.
type ValidateCouponRequest struct {
	Code          string          `json:"code"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	PartnerID     string          `json:"partner_id"`
	CustomerEmail string          `json:"customer_email"`
}

func (r ValidateCouponRequest) ToInput() usecase.CouponInput {
	return usecase.CouponInput{
		Code:          r.Code,
		Subtotal:      r.Subtotal,
		PartnerID:     r.PartnerID,
		CustomerEmail: r.CustomerEmail,
	}
}

type CreateCouponRequest struct {
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MaxUses        int             `json:"max_uses"`
	ValidFrom      *time.Time      `json:"valid_from"`
	ValidUntil     *time.Time      `json:"valid_until"`
	MinOrderValue  decimal.Decimal `json:"min_order_value"`
	FirstOrderOnly bool            `json:"first_order_only"`
	PartnerID      string          `json:"partner_id"`
}

func (r CreateCouponRequest) ToInput() usecase.CreateCouponInput {
	return usecase.CreateCouponInput{
		Code:           r.Code,
		DiscountType:   r.DiscountType,
		DiscountValue:  r.DiscountValue,
		MaxUses:        r.MaxUses,
		ValidFrom:      r.ValidFrom,
		ValidUntil:     r.ValidUntil,
		MinOrderValue:  r.MinOrderValue,
		FirstOrderOnly: r.FirstOrderOnly,
		PartnerID:      r.PartnerID,
	}
}
