package response

import (
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"
	"time"
)

type CouponResponse struct {
	Code           string     `json:"code"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  string     `json:"discount_value"`
	MaxUses        int        `json:"max_uses"`
	TimesUsed      int        `json:"times_used"`
	IsActive       bool       `json:"is_active"`
	ValidFrom      time.Time  `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	MinOrderValue  string     `json:"min_order_value"`
	FirstOrderOnly bool       `json:"first_order_only"`
	PartnerID      string     `json:"partner_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func FromCoupon(c entities.Coupon) CouponResponse {
	resp := CouponResponse{
		Code:           c.Code,
		DiscountType:   string(c.DiscountType),
		DiscountValue:  money(c.DiscountValue),
		MaxUses:        c.MaxUses,
		TimesUsed:      c.TimesUsed,
		IsActive:       c.IsActive,
		ValidFrom:      c.ValidFrom,
		MinOrderValue:  money(c.MinOrderValue),
		FirstOrderOnly: c.FirstOrderOnly,
		PartnerID:      c.PartnerID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if !c.ValidUntil.IsZero() {
		until := c.ValidUntil
		resp.ValidUntil = &until
	}
	return resp
}

func FromCoupons(list []entities.Coupon) []CouponResponse {
	out := make([]CouponResponse, 0, len(list))
	for _, c := range list {
		out = append(out, FromCoupon(c))
	}
	return out
}

// CouponValidationResponse is the answer of the preview and apply routes.
type CouponValidationResponse struct {
	Valid          bool   `json:"valid"`
	Code           string `json:"code"`
	DiscountType   string `json:"discount_type"`
	DiscountValue  string `json:"discount_value"`
	DiscountAmount string `json:"discount_amount"`
	TimesUsed      int    `json:"times_used"`
	MaxUses        int    `json:"max_uses"`
}

func FromCouponResult(r usecase.CouponResult) CouponValidationResponse {
	return CouponValidationResponse{
		Valid:          true,
		Code:           r.Coupon.Code,
		DiscountType:   string(r.Coupon.DiscountType),
		DiscountValue:  money(r.Coupon.DiscountValue),
		DiscountAmount: money(r.DiscountAmount),
		TimesUsed:      r.Coupon.TimesUsed,
		MaxUses:        r.Coupon.MaxUses,
	}
}
