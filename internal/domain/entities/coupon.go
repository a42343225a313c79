package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// RejectionReason is the stable, machine-readable cause of a refused coupon.
type RejectionReason string

const (
	RejectionNotFound      RejectionReason = "NOT_FOUND"
	RejectionInactive      RejectionReason = "INACTIVE"
	RejectionExpired       RejectionReason = "EXPIRED"
	RejectionExhausted     RejectionReason = "EXHAUSTED"
	RejectionBelowMinimum  RejectionReason = "BELOW_MINIMUM"
	RejectionWrongPartner  RejectionReason = "WRONG_PARTNER"
	RejectionNotFirstOrder RejectionReason = "NOT_FIRST_ORDER"
)

// Coupon is a discount code.
//
// Storage model (DynamoDB):
//   - PK: code
//
// TimesUsed is only ever incremented through a conditional write that checks
// TimesUsed < MaxUses in the same operation. RedeemedBy holds the quotes that
// took a use, so a quote is charged against the code at most once.
type Coupon struct {
	Code           string          `json:"code"`
	DiscountType   DiscountType    `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MaxUses        int             `json:"max_uses"`
	TimesUsed      int             `json:"times_used"`
	IsActive       bool            `json:"is_active"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidUntil     time.Time       `json:"valid_until"`
	MinOrderValue  decimal.Decimal `json:"min_order_value"`
	FirstOrderOnly bool            `json:"first_order_only"`
	PartnerID      string          `json:"partner_id,omitempty"`
	RedeemedBy     []string        `json:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RedeemedFor reports whether quoteID already holds one use of the code.
func (c Coupon) RedeemedFor(quoteID string) bool {
	if quoteID == "" {
		return false
	}
	for _, q := range c.RedeemedBy {
		if q == quoteID {
			return true
		}
	}
	return false
}

// CouponCheck carries the order-side facts a coupon is validated against.
type CouponCheck struct {
	Subtotal     decimal.Decimal
	PartnerID    string
	IsFirstOrder bool
	Now          time.Time
}

// Evaluate runs the validation chain in its fixed order and returns the first
// failing reason, or "" when the coupon applies.
func (c Coupon) Evaluate(chk CouponCheck) RejectionReason {
	if !c.IsActive {
		return RejectionInactive
	}
	if chk.Now.Before(c.ValidFrom) || (!c.ValidUntil.IsZero() && chk.Now.After(c.ValidUntil)) {
		return RejectionExpired
	}
	if c.TimesUsed >= c.MaxUses {
		return RejectionExhausted
	}
	if chk.Subtotal.LessThan(c.MinOrderValue) {
		return RejectionBelowMinimum
	}
	if c.PartnerID != "" && c.PartnerID != chk.PartnerID {
		return RejectionWrongPartner
	}
	if c.FirstOrderOnly && !chk.IsFirstOrder {
		return RejectionNotFirstOrder
	}
	return ""
}
