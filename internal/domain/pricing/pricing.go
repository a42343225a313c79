package pricing

import (
	"errors"

	"legacy_portal/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// WordsPerPage is the divisor used to turn a word count into billable pages.
const WordsPerPage = 250

var (
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidUrgency     = errors.New("invalid urgency")
	ErrNegativeWordCount  = errors.New("word count must not be negative")
	ErrInvalidDiscount    = errors.New("invalid discount")
	ErrNegativeShipping   = errors.New("shipping fee must not be negative")
)

// Tier is the per-page rate and minimum charge of a service level.
type Tier struct {
	PerPage decimal.Decimal
	Minimum decimal.Decimal
}

// Tiers is the only list of accepted service types.
var Tiers = map[entities.ServiceType]Tier{
	entities.ServiceTypeStandard: {
		PerPage: decimal.RequireFromString("12.00"),
		Minimum: decimal.RequireFromString("18.00"),
	},
	entities.ServiceTypeProfessional: {
		PerPage: decimal.RequireFromString("15.00"),
		Minimum: decimal.RequireFromString("15.00"),
	},
}

// UrgencyRates maps an urgency level to its surcharge over the base price.
var UrgencyRates = map[entities.Urgency]decimal.Decimal{
	entities.UrgencyNo:       decimal.Zero,
	entities.UrgencyPriority: decimal.RequireFromString("0.25"),
	entities.UrgencyUrgent:   decimal.RequireFromString("1.00"),
}

// Discount is an already validated coupon reduction.
type Discount struct {
	Type  entities.DiscountType
	Value decimal.Decimal
}

type Input struct {
	ServiceType entities.ServiceType
	WordCount   int
	Urgency     entities.Urgency
	ShippingFee decimal.Decimal
	Discount    *Discount
}

type Breakdown struct {
	Pages          int
	BasePrice      decimal.Decimal
	UrgencyFee     decimal.Decimal
	ShippingFee    decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalPrice     decimal.Decimal
}

// Subtotal is base plus urgency, the amount coupons are measured against.
func (b Breakdown) Subtotal() decimal.Decimal {
	return b.BasePrice.Add(b.UrgencyFee)
}

// IsSupported reports whether s is a priced service type.
func IsSupported(s entities.ServiceType) bool {
	_, ok := Tiers[s]
	return ok
}

// Pages rounds a word count up to whole pages.
func Pages(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + WordsPerPage - 1) / WordsPerPage
}

// Calculate prices a translation request. All amounts are rounded to cents, half up.
func Calculate(in Input) (Breakdown, error) {
	tier, ok := Tiers[in.ServiceType]
	if !ok {
		return Breakdown{}, ErrInvalidServiceType
	}
	rate, ok := UrgencyRates[in.Urgency]
	if !ok {
		return Breakdown{}, ErrInvalidUrgency
	}
	if in.WordCount < 0 {
		return Breakdown{}, ErrNegativeWordCount
	}
	if in.ShippingFee.IsNegative() {
		return Breakdown{}, ErrNegativeShipping
	}

	pages := Pages(in.WordCount)
	base := decimal.Max(tier.PerPage.Mul(decimal.NewFromInt(int64(pages))), tier.Minimum).Round(2)
	urgencyFee := base.Mul(rate).Round(2)
	shipping := in.ShippingFee.Round(2)

	discount, err := DiscountAmount(base.Add(urgencyFee), in.Discount)
	if err != nil {
		return Breakdown{}, err
	}

	total := base.Add(urgencyFee).Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Breakdown{
		Pages:          pages,
		BasePrice:      base,
		UrgencyFee:     urgencyFee,
		ShippingFee:    shipping,
		DiscountAmount: discount,
		TotalPrice:     total.Round(2),
	}, nil
}

// DiscountAmount computes the reduction a discount gives on subtotal, capped so
// the subtotal never goes below zero.
func DiscountAmount(subtotal decimal.Decimal, d *Discount) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, nil
	}
	if d.Value.IsNegative() {
		return decimal.Zero, ErrInvalidDiscount
	}

	var amount decimal.Decimal
	switch d.Type {
	case entities.DiscountTypePercentage:
		amount = subtotal.Mul(d.Value).Div(decimal.NewFromInt(100))
	case entities.DiscountTypeFixed:
		amount = d.Value
	default:
		return decimal.Zero, ErrInvalidDiscount
	}

	amount = decimal.Min(amount, subtotal)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(2), nil
}
