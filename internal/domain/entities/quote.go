package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType is the translation tier a quote is priced with.
type ServiceType string

const (
	ServiceTypeStandard     ServiceType = "standard"
	ServiceTypeProfessional ServiceType = "professional"
)

// Urgency selects the turnaround surcharge.
type Urgency string

const (
	UrgencyNo       Urgency = "no"
	UrgencyPriority Urgency = "priority"
	UrgencyUrgent   Urgency = "urgent"
)

// Quote is a priced translation request.
//
// Storage model (DynamoDB):
//   - PK: id
//
// A quote is immutable once created. Every monetary field comes from the
// pricing engine; nothing here is ever edited by hand.
type Quote struct {
	ID            string      `json:"id"`
	Reference     string      `json:"reference"`
	ServiceType   ServiceType `json:"service_type"`
	TranslateFrom string      `json:"translate_from"`
	TranslateTo   string      `json:"translate_to"`
	WordCount     int         `json:"word_count"`
	Pages         int         `json:"pages"`
	Urgency       Urgency     `json:"urgency"`
	PhysicalCopy  bool        `json:"physical_copy"`

	BasePrice      decimal.Decimal `json:"base_price"`
	UrgencyFee     decimal.Decimal `json:"urgency_fee"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DiscountCode   string          `json:"discount_code,omitempty"`
	TotalPrice     decimal.Decimal `json:"total_price"`

	CustomerEmail string    `json:"customer_email,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	PartnerID     string    `json:"partner_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Subtotal is the amount coupons are evaluated against: base plus urgency.
func (q Quote) Subtotal() decimal.Decimal {
	return q.BasePrice.Add(q.UrgencyFee)
}
