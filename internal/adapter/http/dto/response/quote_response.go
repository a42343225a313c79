package response

import (
	"legacy_portal/internal/domain/entities"
	"time"
)

type QuoteResponse struct {
	ID             string    `json:"id"`
	Reference      string    `json:"reference"`
	ServiceType    string    `json:"service_type"`
	TranslateFrom  string    `json:"translate_from"`
	TranslateTo    string    `json:"translate_to"`
	WordCount      int       `json:"word_count"`
	Pages          int       `json:"pages"`
	Urgency        string    `json:"urgency"`
	PhysicalCopy   bool      `json:"physical_copy"`
	BasePrice      string    `json:"base_price"`
	UrgencyFee     string    `json:"urgency_fee"`
	ShippingFee    string    `json:"shipping_fee"`
	DiscountAmount string    `json:"discount_amount"`
	DiscountCode   string    `json:"discount_code,omitempty"`
	TotalPrice     string    `json:"total_price"`
	CustomerEmail  string    `json:"customer_email,omitempty"`
	CustomerName   string    `json:"customer_name,omitempty"`
	PartnerID      string    `json:"partner_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	return QuoteResponse{
		ID:             q.ID,
		Reference:      q.Reference,
		ServiceType:    string(q.ServiceType),
		TranslateFrom:  q.TranslateFrom,
		TranslateTo:    q.TranslateTo,
		WordCount:      q.WordCount,
		Pages:          q.Pages,
		Urgency:        string(q.Urgency),
		PhysicalCopy:   q.PhysicalCopy,
		BasePrice:      money(q.BasePrice),
		UrgencyFee:     money(q.UrgencyFee),
		ShippingFee:    money(q.ShippingFee),
		DiscountAmount: money(q.DiscountAmount),
		DiscountCode:   q.DiscountCode,
		TotalPrice:     money(q.TotalPrice),
		CustomerEmail:  q.CustomerEmail,
		CustomerName:   q.CustomerName,
		PartnerID:      q.PartnerID,
		CreatedAt:      q.CreatedAt,
	}
}
