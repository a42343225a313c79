package request

import "legacy_portal/internal/usecase"

type CreateQuoteRequest struct {
	Reference     string `json:"reference"`
	ServiceType   string `json:"service_type"`
	TranslateFrom string `json:"translate_from"`
	TranslateTo   string `json:"translate_to"`
	WordCount     int    `json:"word_count"`
	Urgency       string `json:"urgency"`
	DiscountCode  string `json:"discount_code"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	PartnerID     string `json:"partner_id"`
	PhysicalCopy  bool   `json:"physical_copy"`
}

func (r CreateQuoteRequest) ToInput() usecase.CreateQuoteInput {
	return usecase.CreateQuoteInput{
		Reference:     r.Reference,
		ServiceType:   r.ServiceType,
		TranslateFrom: r.TranslateFrom,
		TranslateTo:   r.TranslateTo,
		WordCount:     r.WordCount,
		Urgency:       r.Urgency,
		DiscountCode:  r.DiscountCode,
		CustomerEmail: r.CustomerEmail,
		CustomerName:  r.CustomerName,
		PartnerID:     r.PartnerID,
		PhysicalCopy:  r.PhysicalCopy,
	}
}
