package response

import (
	"legacy_portal/internal/domain/entities"
	"time"
)

// OrderResponse never carries the assignment token; it only travels in the
// translator's email.
type OrderResponse struct {
	ID                    string                      `json:"id"`
	QuoteID               string                      `json:"quote_id"`
	TransactionID         string                      `json:"transaction_id,omitempty"`
	Reference             string                      `json:"reference"`
	ClientEmail           string                      `json:"client_email"`
	ClientName            string                      `json:"client_name"`
	ServiceType           string                      `json:"service_type"`
	TranslateFrom         string                      `json:"translate_from"`
	TranslateTo           string                      `json:"translate_to"`
	WordCount             int                         `json:"word_count"`
	Urgency               string                      `json:"urgency"`
	TotalPrice            string                      `json:"total_price"`
	TranslationStatus     string                      `json:"translation_status"`
	PaymentStatus         string                      `json:"payment_status"`
	DueDate               *time.Time                  `json:"due_date,omitempty"`
	Deadline              *time.Time                  `json:"deadline,omitempty"`
	PM                    *entities.Person            `json:"pm,omitempty"`
	Translator            *entities.Person            `json:"translator,omitempty"`
	AssignmentStatus      string                      `json:"assignment_status"`
	AssignmentRespondedAt *time.Time                  `json:"assignment_responded_at,omitempty"`
	AssignmentHistory     []entities.AssignmentRecord `json:"assignment_history,omitempty"`
	TMSProjectID          string                      `json:"tms_project_id,omitempty"`
	Version               int                         `json:"version"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
	DeliveredAt           *time.Time                  `json:"delivered_at,omitempty"`
}

func FromOrder(o entities.Order) OrderResponse {
	resp := OrderResponse{
		ID:                    o.ID,
		QuoteID:               o.QuoteID,
		TransactionID:         o.TransactionID,
		Reference:             o.Reference,
		ClientEmail:           o.ClientEmail,
		ClientName:            o.ClientName,
		ServiceType:           string(o.ServiceType),
		TranslateFrom:         o.TranslateFrom,
		TranslateTo:           o.TranslateTo,
		WordCount:             o.WordCount,
		Urgency:               string(o.Urgency),
		TotalPrice:            money(o.TotalPrice),
		TranslationStatus:     string(o.TranslationStatus),
		PaymentStatus:         string(o.PaymentStatus),
		DueDate:               o.DueDate,
		Deadline:              o.Deadline,
		AssignmentStatus:      string(o.AssignmentStatus),
		AssignmentRespondedAt: o.AssignmentRespondedAt,
		AssignmentHistory:     o.AssignmentHistory,
		TMSProjectID:          o.TMSProjectID,
		Version:               o.Version,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
		DeliveredAt:           o.DeliveredAt,
	}
	if !o.PM.IsZero() {
		pm := o.PM
		resp.PM = &pm
	}
	if !o.Translator.IsZero() {
		tr := o.Translator
		resp.Translator = &tr
	}
	return resp
}

func FromOrders(list []entities.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, FromOrder(o))
	}
	return out
}

// AssignmentResponse is shown to the translator after following an email link.
type AssignmentResponse struct {
	OrderReference   string `json:"order_reference"`
	AssignmentStatus string `json:"assignment_status"`
	Message          string `json:"message"`
}

func FromAssignment(o entities.Order) AssignmentResponse {
	msg := "Assignment declined. Thank you for letting us know."
	if o.AssignmentStatus == entities.AssignmentAccepted {
		msg = "Assignment accepted. The project manager will be in touch."
	}
	return AssignmentResponse{OrderReference: o.Reference, AssignmentStatus: string(o.AssignmentStatus), Message: msg}
}
