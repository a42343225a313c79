package request

import (
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"
	"strings"
	"time"
)

type CreateOrderRequest struct {
	QuoteID     string     `json:"quote_id"`
	ClientEmail string     `json:"client_email"`
	ClientName  string     `json:"client_name"`
	DueDate     *time.Time `json:"due_date"`
}

func (r CreateOrderRequest) ToInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		QuoteID:     r.QuoteID,
		ClientEmail: r.ClientEmail,
		ClientName:  r.ClientName,
		DueDate:     r.DueDate,
	}
}

type TranslationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PersonRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r PersonRequest) ToPerson() entities.Person {
	return entities.Person{ID: r.ID, Name: r.Name, Email: r.Email}
}

// OrderListQuery is bound from the query string of GET /orders.
type OrderListQuery struct {
	TranslationStatus string `form:"translation_status"`
	PaymentStatus     string `form:"payment_status"`
	ClientEmail       string `form:"client_email"`
}

func (q OrderListQuery) ToFilter() entities.OrderFilter {
	var f entities.OrderFilter
	if q.TranslationStatus != "" {
		s := entities.TranslationStatus(q.TranslationStatus)
		f.TranslationStatus = &s
	}
	if q.PaymentStatus != "" {
		s := entities.OrderPaymentStatus(q.PaymentStatus)
		f.PaymentStatus = &s
	}
	f.ClientEmail = strings.ToLower(strings.TrimSpace(q.ClientEmail))
	return f
}
