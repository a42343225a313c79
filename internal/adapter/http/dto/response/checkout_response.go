package response

import (
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/usecase"
	"time"
)

type CheckoutResponse struct {
	CheckoutURL   string `json:"checkout_url"`
	SessionID     string `json:"session_id"`
	TransactionID string `json:"transaction_id"`
}

func FromCheckoutResult(r usecase.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{CheckoutURL: r.CheckoutURL, SessionID: r.SessionID, TransactionID: r.TransactionID}
}

type TransactionResponse struct {
	ID               string     `json:"id"`
	QuoteID          string     `json:"quote_id"`
	SessionID        string     `json:"session_id"`
	CheckoutURL      string     `json:"checkout_url"`
	GatewayPaymentID string     `json:"gateway_payment_id,omitempty"`
	Amount           string     `json:"amount"`
	Currency         string     `json:"currency"`
	DiscountCode     string     `json:"discount_code,omitempty"`
	PaymentStatus    string     `json:"payment_status"`
	Status           string     `json:"status"`
	OrderID          string     `json:"order_id,omitempty"`
	TMSProjectID     string     `json:"tms_project_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

func FromTransaction(t entities.PaymentTransaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		QuoteID:          t.QuoteID,
		SessionID:        t.SessionID,
		CheckoutURL:      t.CheckoutURL,
		GatewayPaymentID: t.GatewayPaymentID,
		Amount:           money(t.Amount),
		Currency:         t.Currency,
		DiscountCode:     t.DiscountCode,
		PaymentStatus:    string(t.PaymentStatus),
		Status:           string(t.Status),
		OrderID:          t.OrderID,
		TMSProjectID:     t.TMSProjectID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		PaidAt:           t.PaidAt,
	}
}
