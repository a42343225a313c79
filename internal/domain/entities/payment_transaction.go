package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the gateway-facing outcome of a checkout.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// TransactionStatus is the internal lifecycle of a checkout, separate from
// what the gateway reports.
type TransactionStatus string

const (
	TransactionInitiated TransactionStatus = "initiated"
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionExpired   TransactionStatus = "expired"
)

// PaymentTransaction links a gateway checkout session to a quote.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (session_id-index): session_id
//
// The transaction id is sent to Mercado Pago as external_reference so webhook
// and polling lookups resolve back to it.
type PaymentTransaction struct {
	ID               string            `json:"id"`
	QuoteID          string            `json:"quote_id"`
	SessionID        string            `json:"session_id"`
	CheckoutURL      string            `json:"checkout_url"`
	GatewayPaymentID string            `json:"gateway_payment_id,omitempty"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	CustomerEmail    string            `json:"customer_email,omitempty"`
	CustomerName     string            `json:"customer_name,omitempty"`
	DiscountCode     string            `json:"discount_code,omitempty"`
	PaymentStatus    PaymentStatus     `json:"payment_status"`
	Status           TransactionStatus `json:"status"`
	OrderID          string            `json:"order_id,omitempty"`
	TMSProjectID     string            `json:"tms_project_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
}

// GatewayPaymentStatus is the normalised payment state reported by the gateway.
type GatewayPaymentStatus string

const (
	GatewayApproved GatewayPaymentStatus = "approved"
	GatewayPending  GatewayPaymentStatus = "pending"
	GatewayRejected GatewayPaymentStatus = "rejected"
)

// GatewayPayment is what the payment gateway tells us about one payment.
type GatewayPayment struct {
	ID                string
	Status            GatewayPaymentStatus
	StatusDetail      string
	ExternalReference string
	Amount            decimal.Decimal
}

// CheckoutSession is a hosted checkout created at the gateway.
type CheckoutSession struct {
	SessionID   string
	CheckoutURL string
}

// CheckoutRequest is the typed payload sent to the gateway to open a checkout.
type CheckoutRequest struct {
	TransactionID string
	Title         string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	PayerEmail    string
	PayerName     string
	SuccessURL    string
	PendingURL    string
	FailureURL    string
}
