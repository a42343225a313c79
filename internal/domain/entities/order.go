package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TranslationStatus is the linguistic progress of an order.
type TranslationStatus string

const (
	TranslationReceived      TranslationStatus = "received"
	TranslationInTranslation TranslationStatus = "in_translation"
	TranslationReview        TranslationStatus = "review"
	TranslationReady         TranslationStatus = "ready"
	TranslationDelivered     TranslationStatus = "delivered"
)

// OrderPaymentStatus is the settlement state of an order.
type OrderPaymentStatus string

const (
	OrderPaymentPending OrderPaymentStatus = "pending"
	OrderPaymentPaid    OrderPaymentStatus = "paid"
	OrderPaymentOverdue OrderPaymentStatus = "overdue"
)

// AssignmentStatus tracks the translator's answer to an assignment.
type AssignmentStatus string

const (
	AssignmentNone     AssignmentStatus = "none"
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentDeclined AssignmentStatus = "declined"
)

// Person identifies a PM or translator on an order.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p Person) IsZero() bool { return p.ID == "" && p.Email == "" }

// AssignmentRecord is one past translator assignment. The history is append-only.
type AssignmentRecord struct {
	Translator  Person           `json:"translator"`
	Status      AssignmentStatus `json:"status"`
	AssignedAt  time.Time        `json:"assigned_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
}

// Order is a confirmed translation job.
//
// Storage model (DynamoDB):
//   - PK: id
//
// Orders are never deleted, only transitioned. Version is incremented on every
// write and checked by the store so concurrent updates cannot overwrite each other.
type Order struct {
	ID            string `json:"id"`
	QuoteID       string `json:"quote_id"`
	TransactionID string `json:"transaction_id,omitempty"`
	Reference     string `json:"reference"`

	ClientEmail string `json:"client_email"`
	ClientName  string `json:"client_name"`
	PartnerID   string `json:"partner_id,omitempty"`

	ServiceType   ServiceType     `json:"service_type"`
	TranslateFrom string          `json:"translate_from"`
	TranslateTo   string          `json:"translate_to"`
	WordCount     int             `json:"word_count"`
	Urgency       Urgency         `json:"urgency"`
	TotalPrice    decimal.Decimal `json:"total_price"`

	TranslationStatus TranslationStatus  `json:"translation_status"`
	PaymentStatus     OrderPaymentStatus `json:"payment_status"`
	DueDate           *time.Time         `json:"due_date,omitempty"`
	Deadline          *time.Time         `json:"deadline,omitempty"`

	PM                    Person             `json:"pm"`
	Translator            Person             `json:"translator"`
	AssignmentToken       string             `json:"-"`
	AssignmentTokenUsed   bool               `json:"assignment_token_used"`
	AssignmentStatus      AssignmentStatus   `json:"assignment_status"`
	AssignmentRespondedAt *time.Time         `json:"assignment_responded_at,omitempty"`
	AssignmentHistory     []AssignmentRecord `json:"assignment_history,omitempty"`

	TMSProjectID string `json:"tms_project_id,omitempty"`

	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderFilter narrows order listings. Nil fields are ignored.
type OrderFilter struct {
	TranslationStatus *TranslationStatus
	PaymentStatus     *OrderPaymentStatus
	ClientEmail       string
	DueBefore         *time.Time
}

func (f OrderFilter) Matches(o Order) bool {
	if f.TranslationStatus != nil && o.TranslationStatus != *f.TranslationStatus {
		return false
	}
	if f.PaymentStatus != nil && o.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.ClientEmail != "" && o.ClientEmail != f.ClientEmail {
		return false
	}
	if f.DueBefore != nil && (o.DueDate == nil || !o.DueDate.Before(*f.DueBefore)) {
		return false
	}
	return true
}
