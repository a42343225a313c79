package entities

import "time"

// Effect names a side effect a transition asks for. Effects are stored, then
// executed by the outbox dispatcher; nothing in a transition does I/O.
type Effect string

const (
	EffectEmailOrderConfirmation    Effect = "email_order_confirmation"
	EffectEmailAdminNewOrder        Effect = "email_admin_new_order"
	EffectTMSCreateProject          Effect = "tms_create_project"
	EffectEmailTranslationStarted   Effect = "email_translation_started"
	EffectEmailReviewReady          Effect = "email_review_ready"
	EffectEmailReworkRequested      Effect = "email_rework_requested"
	EffectEmailReadyForDelivery     Effect = "email_ready_for_delivery"
	EffectEmailOrderDelivered       Effect = "email_order_delivered"
	EffectEmailPaymentReceipt       Effect = "email_payment_receipt"
	EffectEmailPaymentOverdue       Effect = "email_payment_overdue"
	EffectEmailPMAssigned           Effect = "email_pm_assigned"
	EffectEmailTranslatorAssignment Effect = "email_translator_assignment"
	EffectEmailAssignmentAccepted   Effect = "email_assignment_accepted"
	EffectEmailAssignmentDeclined   Effect = "email_assignment_declined"
)

// Recipient is the role an effect is addressed to; the dispatcher resolves
// the actual address from the order and configuration.
type Recipient string

const (
	RecipientClient     Recipient = "client"
	RecipientAdmin      Recipient = "admin"
	RecipientPM         Recipient = "pm"
	RecipientTranslator Recipient = "translator"
	RecipientSystem     Recipient = "system"
)

// DeclaredEffect is an effect plus who it is for.
type DeclaredEffect struct {
	Effect    Effect
	Recipient Recipient
}

// OutboxEvent is a persisted DeclaredEffect waiting to be dispatched.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (pending-index): pending ("1" while unprocessed; attribute removed
//     once the event is processed or abandoned)
type OutboxEvent struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	Effect      Effect     `json:"effect"`
	Recipient   Recipient  `json:"recipient"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	AbandonedAt *time.Time `json:"abandoned_at,omitempty"`
	Attempts    int        `json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
}

// Settled reports whether the event left the pending set.
func (e OutboxEvent) Settled() bool {
	return e.ProcessedAt != nil || e.AbandonedAt != nil
}
