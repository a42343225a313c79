// Package orderflow holds the order status rules.
//
// An order moves on three independent axes: translation, payment and
// translator assignment. Every function here checks the move, mutates the
// order in memory and returns the side effects the move declares. Nothing is
// persisted or sent from this package.
package orderflow

import (
	"crypto/subtle"
	"errors"
	"time"

	"legacy_portal/internal/domain/entities"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTokenAlreadyUsed  = errors.New("assignment token already used")
	ErrInvalidToken      = errors.New("invalid assignment token")
)

var translationMoves = map[entities.TranslationStatus][]entities.TranslationStatus{
	entities.TranslationReceived:      {entities.TranslationInTranslation},
	entities.TranslationInTranslation: {entities.TranslationReview},
	entities.TranslationReview:        {entities.TranslationReady, entities.TranslationInTranslation},
	entities.TranslationReady:         {entities.TranslationDelivered},
}

// CanAdvance reports whether translation status from may move to to.
func CanAdvance(from, to entities.TranslationStatus) bool {
	for _, next := range translationMoves[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no translation move leaves s.
func IsTerminal(s entities.TranslationStatus) bool {
	return len(translationMoves[s]) == 0
}

// NewOrder sets the initial statuses of a freshly created order and returns
// the effects of its creation.
func NewOrder(o *entities.Order, now time.Time) []entities.DeclaredEffect {
	o.TranslationStatus = entities.TranslationReceived
	if o.PaymentStatus == "" {
		o.PaymentStatus = entities.OrderPaymentPending
	}
	o.AssignmentStatus = entities.AssignmentNone
	o.CreatedAt = now
	o.UpdatedAt = now
	o.Version = 1

	return []entities.DeclaredEffect{
		{Effect: entities.EffectEmailOrderConfirmation, Recipient: entities.RecipientClient},
		{Effect: entities.EffectEmailAdminNewOrder, Recipient: entities.RecipientAdmin},
		{Effect: entities.EffectTMSCreateProject, Recipient: entities.RecipientSystem},
	}
}

// AdvanceTranslation moves the translation axis. The only backward move is the
// rework loop from review to in_translation.
func AdvanceTranslation(o *entities.Order, to entities.TranslationStatus, now time.Time) ([]entities.DeclaredEffect, error) {
	from := o.TranslationStatus
	if !CanAdvance(from, to) {
		return nil, ErrInvalidTransition
	}

	o.TranslationStatus = to
	o.UpdatedAt = now

	var effect entities.DeclaredEffect
	switch {
	case to == entities.TranslationInTranslation && from == entities.TranslationReview:
		effect = entities.DeclaredEffect{Effect: entities.EffectEmailReworkRequested, Recipient: entities.RecipientTranslator}
	case to == entities.TranslationInTranslation:
		effect = entities.DeclaredEffect{Effect: entities.EffectEmailTranslationStarted, Recipient: entities.RecipientClient}
	case to == entities.TranslationReview:
		effect = entities.DeclaredEffect{Effect: entities.EffectEmailReviewReady, Recipient: supervisor(o)}
	case to == entities.TranslationReady:
		effect = entities.DeclaredEffect{Effect: entities.EffectEmailReadyForDelivery, Recipient: entities.RecipientAdmin}
	case to == entities.TranslationDelivered:
		delivered := now
		o.DeliveredAt = &delivered
		effect = entities.DeclaredEffect{Effect: entities.EffectEmailOrderDelivered, Recipient: entities.RecipientClient}
	}
	return []entities.DeclaredEffect{effect}, nil
}

// MarkPaid settles the order. Late settlement of an overdue order is allowed.
func MarkPaid(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
	switch o.PaymentStatus {
	case entities.OrderPaymentPending, entities.OrderPaymentOverdue:
	default:
		return nil, ErrInvalidTransition
	}
	o.PaymentStatus = entities.OrderPaymentPaid
	o.UpdatedAt = now
	return []entities.DeclaredEffect{
		{Effect: entities.EffectEmailPaymentReceipt, Recipient: entities.RecipientClient},
	}, nil
}

// MarkOverdue flags an unpaid order past its due date. It is driven by the
// scheduler, never by a user action.
func MarkOverdue(o *entities.Order, now time.Time) ([]entities.DeclaredEffect, error) {
	if o.PaymentStatus != entities.OrderPaymentPending {
		return nil, ErrInvalidTransition
	}
	if o.DueDate == nil || !now.After(*o.DueDate) {
		return nil, ErrInvalidTransition
	}
	o.PaymentStatus = entities.OrderPaymentOverdue
	o.UpdatedAt = now
	return []entities.DeclaredEffect{
		{Effect: entities.EffectEmailPaymentOverdue, Recipient: entities.RecipientClient},
	}, nil
}

// AssignPM sets or replaces the project manager.
func AssignPM(o *entities.Order, pm entities.Person, now time.Time) ([]entities.DeclaredEffect, error) {
	if o.TranslationStatus == entities.TranslationDelivered {
		return nil, ErrInvalidTransition
	}
	o.PM = pm
	o.UpdatedAt = now
	return []entities.DeclaredEffect{
		{Effect: entities.EffectEmailPMAssigned, Recipient: entities.RecipientPM},
	}, nil
}

// AssignTranslator offers the order to a translator with a fresh response
// token. Allowed on a new order or after a decline; earlier attempts stay in
// the history untouched.
func AssignTranslator(o *entities.Order, translator entities.Person, token string, now time.Time) ([]entities.DeclaredEffect, error) {
	if o.TranslationStatus == entities.TranslationDelivered {
		return nil, ErrInvalidTransition
	}
	switch o.AssignmentStatus {
	case "", entities.AssignmentNone, entities.AssignmentDeclined:
	default:
		return nil, ErrInvalidTransition
	}

	o.Translator = translator
	o.AssignmentToken = token
	o.AssignmentTokenUsed = false
	o.AssignmentStatus = entities.AssignmentPending
	o.AssignmentRespondedAt = nil
	o.AssignmentHistory = append(o.AssignmentHistory, entities.AssignmentRecord{
		Translator: translator,
		Status:     entities.AssignmentPending,
		AssignedAt: now,
	})
	o.UpdatedAt = now

	return []entities.DeclaredEffect{
		{Effect: entities.EffectEmailTranslatorAssignment, Recipient: entities.RecipientTranslator},
	}, nil
}

// RespondToAssignment consumes the assignment token. The first accept or
// decline wins; any later use of the same token is ErrTokenAlreadyUsed.
func RespondToAssignment(o *entities.Order, token string, accept bool, now time.Time) ([]entities.DeclaredEffect, error) {
	if o.AssignmentToken == "" || subtle.ConstantTimeCompare([]byte(o.AssignmentToken), []byte(token)) != 1 {
		return nil, ErrInvalidToken
	}
	if o.AssignmentTokenUsed {
		return nil, ErrTokenAlreadyUsed
	}
	if o.AssignmentStatus != entities.AssignmentPending {
		return nil, ErrInvalidTransition
	}

	status := entities.AssignmentDeclined
	effect := entities.EffectEmailAssignmentDeclined
	if accept {
		status = entities.AssignmentAccepted
		effect = entities.EffectEmailAssignmentAccepted
	}

	responded := now
	o.AssignmentStatus = status
	o.AssignmentTokenUsed = true
	o.AssignmentRespondedAt = &responded
	if n := len(o.AssignmentHistory); n > 0 {
		last := &o.AssignmentHistory[n-1]
		last.Status = status
		last.RespondedAt = &responded
	}
	o.UpdatedAt = now

	return []entities.DeclaredEffect{{Effect: effect, Recipient: supervisor(o)}}, nil
}

func supervisor(o *entities.Order) entities.Recipient {
	if o.PM.IsZero() {
		return entities.RecipientAdmin
	}
	return entities.RecipientPM
}

var turnaround = map[entities.Urgency]time.Duration{
	entities.UrgencyNo:       7 * 24 * time.Hour,
	entities.UrgencyPriority: 3 * 24 * time.Hour,
	entities.UrgencyUrgent:   24 * time.Hour,
}

// Deadline is the promised delivery time for an order created at from.
func Deadline(from time.Time, u entities.Urgency) time.Time {
	d, ok := turnaround[u]
	if !ok {
		d = turnaround[entities.UrgencyNo]
	}
	return from.Add(d)
}
