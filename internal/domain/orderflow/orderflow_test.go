package orderflow_test

import (
	"testing"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/orderflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newOrder() *entities.Order {
	o := &entities.Order{ID: "ord-1", ClientEmail: "client@example.com"}
	orderflow.NewOrder(o, now)
	return o
}

func effectsOf(list []entities.DeclaredEffect) []entities.Effect {
	out := make([]entities.Effect, 0, len(list))
	for _, e := range list {
		out = append(out, e.Effect)
	}
	return out
}

func TestNewOrder(t *testing.T) {
	o := &entities.Order{}
	effects := orderflow.NewOrder(o, now)

	assert.Equal(t, entities.TranslationReceived, o.TranslationStatus)
	assert.Equal(t, entities.OrderPaymentPending, o.PaymentStatus)
	assert.Equal(t, entities.AssignmentNone, o.AssignmentStatus)
	assert.Equal(t, 1, o.Version)
	assert.Equal(t, []entities.Effect{
		entities.EffectEmailOrderConfirmation,
		entities.EffectEmailAdminNewOrder,
		entities.EffectTMSCreateProject,
	}, effectsOf(effects))
}

func TestNewOrder_KeepsPaidStatus(t *testing.T) {
	o := &entities.Order{PaymentStatus: entities.OrderPaymentPaid}
	orderflow.NewOrder(o, now)
	assert.Equal(t, entities.OrderPaymentPaid, o.PaymentStatus)
}

func TestAdvanceTranslation_HappyPath(t *testing.T) {
	o := newOrder()

	steps := []struct {
		to     entities.TranslationStatus
		effect entities.Effect
	}{
		{entities.TranslationInTranslation, entities.EffectEmailTranslationStarted},
		{entities.TranslationReview, entities.EffectEmailReviewReady},
		{entities.TranslationReady, entities.EffectEmailReadyForDelivery},
		{entities.TranslationDelivered, entities.EffectEmailOrderDelivered},
	}
	for _, s := range steps {
		effects, err := orderflow.AdvanceTranslation(o, s.to, now)
		require.NoError(t, err, "to %s", s.to)
		assert.Equal(t, []entities.Effect{s.effect}, effectsOf(effects))
		assert.Equal(t, s.to, o.TranslationStatus)
	}
	require.NotNil(t, o.DeliveredAt)
	assert.True(t, orderflow.IsTerminal(o.TranslationStatus))
}

func TestAdvanceTranslation_ReworkLoop(t *testing.T) {
	o := newOrder()
	o.TranslationStatus = entities.TranslationReview

	effects, err := orderflow.AdvanceTranslation(o, entities.TranslationInTranslation, now)
	require.NoError(t, err)
	assert.Equal(t, []entities.Effect{entities.EffectEmailReworkRequested}, effectsOf(effects))
	assert.Equal(t, entities.RecipientTranslator, effects[0].Recipient)
}

func TestAdvanceTranslation_ReviewGoesToPMWhenAssigned(t *testing.T) {
	o := newOrder()
	o.TranslationStatus = entities.TranslationInTranslation

	effects, err := orderflow.AdvanceTranslation(o, entities.TranslationReview, now)
	require.NoError(t, err)
	assert.Equal(t, entities.RecipientAdmin, effects[0].Recipient)

	o.TranslationStatus = entities.TranslationInTranslation
	o.PM = entities.Person{ID: "pm-1", Email: "pm@example.com"}
	effects, err = orderflow.AdvanceTranslation(o, entities.TranslationReview, now)
	require.NoError(t, err)
	assert.Equal(t, entities.RecipientPM, effects[0].Recipient)
}

func TestAdvanceTranslation_Invalid(t *testing.T) {
	tests := []struct {
		from entities.TranslationStatus
		to   entities.TranslationStatus
	}{
		{entities.TranslationReady, entities.TranslationReceived},
		{entities.TranslationReceived, entities.TranslationReview},
		{entities.TranslationReceived, entities.TranslationDelivered},
		{entities.TranslationInTranslation, entities.TranslationReceived},
		{entities.TranslationReady, entities.TranslationInTranslation},
		{entities.TranslationDelivered, entities.TranslationReady},
		{entities.TranslationDelivered, entities.TranslationDelivered},
		{entities.TranslationReview, "archived"},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := newOrder()
			o.TranslationStatus = tt.from
			_, err := orderflow.AdvanceTranslation(o, tt.to, now)
			assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)
			assert.Equal(t, tt.from, o.TranslationStatus)
		})
	}
}

func TestPaymentTransitions(t *testing.T) {
	t.Run("pending to paid", func(t *testing.T) {
		o := newOrder()
		effects, err := orderflow.MarkPaid(o, now)
		require.NoError(t, err)
		assert.Equal(t, entities.OrderPaymentPaid, o.PaymentStatus)
		assert.Equal(t, []entities.Effect{entities.EffectEmailPaymentReceipt}, effectsOf(effects))
	})

	t.Run("paid is terminal", func(t *testing.T) {
		o := newOrder()
		o.PaymentStatus = entities.OrderPaymentPaid
		_, err := orderflow.MarkPaid(o, now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)
		_, err = orderflow.MarkOverdue(o, now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)
	})

	t.Run("overdue needs a past due date", func(t *testing.T) {
		o := newOrder()
		_, err := orderflow.MarkOverdue(o, now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)

		future := now.Add(time.Hour)
		o.DueDate = &future
		_, err = orderflow.MarkOverdue(o, now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)

		past := now.Add(-time.Hour)
		o.DueDate = &past
		effects, err := orderflow.MarkOverdue(o, now)
		require.NoError(t, err)
		assert.Equal(t, entities.OrderPaymentOverdue, o.PaymentStatus)
		assert.Equal(t, []entities.Effect{entities.EffectEmailPaymentOverdue}, effectsOf(effects))
	})

	t.Run("overdue can still be paid", func(t *testing.T) {
		o := newOrder()
		o.PaymentStatus = entities.OrderPaymentOverdue
		_, err := orderflow.MarkPaid(o, now)
		require.NoError(t, err)
		assert.Equal(t, entities.OrderPaymentPaid, o.PaymentStatus)
	})
}

func TestAssignment(t *testing.T) {
	alice := entities.Person{ID: "tr-1", Name: "Alice", Email: "alice@example.com"}
	bob := entities.Person{ID: "tr-2", Name: "Bob", Email: "bob@example.com"}

	t.Run("accept consumes token", func(t *testing.T) {
		o := newOrder()
		effects, err := orderflow.AssignTranslator(o, alice, "tok-1", now)
		require.NoError(t, err)
		assert.Equal(t, []entities.Effect{entities.EffectEmailTranslatorAssignment}, effectsOf(effects))
		assert.Equal(t, entities.AssignmentPending, o.AssignmentStatus)

		effects, err = orderflow.RespondToAssignment(o, "tok-1", true, now)
		require.NoError(t, err)
		assert.Equal(t, []entities.Effect{entities.EffectEmailAssignmentAccepted}, effectsOf(effects))
		assert.Equal(t, entities.AssignmentAccepted, o.AssignmentStatus)
		assert.True(t, o.AssignmentTokenUsed)
		require.NotNil(t, o.AssignmentRespondedAt)

		_, err = orderflow.RespondToAssignment(o, "tok-1", false, now)
		assert.ErrorIs(t, err, orderflow.ErrTokenAlreadyUsed)
		assert.Equal(t, entities.AssignmentAccepted, o.AssignmentStatus)
	})

	t.Run("decline then accept with same token fails", func(t *testing.T) {
		o := newOrder()
		_, err := orderflow.AssignTranslator(o, alice, "tok-1", now)
		require.NoError(t, err)
		_, err = orderflow.RespondToAssignment(o, "tok-1", false, now)
		require.NoError(t, err)

		_, err = orderflow.RespondToAssignment(o, "tok-1", true, now)
		assert.ErrorIs(t, err, orderflow.ErrTokenAlreadyUsed)
		assert.Equal(t, entities.AssignmentDeclined, o.AssignmentStatus)
	})

	t.Run("wrong token", func(t *testing.T) {
		o := newOrder()
		_, err := orderflow.AssignTranslator(o, alice, "tok-1", now)
		require.NoError(t, err)
		_, err = orderflow.RespondToAssignment(o, "tok-2", true, now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidToken)
	})

	t.Run("reassign after decline keeps history", func(t *testing.T) {
		o := newOrder()
		_, err := orderflow.AssignTranslator(o, alice, "tok-1", now)
		require.NoError(t, err)
		_, err = orderflow.RespondToAssignment(o, "tok-1", false, now)
		require.NoError(t, err)

		later := now.Add(time.Hour)
		_, err = orderflow.AssignTranslator(o, bob, "tok-2", later)
		require.NoError(t, err)

		require.Len(t, o.AssignmentHistory, 2)
		assert.Equal(t, alice, o.AssignmentHistory[0].Translator)
		assert.Equal(t, entities.AssignmentDeclined, o.AssignmentHistory[0].Status)
		assert.Equal(t, bob, o.AssignmentHistory[1].Translator)
		assert.Equal(t, entities.AssignmentPending, o.AssignmentHistory[1].Status)
		assert.Equal(t, bob, o.Translator)
		assert.False(t, o.AssignmentTokenUsed)
		assert.Nil(t, o.AssignmentRespondedAt)
	})

	t.Run("cannot reassign while pending or accepted", func(t *testing.T) {
		o := newOrder()
		_, err := orderflow.AssignTranslator(o, alice, "tok-1", now)
		require.NoError(t, err)
		_, err = orderflow.AssignTranslator(o, bob, "tok-2", now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)

		_, err = orderflow.RespondToAssignment(o, "tok-1", true, now)
		require.NoError(t, err)
		_, err = orderflow.AssignTranslator(o, bob, "tok-2", now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)
	})

	t.Run("response goes to pm when assigned", func(t *testing.T) {
		o := newOrder()
		_, err := orderflow.AssignPM(o, entities.Person{ID: "pm-1", Email: "pm@example.com"}, now)
		require.NoError(t, err)
		_, err = orderflow.AssignTranslator(o, alice, "tok-1", now)
		require.NoError(t, err)
		effects, err := orderflow.RespondToAssignment(o, "tok-1", true, now)
		require.NoError(t, err)
		assert.Equal(t, entities.RecipientPM, effects[0].Recipient)
	})

	t.Run("no assignment changes once delivered", func(t *testing.T) {
		o := newOrder()
		o.TranslationStatus = entities.TranslationDelivered
		_, err := orderflow.AssignTranslator(o, alice, "tok-1", now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)
		_, err = orderflow.AssignPM(o, entities.Person{ID: "pm-1"}, now)
		assert.ErrorIs(t, err, orderflow.ErrInvalidTransition)
	})
}

func TestDeadline(t *testing.T) {
	assert.Equal(t, now.Add(7*24*time.Hour), orderflow.Deadline(now, entities.UrgencyNo))
	assert.Equal(t, now.Add(3*24*time.Hour), orderflow.Deadline(now, entities.UrgencyPriority))
	assert.Equal(t, now.Add(24*time.Hour), orderflow.Deadline(now, entities.UrgencyUrgent))
	assert.Equal(t, now.Add(7*24*time.Hour), orderflow.Deadline(now, ""))
}
