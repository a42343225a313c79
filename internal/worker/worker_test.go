package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"legacy_portal/internal/adapter/persistence/memory"
	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/orderflow"
	"legacy_portal/internal/usecase"
	"legacy_portal/internal/usecase/interfaces"
	mock_interfaces "legacy_portal/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	orders     *usecase.OrderUseCase
	email      *mock_interfaces.MockIEmailSender
	tms        *mock_interfaces.MockITMSClient
	dispatcher *OutboxDispatcher
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	orders := usecase.NewOrderUseCase(store.Orders(), store.Quotes(), store.Transactions(), 30)
	email := mock_interfaces.NewMockIEmailSender(ctrl)
	tms := mock_interfaces.NewMockITMSClient(ctrl)
	d := NewOutboxDispatcher(DispatcherConfig{
		Interval:    time.Second,
		Batch:       10,
		MaxAttempts: maxAttempts,
		AdminEmail:  "admin@agency.test",
		ResponseURL: func(token, action string) string {
			return "https://agency.test/v1/assignments/respond?token=" + token + "&action=" + action
		},
	}, store.Outbox(), orders, email, tms)
	return &fixture{store: store, orders: orders, email: email, tms: tms, dispatcher: d}
}

func (f *fixture) seedOrder(t *testing.T) entities.Order {
	deadline := now.Add(72 * time.Hour)
	o := entities.Order{
		ID:            "ord-1",
		Reference:     "ORD-0001",
		ClientEmail:   "client@example.com",
		ClientName:    "Maria",
		TranslateFrom: "pt",
		TranslateTo:   "en",
		WordCount:     300,
		Urgency:       entities.UrgencyPriority,
		TotalPrice:    decimal.RequireFromString("28.12"),
		Deadline:      &deadline,
	}
	effects := orderflow.NewOrder(&o, now)
	events := make([]entities.OutboxEvent, 0, len(effects))
	for i, e := range effects {
		events = append(events, entities.OutboxEvent{
			ID:        "evt-" + string(e.Effect),
			OrderID:   o.ID,
			Effect:    e.Effect,
			Recipient: e.Recipient,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}
	created, err := f.store.Orders().Create(context.Background(), o, events)
	require.NoError(t, err)
	return created
}

func TestDispatch_DeliversNewOrderEffects(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	f.seedOrder(t)

	var sent []interfaces.EmailMessage
	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m interfaces.EmailMessage) error {
		sent = append(sent, m)
		return nil
	}).Times(2)
	f.tms.EXPECT().CreateProject(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req interfaces.TMSProjectRequest) (string, error) {
		assert.Equal(t, "ORD-0001", req.Name)
		assert.Equal(t, 300, req.WordCount)
		return "prj-9", nil
	})

	assert.Equal(t, 3, f.dispatcher.Dispatch(ctx))

	require.Len(t, sent, 2)
	assert.Equal(t, "client@example.com", sent[0].To)
	assert.Equal(t, "admin@agency.test", sent[1].To)

	o, err := f.orders.Get(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "prj-9", o.TMSProjectID)

	pending, _ := f.store.Outbox().ListPending(ctx, 10)
	assert.Empty(t, pending)

	// nothing left: a second pass sends nothing
	assert.Equal(t, 0, f.dispatcher.Dispatch(ctx))
}

func TestDispatch_FailureIsRetriedThenAbandoned(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	f.seedOrder(t)

	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.tms.EXPECT().CreateProject(gomock.Any(), gomock.Any()).Return("", errors.New("tms down")).Times(2)

	assert.Equal(t, 2, f.dispatcher.Dispatch(ctx))
	assert.Equal(t, 0, f.dispatcher.Dispatch(ctx))
	// attempts exhausted: the TMS effect is no longer tried
	assert.Equal(t, 0, f.dispatcher.Dispatch(ctx))

	events := f.store.Outbox().Events("ord-1")
	var tmsEvent entities.OutboxEvent
	for _, e := range events {
		if e.Effect == entities.EffectTMSCreateProject {
			tmsEvent = e
		}
	}
	assert.Equal(t, 2, tmsEvent.Attempts)
	assert.Equal(t, "tms down", tmsEvent.LastError)
	assert.Nil(t, tmsEvent.ProcessedAt)
	assert.NotNil(t, tmsEvent.AbandonedAt)
}

func TestDispatch_AbandonedEventsDoNotBlockLaterOnes(t *testing.T) {
	f := newFixture(t, 1)
	f.dispatcher.cfg.Batch = 1
	ctx := context.Background()
	f.seedOrder(t)

	// the oldest event fails once and is given up on
	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m interfaces.EmailMessage) error {
		if m.To == "client@example.com" {
			return errors.New("smtp down")
		}
		return nil
	}).AnyTimes()
	f.tms.EXPECT().CreateProject(gomock.Any(), gomock.Any()).Return("prj-3", nil)

	delivered := 0
	for i := 0; i < 5; i++ {
		delivered += f.dispatcher.Dispatch(ctx)
	}
	assert.Equal(t, 2, delivered)

	pending, err := f.store.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	o, err := f.orders.Get(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "prj-3", o.TMSProjectID)
}

func TestDispatch_AbandonsEventsAlreadyOverLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := mock_interfaces.NewMockIOutboxRepository(ctrl)
	d := NewOutboxDispatcher(DispatcherConfig{Batch: 5, MaxAttempts: 3}, outbox, nil, nil, nil)
	ctx := context.Background()

	outbox.EXPECT().ListPending(ctx, 5).Return([]entities.OutboxEvent{{ID: "e-old", Attempts: 7}}, nil)
	outbox.EXPECT().MarkAbandoned(ctx, "e-old", gomock.Any()).Return(nil)

	assert.Equal(t, 0, d.Dispatch(ctx))
}

func TestDispatch_TranslatorAssignmentCarriesLinks(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	f.seedOrder(t)
	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.tms.EXPECT().CreateProject(gomock.Any(), gomock.Any()).Return("prj-1", nil)
	f.dispatcher.Dispatch(ctx)

	o, err := f.orders.AssignTranslator(ctx, "ord-1", entities.Person{ID: "tr-1", Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m interfaces.EmailMessage) error {
		assert.Equal(t, "alice@example.com", m.To)
		assert.Contains(t, m.HTML, "token="+o.AssignmentToken)
		assert.True(t, strings.Contains(m.HTML, "action=decline"))
		return nil
	})
	assert.Equal(t, 1, f.dispatcher.Dispatch(ctx))
}

func TestDispatch_SkipsUnknownRecipient(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	o := f.seedOrder(t)

	// review without PM goes to admin; build a PM-addressed event directly
	_, err := f.store.Orders().Save(ctx, o, o.Version, []entities.OutboxEvent{{
		ID: "evt-pm", OrderID: o.ID, Effect: entities.EffectEmailPMAssigned, Recipient: entities.RecipientPM, CreatedAt: now.Add(time.Second),
	}})
	require.NoError(t, err)

	f.email.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.tms.EXPECT().CreateProject(gomock.Any(), gomock.Any()).Return("prj-1", nil)

	assert.Equal(t, 4, f.dispatcher.Dispatch(ctx))
}

func TestScheduler_Tick(t *testing.T) {
	store := memory.NewStore()
	orders := usecase.NewOrderUseCase(store.Orders(), store.Quotes(), store.Transactions(), 30)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	o := entities.Order{ID: "ord-late", ClientEmail: "c@example.com", DueDate: &past}
	orderflow.NewOrder(&o, past)
	_, err := store.Orders().Create(ctx, o, nil)
	require.NoError(t, err)

	NewScheduler(time.Minute, orders, nil).Tick(ctx)

	got, err := orders.Get(ctx, "ord-late")
	require.NoError(t, err)
	assert.Equal(t, entities.OrderPaymentOverdue, got.PaymentStatus)
}
