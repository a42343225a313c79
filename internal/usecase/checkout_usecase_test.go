package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"legacy_portal/internal/adapter/persistence/memory"
	"legacy_portal/internal/domain/entities"
	mock_interfaces "legacy_portal/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type checkoutFixture struct {
	store   *memory.Store
	gateway *mock_interfaces.MockIPaymentGateway
	uc      *CheckoutUseCase
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	ctrl := gomock.NewController(t)
	s := memory.NewStore()
	coupons := NewCouponUseCase(s.Coupons(), s.Orders())
	coupons.now = clock(fixedNow)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	uc := NewCheckoutUseCase(s.Transactions(), s.Quotes(), s.Orders(), coupons, gateway, "BRL", 24*time.Hour)
	uc.now = clock(fixedNow)
	return &checkoutFixture{store: s, gateway: gateway, uc: uc}
}

// openCheckout creates a transaction for quote-1 and returns its id.
func (f *checkoutFixture) openCheckout(t *testing.T) string {
	t.Helper()
	seedQuote(t, f.store, entities.Quote{ID: "quote-1", CustomerEmail: "client@example.com", TotalPrice: decimal.RequireFromString("30.00")})
	f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error) {
			return entities.CheckoutSession{SessionID: "pref-" + req.TransactionID, CheckoutURL: "https://pay.test/" + req.TransactionID}, nil
		},
	)
	res, err := f.uc.CreateCheckout(context.Background(), CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
	require.NoError(t, err)
	return res.TransactionID
}

func approved(txID, amount string) entities.GatewayPayment {
	return entities.GatewayPayment{ID: "pay-1", Status: entities.GatewayApproved, ExternalReference: txID, Amount: decimal.RequireFromString(amount)}
}

func TestCheckoutUseCase_CreateCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "", OriginURL: "ftp://x"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "required", verr.Violations["quote_id"])
		assert.Equal(t, "invalid_url", verr.Violations["origin_url"])
	})

	t.Run("quote not found", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "missing", OriginURL: "https://shop.test"})
		assert.ErrorIs(t, err, ErrQuoteNotFound)
	})

	t.Run("creates session and transaction", func(t *testing.T) {
		f := newCheckoutFixture(t)
		seedQuote(t, f.store, entities.Quote{ID: "quote-1", Reference: "REF-9", CustomerEmail: "client@example.com", TotalPrice: decimal.RequireFromString("30.00")})
		f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error) {
				assert.True(t, req.Amount.Equal(decimal.RequireFromString("30")))
				assert.Equal(t, "BRL", req.Currency)
				assert.Equal(t, "client@example.com", req.PayerEmail)
				assert.Equal(t, "https://shop.test/checkout/success?transaction_id="+req.TransactionID, req.SuccessURL)
				assert.Contains(t, req.Title, "REF-9")
				return entities.CheckoutSession{SessionID: "pref-1", CheckoutURL: "https://pay.test/pref-1"}, nil
			},
		)

		res, err := f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test/"})
		require.NoError(t, err)
		assert.Equal(t, "https://pay.test/pref-1", res.CheckoutURL)

		tx, _ := f.store.Transactions().GetByID(ctx, res.TransactionID)
		assert.Equal(t, entities.TransactionInitiated, tx.Status)
		assert.Equal(t, entities.PaymentStatusPending, tx.PaymentStatus)
		assert.Equal(t, "pref-1", tx.SessionID)
	})

	t.Run("coupon redeemed only after gateway success", func(t *testing.T) {
		f := newCheckoutFixture(t)
		seedCoupon(t, f.store, entities.Coupon{Code: "SAVE10", IsActive: true})
		seedQuote(t, f.store, entities.Quote{ID: "quote-1", DiscountCode: "SAVE10", TotalPrice: decimal.RequireFromString("21.60")})

		f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(entities.CheckoutSession{}, errors.New("timeout"))
		_, err := f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
		assert.ErrorIs(t, err, ErrExternalService)
		c, _ := f.store.Coupons().GetByCode(ctx, "SAVE10")
		assert.Equal(t, 0, c.TimesUsed)

		f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(entities.CheckoutSession{SessionID: "s", CheckoutURL: "u"}, nil)
		_, err = f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
		require.NoError(t, err)
		c, _ = f.store.Coupons().GetByCode(ctx, "SAVE10")
		assert.Equal(t, 1, c.TimesUsed)
	})

	t.Run("a quote takes one coupon use across checkouts", func(t *testing.T) {
		f := newCheckoutFixture(t)
		seedCoupon(t, f.store, entities.Coupon{Code: "ONCE", IsActive: true, MaxUses: 1})
		seedQuote(t, f.store, entities.Quote{ID: "quote-1", DiscountCode: "ONCE", TotalPrice: decimal.RequireFromString("27.00")})
		f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(entities.CheckoutSession{SessionID: "s", CheckoutURL: "u"}, nil).Times(3)

		for i := 0; i < 3; i++ {
			_, err := f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
			require.NoError(t, err)
		}
		c, _ := f.store.Coupons().GetByCode(ctx, "ONCE")
		assert.Equal(t, 1, c.TimesUsed)
		assert.True(t, c.RedeemedFor("quote-1"))
	})

	t.Run("coupon use is given back when the transaction cannot be stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := memory.NewStore()
		coupons := NewCouponUseCase(s.Coupons(), s.Orders())
		coupons.now = clock(fixedNow)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		transactions := mock_interfaces.NewMockIPaymentTransactionRepository(ctrl)
		uc := NewCheckoutUseCase(transactions, s.Quotes(), s.Orders(), coupons, gateway, "BRL", time.Hour)
		uc.now = clock(fixedNow)

		seedCoupon(t, s, entities.Coupon{Code: "SAVE10", IsActive: true})
		seedQuote(t, s, entities.Quote{ID: "quote-1", DiscountCode: "SAVE10", TotalPrice: decimal.RequireFromString("21.60")})
		gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(entities.CheckoutSession{SessionID: "s", CheckoutURL: "u"}, nil)
		transactions.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.PaymentTransaction{}, errors.New("throttled"))

		_, err := uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
		require.Error(t, err)
		c, _ := s.Coupons().GetByCode(ctx, "SAVE10")
		assert.Equal(t, 0, c.TimesUsed)
		assert.False(t, c.RedeemedFor("quote-1"))
	})

	t.Run("converted quote is refused", func(t *testing.T) {
		f := newCheckoutFixture(t)
		seedQuote(t, f.store, entities.Quote{ID: "quote-1", CustomerEmail: "client@example.com", TotalPrice: decimal.RequireFromString("30.00")})
		orders := NewOrderUseCase(f.store.Orders(), f.store.Quotes(), f.store.Transactions(), 30)
		_, err := orders.CreateFromQuote(ctx, CreateOrderInput{QuoteID: "quote-1"})
		require.NoError(t, err)

		_, err = f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
		assert.ErrorIs(t, err, ErrQuoteAlreadyConverted)
	})

	t.Run("no gateway", func(t *testing.T) {
		s := memory.NewStore()
		uc := NewCheckoutUseCase(s.Transactions(), s.Quotes(), s.Orders(), nil, nil, "BRL", time.Hour)
		_, err := uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "q", OriginURL: "https://shop.test"})
		assert.ErrorIs(t, err, ErrExternalService)
	})
}

func TestCheckoutUseCase_HandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("bad signature", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.gateway.EXPECT().VerifyWebhook("ts=1,v1=x", "req-1", "123").Return(errors.New("mismatch"))
		err := f.uc.HandleWebhook(ctx, WebhookInput{Signature: "ts=1,v1=x", RequestID: "req-1", Type: "payment", DataID: "123"})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("other topics are acknowledged", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.gateway.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		assert.NoError(t, f.uc.HandleWebhook(ctx, WebhookInput{Type: "merchant_order", DataID: "9"}))
	})

	t.Run("redelivery creates a single order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		txID := f.openCheckout(t)

		f.gateway.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any(), "pay-1").Return(nil).Times(3)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "pay-1").Return(approved(txID, "30.00"), nil).Times(3)

		for i := 0; i < 3; i++ {
			require.NoError(t, f.uc.HandleWebhook(ctx, WebhookInput{Type: "payment", DataID: "pay-1"}))
		}

		tx, _ := f.store.Transactions().GetByID(ctx, txID)
		assert.Equal(t, entities.PaymentStatusPaid, tx.PaymentStatus)
		assert.Equal(t, entities.TransactionCompleted, tx.Status)
		require.NotEmpty(t, tx.OrderID)

		orders, _ := f.store.Orders().List(ctx, entities.OrderFilter{})
		require.Len(t, orders, 1)
		assert.Equal(t, entities.OrderPaymentPaid, orders[0].PaymentStatus)
		assert.Equal(t, txID, orders[0].TransactionID)
		assert.Contains(t, effectsOf(f.store.Outbox().Events(tx.OrderID)), entities.EffectEmailPaymentReceipt)
		assert.Len(t, f.store.Outbox().Events(tx.OrderID), 4)
	})

	t.Run("gateway lookup failure", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.gateway.EXPECT().VerifyWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.gateway.EXPECT().GetPayment(gomock.Any(), "77").Return(entities.GatewayPayment{}, errors.New("503"))
		err := f.uc.HandleWebhook(ctx, WebhookInput{Type: "payment", DataID: "77"})
		assert.ErrorIs(t, err, ErrExternalService)
	})
}

func TestCheckoutUseCase_ProcessPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("amount mismatch", func(t *testing.T) {
		f := newCheckoutFixture(t)
		txID := f.openCheckout(t)
		_, err := f.uc.ProcessPayment(ctx, approved(txID, "1.00"))
		assert.ErrorIs(t, err, ErrAmountMismatch)

		tx, _ := f.store.Transactions().GetByID(ctx, txID)
		assert.Equal(t, entities.PaymentStatusPending, tx.PaymentStatus)
	})

	t.Run("pending then rejected then approved", func(t *testing.T) {
		f := newCheckoutFixture(t)
		txID := f.openCheckout(t)

		tx, err := f.uc.ProcessPayment(ctx, entities.GatewayPayment{ID: "p-1", Status: entities.GatewayPending, ExternalReference: txID})
		require.NoError(t, err)
		assert.Equal(t, entities.TransactionPending, tx.Status)

		tx, err = f.uc.ProcessPayment(ctx, entities.GatewayPayment{ID: "p-1", Status: entities.GatewayRejected, ExternalReference: txID})
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusFailed, tx.PaymentStatus)

		tx, err = f.uc.ProcessPayment(ctx, approved(txID, "30"))
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusPaid, tx.PaymentStatus)
	})

	t.Run("second paid checkout of a quote creates no order", func(t *testing.T) {
		f := newCheckoutFixture(t)
		first := f.openCheckout(t)
		f.gateway.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(entities.CheckoutSession{SessionID: "s2", CheckoutURL: "u2"}, nil)
		res, err := f.uc.CreateCheckout(ctx, CheckoutInput{QuoteID: "quote-1", OriginURL: "https://shop.test"})
		require.NoError(t, err)

		_, err = f.uc.ProcessPayment(ctx, approved(first, "30.00"))
		require.NoError(t, err)
		second := approved(res.TransactionID, "30.00")
		second.ID = "pay-2"
		_, err = f.uc.ProcessPayment(ctx, second)
		assert.ErrorIs(t, err, ErrQuoteAlreadyConverted)

		orders, _ := f.store.Orders().List(ctx, entities.OrderFilter{})
		require.Len(t, orders, 1)
		assert.Equal(t, first, orders[0].TransactionID)
		tx, _ := f.store.Transactions().GetByID(ctx, res.TransactionID)
		assert.Equal(t, entities.PaymentStatusPending, tx.PaymentStatus)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newCheckoutFixture(t)
		_, err := f.uc.ProcessPayment(ctx, approved("nope", "1"))
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestCheckoutUseCase_SyncTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("settles from polling", func(t *testing.T) {
		f := newCheckoutFixture(t)
		txID := f.openCheckout(t)
		f.gateway.EXPECT().FindPaymentByReference(gomock.Any(), txID).Return(approved(txID, "30"), true, nil)

		tx, err := f.uc.SyncTransaction(ctx, txID)
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusPaid, tx.PaymentStatus)

		// already paid: no gateway call
		tx, err = f.uc.SyncTransaction(ctx, txID)
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusPaid, tx.PaymentStatus)
	})

	t.Run("gateway failure keeps state", func(t *testing.T) {
		f := newCheckoutFixture(t)
		txID := f.openCheckout(t)
		f.gateway.EXPECT().FindPaymentByReference(gomock.Any(), txID).Return(entities.GatewayPayment{}, false, errors.New("down"))

		tx, err := f.uc.SyncTransaction(ctx, txID)
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusPending, tx.PaymentStatus)
	})

	t.Run("nothing found", func(t *testing.T) {
		f := newCheckoutFixture(t)
		txID := f.openCheckout(t)
		f.gateway.EXPECT().FindPaymentByReference(gomock.Any(), txID).Return(entities.GatewayPayment{}, false, nil)

		tx, err := f.uc.SyncTransaction(ctx, txID)
		require.NoError(t, err)
		assert.Equal(t, entities.TransactionInitiated, tx.Status)
	})
}

func TestCheckoutUseCase_ExpireStale(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	txID := f.openCheckout(t)

	n, err := f.uc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.uc.now = clock(fixedNow.Add(25 * time.Hour))
	n, err = f.uc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	tx, _ := f.store.Transactions().GetByID(ctx, txID)
	assert.Equal(t, entities.TransactionExpired, tx.Status)
	assert.Equal(t, entities.PaymentStatusExpired, tx.PaymentStatus)

	n, _ = f.uc.ExpireStale(ctx)
	assert.Equal(t, 0, n)
}
