package payments

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/infrastructure/retry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhook(t *testing.T) {
	g := &MercadoPagoGateway{webhookSecret: "s3cret"}
	v1 := Sign("s3cret", "123456", "req-1", "1704908010")

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, g.VerifyWebhook("ts=1704908010,v1="+v1, "req-1", "123456"))
	})

	t.Run("tolerates spacing", func(t *testing.T) {
		assert.NoError(t, g.VerifyWebhook("ts=1704908010, v1="+v1, "req-1", "123456"))
	})

	t.Run("tampered data id", func(t *testing.T) {
		assert.ErrorIs(t, g.VerifyWebhook("ts=1704908010,v1="+v1, "req-1", "999"), ErrInvalidSignature)
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.ErrorIs(t, g.VerifyWebhook("garbage", "req-1", "123456"), ErrInvalidSignature)
		assert.ErrorIs(t, g.VerifyWebhook("", "req-1", "123456"), ErrInvalidSignature)
	})

	t.Run("missing secret outside mock mode", func(t *testing.T) {
		assert.ErrorIs(t, (&MercadoPagoGateway{}).VerifyWebhook("ts=1,v1=x", "", "1"), ErrMissingWebhookSecret)
	})
}

func TestMockMode(t *testing.T) {
	g, err := NewMercadoPagoGateway(Options{Mock: true})
	require.NoError(t, err)
	ctx := context.Background()

	session, err := g.CreateCheckout(ctx, entities.CheckoutRequest{
		TransactionID: "tx-1",
		Amount:        decimal.RequireFromString("28.12"),
		SuccessURL:    "https://shop.example.com/checkout/success?transaction_id=tx-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/checkout/success?transaction_id=tx-1", session.CheckoutURL)

	p, found, err := g.FindPaymentByReference(ctx, "tx-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entities.GatewayApproved, p.Status)
	assert.Equal(t, "tx-1", p.ExternalReference)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("28.12")))

	byID, err := g.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, byID)

	_, found, err = g.FindPaymentByReference(ctx, "tx-unknown")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, g.VerifyWebhook("", "", "whatever"))
}

// stubRequester answers every SDK request with the same status.
type stubRequester struct {
	status int
	calls  int32
}

func (r *stubRequester) Do(*http.Request) (*http.Response, error) {
	atomic.AddInt32(&r.calls, 1)
	return &http.Response{
		StatusCode: r.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"message":"`+http.StatusText(r.status)+`"}`)),
	}, nil
}

func newStubGateway(t *testing.T, status int) (*MercadoPagoGateway, *stubRequester) {
	t.Helper()
	stub := &stubRequester{status: status}
	g, err := NewMercadoPagoGateway(Options{
		AccessToken: "TEST-token",
		HTTPClient:  stub,
		Retry: retry.Policy{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
			BreakerFailures: 100,
			BreakerTimeout:  time.Minute,
		},
	})
	require.NoError(t, err)
	return g, stub
}

func TestGateway_RejectedRequestsAreNotRetried(t *testing.T) {
	ctx := context.Background()

	t.Run("bad request is final", func(t *testing.T) {
		g, stub := newStubGateway(t, http.StatusBadRequest)
		_, err := g.CreateCheckout(ctx, entities.CheckoutRequest{TransactionID: "tx-1", Amount: decimal.NewFromInt(10)})
		var se *retry.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadRequest, se.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&stub.calls))
	})

	t.Run("unknown payment is final", func(t *testing.T) {
		g, stub := newStubGateway(t, http.StatusNotFound)
		_, err := g.GetPayment(ctx, "123")
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&stub.calls))
	})

	t.Run("server errors are retried", func(t *testing.T) {
		g, stub := newStubGateway(t, http.StatusServiceUnavailable)
		_, _, err := g.FindPaymentByReference(ctx, "tx-1")
		require.Error(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&stub.calls))
	})
}

func TestNewGateway_RequiresToken(t *testing.T) {
	_, err := NewMercadoPagoGateway(Options{})
	assert.ErrorIs(t, err, ErrMissingMercadoPagoAccessToken)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, entities.GatewayPending, normalizeStatus("in_process"))
	assert.Equal(t, entities.GatewayRejected, normalizeStatus("cancelled"))
	assert.Equal(t, entities.GatewayApproved, normalizeStatus("approved"))
}
