package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/infrastructure/retry"
	"legacy_portal/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/mercadopago/sdk-go/pkg/requester"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingMercadoPagoAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
	ErrMissingWebhookSecret            = errors.New("missing MERCADOPAGO_WEBHOOK_SECRET")
	ErrInvalidSignature                = errors.New("invalid webhook signature")
)

type Options struct {
	AccessToken     string
	WebhookSecret   string
	NotificationURL string
	Mock            bool
	Retry           retry.Policy

	// HTTPClient replaces the SDK's default requester when set.
	HTTPClient requester.Requester
}

// MercadoPagoGateway opens hosted checkouts (preferences) and reads payments.
//
// In mock mode no call leaves the process: checkouts point straight at the
// success URL and every known transaction reads back as approved.
type MercadoPagoGateway struct {
	preferences     preference.Client
	payments        payment.Client
	webhookSecret   string
	notificationURL string
	caller          *retry.Caller

	mockMode bool
	mu       sync.Mutex
	mocked   map[string]decimal.Decimal
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(opts Options) (*MercadoPagoGateway, error) {
	if opts.Mock {
		log.Printf("[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{
			mockMode:      true,
			webhookSecret: opts.WebhookSecret,
			mocked:        map[string]decimal.Decimal{},
		}, nil
	}

	if opts.AccessToken == "" {
		log.Printf("[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	var cfgOpts []config.Option
	if opts.HTTPClient != nil {
		cfgOpts = append(cfgOpts, config.WithHTTPClient(opts.HTTPClient))
	}
	cfg, err := config.New(opts.AccessToken, cfgOpts...)
	if err != nil {
		log.Printf("[payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		webhookSecret:   opts.WebhookSecret,
		notificationURL: opts.NotificationURL,
		caller:          retry.New("mercadopago", opts.Retry),
	}, nil
}

func (g *MercadoPagoGateway) CreateCheckout(ctx context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error) {
	if g != nil && g.mockMode {
		g.mu.Lock()
		g.mocked[req.TransactionID] = req.Amount
		g.mu.Unlock()
		log.Printf("[payment][gateway] mock checkout transaction_id=%s amount=%s", req.TransactionID, req.Amount.StringFixed(2))
		return entities.CheckoutSession{
			SessionID:   "mock-pref-" + req.TransactionID,
			CheckoutURL: req.SuccessURL,
		}, nil
	}
	if g == nil || g.preferences == nil {
		log.Printf("[payment][gateway] gateway not configured")
		return entities.CheckoutSession{}, ErrMercadoPagoGatewayNotConfigured
	}
	log.Printf("[payment][gateway] create preference start transaction_id=%s", req.TransactionID)

	in := preference.Request{
		Items: []preference.ItemRequest{{
			ID:          req.TransactionID,
			Title:       req.Title,
			Description: req.Description,
			CurrencyID:  req.Currency,
			Quantity:    1,
			UnitPrice:   req.Amount.InexactFloat64(),
		}},
		Payer: &preference.PayerRequest{
			Name:  req.PayerName,
			Email: req.PayerEmail,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Pending: req.PendingURL,
			Failure: req.FailureURL,
		},
		AutoReturn:        "approved",
		ExternalReference: req.TransactionID,
		NotificationURL:   g.notificationURL,
	}

	resp, err := retry.Do(ctx, g.caller, func(ctx context.Context) (*preference.Response, error) {
		r, err := g.preferences.Create(ctx, in)
		return r, sdkError("create preference", err)
	})
	if err != nil {
		log.Printf("[payment][gateway] sdk preference create failed err=%v", err)
		return entities.CheckoutSession{}, err
	}
	log.Printf("[payment][gateway] create preference success preference_id=%s", resp.ID)

	return entities.CheckoutSession{SessionID: resp.ID, CheckoutURL: resp.InitPoint}, nil
}

func (g *MercadoPagoGateway) GetPayment(ctx context.Context, paymentID string) (entities.GatewayPayment, error) {
	if g != nil && g.mockMode {
		txID := strings.TrimPrefix(paymentID, "mock-")
		p, ok := g.mockPayment(txID)
		if !ok {
			return entities.GatewayPayment{}, fmt.Errorf("mock payment %s not found", paymentID)
		}
		return p, nil
	}
	if g == nil || g.payments == nil {
		return entities.GatewayPayment{}, ErrMercadoPagoGatewayNotConfigured
	}

	id, err := strconv.Atoi(strings.TrimSpace(paymentID))
	if err != nil {
		return entities.GatewayPayment{}, fmt.Errorf("invalid payment id %q: %w", paymentID, err)
	}
	resp, err := retry.Do(ctx, g.caller, func(ctx context.Context) (*payment.Response, error) {
		r, err := g.payments.Get(ctx, id)
		return r, sdkError("get payment", err)
	})
	if err != nil {
		log.Printf("[payment][gateway] sdk get failed payment_id=%d err=%v", id, err)
		return entities.GatewayPayment{}, err
	}
	return fromPaymentResponse(*resp), nil
}

// sdkError turns an API answer from the SDK into a retry.StatusError so a
// rejected request is not retried like a throttled or failing one.
func sdkError(op string, err error) error {
	var re *mperror.ResponseError
	if errors.As(err, &re) {
		return &retry.StatusError{Op: op, StatusCode: re.StatusCode, Body: re.Message}
	}
	return err
}

// FindPaymentByReference returns the most relevant payment for a transaction:
// an approved one if any, otherwise the latest reported.
func (g *MercadoPagoGateway) FindPaymentByReference(ctx context.Context, externalReference string) (entities.GatewayPayment, bool, error) {
	if g != nil && g.mockMode {
		p, ok := g.mockPayment(externalReference)
		return p, ok, nil
	}
	if g == nil || g.payments == nil {
		return entities.GatewayPayment{}, false, ErrMercadoPagoGatewayNotConfigured
	}

	resp, err := retry.Do(ctx, g.caller, func(ctx context.Context) (*payment.SearchResponse, error) {
		r, err := g.payments.Search(ctx, payment.SearchRequest{
			Filters: map[string]string{
				"external_reference": externalReference,
				"sort":               "date_created",
				"criteria":           "desc",
			},
		})
		return r, sdkError("search payments", err)
	})
	if err != nil {
		log.Printf("[payment][gateway] sdk search failed reference=%s err=%v", externalReference, err)
		return entities.GatewayPayment{}, false, err
	}
	if len(resp.Results) == 0 {
		return entities.GatewayPayment{}, false, nil
	}
	for _, r := range resp.Results {
		if entities.GatewayPaymentStatus(r.Status) == entities.GatewayApproved {
			return fromPaymentResponse(r), true, nil
		}
	}
	return fromPaymentResponse(resp.Results[0]), true, nil
}

// VerifyWebhook checks the x-signature header ("ts=...,v1=...") against an
// HMAC-SHA256 of the notification manifest.
func (g *MercadoPagoGateway) VerifyWebhook(signature, requestID, dataID string) error {
	if g == nil {
		return ErrMercadoPagoGatewayNotConfigured
	}
	if g.webhookSecret == "" {
		if g.mockMode {
			return nil
		}
		return ErrMissingWebhookSecret
	}

	var ts, v1 string
	for _, part := range strings.Split(signature, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			v1 = v
		}
	}
	if ts == "" || v1 == "" {
		return ErrInvalidSignature
	}

	expected := Sign(g.webhookSecret, dataID, requestID, ts)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(v1))) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the v1 value Mercado Pago sends for a notification.
func Sign(secret, dataID, requestID, ts string) string {
	var manifest strings.Builder
	if dataID != "" {
		manifest.WriteString("id:" + strings.ToLower(dataID) + ";")
	}
	if requestID != "" {
		manifest.WriteString("request-id:" + requestID + ";")
	}
	manifest.WriteString("ts:" + ts + ";")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *MercadoPagoGateway) mockPayment(txID string) (entities.GatewayPayment, bool) {
	g.mu.Lock()
	amount, ok := g.mocked[txID]
	g.mu.Unlock()
	if !ok {
		return entities.GatewayPayment{}, false
	}
	return entities.GatewayPayment{
		ID:                "mock-" + txID,
		Status:            entities.GatewayApproved,
		StatusDetail:      "accredited",
		ExternalReference: txID,
		Amount:            amount,
	}, true
}

func fromPaymentResponse(r payment.Response) entities.GatewayPayment {
	return entities.GatewayPayment{
		ID:                strconv.Itoa(r.ID),
		Status:            normalizeStatus(r.Status),
		StatusDetail:      r.StatusDetail,
		ExternalReference: r.ExternalReference,
		Amount:            decimal.NewFromFloat(r.TransactionAmount).Round(2),
	}
}

// normalizeStatus folds Mercado Pago's payment statuses into the three the
// checkout flow acts on.
func normalizeStatus(s string) entities.GatewayPaymentStatus {
	switch s {
	case "approved":
		return entities.GatewayApproved
	case "pending", "in_process", "authorized":
		return entities.GatewayPending
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.GatewayRejected
	default:
		return entities.GatewayPaymentStatus(s)
	}
}
