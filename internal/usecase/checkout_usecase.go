package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/orderflow"
	"legacy_portal/internal/usecase/interfaces"
	"legacy_portal/pkg/validation"

	"github.com/google/uuid"
)

type CheckoutInput struct {
	QuoteID       string
	OriginURL     string
	CustomerEmail string
	CustomerName  string
}

type CheckoutResult struct {
	CheckoutURL   string
	SessionID     string
	TransactionID string
}

// WebhookInput is a gateway notification as received over HTTP.
type WebhookInput struct {
	Signature string
	RequestID string
	Type      string
	DataID    string
}

// ICheckoutUseCase opens hosted checkouts and settles them.
//
// Settlement is idempotent: however many times a payment is reported, the
// transaction is completed and the order created exactly once. A quote that
// already has an order cannot be checked out again, and its coupon use is
// taken once however many checkouts are opened for it.
type ICheckoutUseCase interface {
	CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error)
	HandleWebhook(ctx context.Context, in WebhookInput) error
	ProcessPayment(ctx context.Context, p entities.GatewayPayment) (entities.PaymentTransaction, error)
	SyncTransaction(ctx context.Context, id string) (entities.PaymentTransaction, error)
	ExpireStale(ctx context.Context) (int, error)
}

type CheckoutUseCase struct {
	transactions interfaces.IPaymentTransactionRepository
	quotes       interfaces.IQuoteRepository
	orders       interfaces.IOrderRepository
	coupons      ICouponUseCase
	gateway      interfaces.IPaymentGateway
	currency     string
	ttl          time.Duration
	now          func() time.Time
}

var _ ICheckoutUseCase = (*CheckoutUseCase)(nil)

func NewCheckoutUseCase(
	transactions interfaces.IPaymentTransactionRepository,
	quotes interfaces.IQuoteRepository,
	orders interfaces.IOrderRepository,
	coupons ICouponUseCase,
	gateway interfaces.IPaymentGateway,
	currency string,
	ttl time.Duration,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		transactions: transactions,
		quotes:       quotes,
		orders:       orders,
		coupons:      coupons,
		gateway:      gateway,
		currency:     currency,
		ttl:          ttl,
		now:          utcNow,
	}
}

func (u *CheckoutUseCase) CreateCheckout(ctx context.Context, in CheckoutInput) (CheckoutResult, error) {
	in.QuoteID = strings.TrimSpace(in.QuoteID)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	log.Printf("[checkout][usecase] create start quote_id=%s", in.QuoteID)

	v := validation.Violations{}
	validation.Required("quote_id", in.QuoteID, v)
	validation.Email("customer_email", in.CustomerEmail, v)
	origin, err := url.ParseRequestURI(strings.TrimSpace(in.OriginURL))
	if err != nil || (origin.Scheme != "http" && origin.Scheme != "https") || origin.Host == "" {
		v["origin_url"] = "invalid_url"
	}
	if err := newValidationError(v); err != nil {
		return CheckoutResult{}, err
	}
	if u.gateway == nil {
		return CheckoutResult{}, externalError("checkout", errors.New("payment gateway not configured"))
	}

	q, err := u.quotes.GetByID(ctx, in.QuoteID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if q.ID == "" {
		return CheckoutResult{}, ErrQuoteNotFound
	}
	existing, err := u.orders.GetByID(ctx, orderIDForQuote(q.ID))
	if err != nil {
		return CheckoutResult{}, err
	}
	if existing.ID != "" {
		log.Printf("[checkout][usecase] quote already converted quote_id=%s order_id=%s", q.ID, existing.ID)
		return CheckoutResult{}, ErrQuoteAlreadyConverted
	}

	email := in.CustomerEmail
	if email == "" {
		email = q.CustomerEmail
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = q.CustomerName
	}

	txID := uuid.NewString()
	base := strings.TrimRight(origin.String(), "/")
	session, err := u.gateway.CreateCheckout(ctx, entities.CheckoutRequest{
		TransactionID: txID,
		Title:         fmt.Sprintf("Translation %s", q.Reference),
		Description:   fmt.Sprintf("%s %s->%s, %d words, %s", q.ServiceType, q.TranslateFrom, q.TranslateTo, q.WordCount, q.Urgency),
		Amount:        q.TotalPrice,
		Currency:      u.currency,
		PayerEmail:    email,
		PayerName:     name,
		SuccessURL:    base + "/checkout/success?transaction_id=" + txID,
		PendingURL:    base + "/checkout/pending?transaction_id=" + txID,
		FailureURL:    base + "/checkout/failure?transaction_id=" + txID,
	})
	if err != nil {
		log.Printf("[checkout][usecase] gateway create failed quote_id=%s err=%v", q.ID, err)
		return CheckoutResult{}, externalError("create checkout", err)
	}

	// The coupon is redeemed only once a checkout exists to pay for it.
	var coupon CouponResult
	if q.DiscountCode != "" {
		coupon, err = u.coupons.Apply(ctx, CouponInput{
			Code:          q.DiscountCode,
			Subtotal:      q.Subtotal(),
			PartnerID:     q.PartnerID,
			CustomerEmail: email,
			QuoteID:       q.ID,
		})
		if err != nil {
			log.Printf("[checkout][usecase] coupon redeem failed quote_id=%s code=%s err=%v", q.ID, q.DiscountCode, err)
			return CheckoutResult{}, err
		}
	}

	now := u.now()
	tx := entities.PaymentTransaction{
		ID:            txID,
		QuoteID:       q.ID,
		SessionID:     session.SessionID,
		CheckoutURL:   session.CheckoutURL,
		Amount:        q.TotalPrice,
		Currency:      u.currency,
		CustomerEmail: email,
		CustomerName:  name,
		DiscountCode:  q.DiscountCode,
		PaymentStatus: entities.PaymentStatusPending,
		Status:        entities.TransactionInitiated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := u.transactions.Create(ctx, tx); err != nil {
		log.Printf("[checkout][usecase] transaction store failed transaction_id=%s err=%v", txID, err)
		if coupon.Redeemed {
			if relErr := u.coupons.Release(ctx, q.DiscountCode, q.ID); relErr != nil {
				log.Printf("[checkout][usecase] coupon release failed quote_id=%s code=%s err=%v", q.ID, q.DiscountCode, relErr)
			}
		}
		return CheckoutResult{}, err
	}
	log.Printf("[checkout][usecase] create success transaction_id=%s session_id=%s amount=%s", txID, session.SessionID, q.TotalPrice.StringFixed(2))

	return CheckoutResult{CheckoutURL: session.CheckoutURL, SessionID: session.SessionID, TransactionID: txID}, nil
}

func (u *CheckoutUseCase) HandleWebhook(ctx context.Context, in WebhookInput) error {
	if u.gateway == nil {
		return externalError("webhook", errors.New("payment gateway not configured"))
	}
	if err := u.gateway.VerifyWebhook(in.Signature, in.RequestID, in.DataID); err != nil {
		log.Printf("[checkout][webhook] signature rejected request_id=%s err=%v", in.RequestID, err)
		return ErrInvalidSignature
	}
	if in.Type != "payment" {
		log.Printf("[checkout][webhook] ignoring topic=%q data_id=%s", in.Type, in.DataID)
		return nil
	}
	if strings.TrimSpace(in.DataID) == "" {
		return newValidationError(validation.Violations{"data.id": "required"})
	}

	p, err := u.gateway.GetPayment(ctx, in.DataID)
	if err != nil {
		log.Printf("[checkout][webhook] payment lookup failed payment_id=%s err=%v", in.DataID, err)
		return externalError("get payment", err)
	}
	_, err = u.ProcessPayment(ctx, p)
	return err
}

func (u *CheckoutUseCase) ProcessPayment(ctx context.Context, p entities.GatewayPayment) (entities.PaymentTransaction, error) {
	txID := strings.TrimSpace(p.ExternalReference)
	log.Printf("[checkout][usecase] process payment payment_id=%s transaction_id=%s status=%s", p.ID, txID, p.Status)

	tx, err := u.getTransaction(ctx, txID)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if tx.PaymentStatus == entities.PaymentStatusPaid {
		log.Printf("[checkout][usecase] already paid transaction_id=%s", tx.ID)
		return tx, nil
	}

	now := u.now()
	switch p.Status {
	case entities.GatewayApproved:
		if !p.Amount.IsZero() && !p.Amount.Equal(tx.Amount) {
			log.Printf("[checkout][usecase] amount mismatch transaction_id=%s expected=%s got=%s", tx.ID, tx.Amount, p.Amount)
			return entities.PaymentTransaction{}, ErrAmountMismatch
		}
		return u.complete(ctx, tx, p, now)
	case entities.GatewayPending:
		err = u.transactions.MarkPending(ctx, tx.ID, p.ID, now)
	case entities.GatewayRejected:
		err = u.transactions.MarkFailed(ctx, tx.ID, p.ID, now)
	default:
		log.Printf("[checkout][usecase] unhandled gateway status=%s transaction_id=%s", p.Status, tx.ID)
		return tx, nil
	}
	if err != nil && !errors.Is(err, interfaces.ErrConditionFailed) {
		return entities.PaymentTransaction{}, err
	}
	return u.getTransaction(ctx, tx.ID)
}

// complete creates the order and marks the transaction paid in one write.
// Losing the write means another delivery already did it, unless the
// transaction is still unpaid: then the quote was converted by another
// checkout or an invoice and this payment has no order to settle.
func (u *CheckoutUseCase) complete(ctx context.Context, tx entities.PaymentTransaction, p entities.GatewayPayment, now time.Time) (entities.PaymentTransaction, error) {
	q, err := u.quotes.GetByID(ctx, tx.QuoteID)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if q.ID == "" {
		return entities.PaymentTransaction{}, ErrQuoteNotFound
	}

	o := orderFromQuote(q, tx.CustomerEmail, tx.CustomerName, now)
	o.TransactionID = tx.ID
	effects := orderflow.NewOrder(&o, now)
	paid, err := orderflow.MarkPaid(&o, now)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	effects = append(effects, paid...)

	paidAt := now
	tx.PaymentStatus = entities.PaymentStatusPaid
	tx.Status = entities.TransactionCompleted
	tx.GatewayPaymentID = p.ID
	tx.OrderID = o.ID
	tx.PaidAt = &paidAt
	tx.UpdatedAt = now

	err = u.transactions.Complete(ctx, tx, o, outboxEvents(o.ID, effects, now))
	if errors.Is(err, interfaces.ErrConditionFailed) {
		current, getErr := u.getTransaction(ctx, tx.ID)
		if getErr != nil {
			return entities.PaymentTransaction{}, getErr
		}
		if current.PaymentStatus != entities.PaymentStatusPaid {
			log.Printf("[checkout][usecase] payment for converted quote transaction_id=%s quote_id=%s payment_id=%s", tx.ID, q.ID, p.ID)
			return entities.PaymentTransaction{}, ErrQuoteAlreadyConverted
		}
		log.Printf("[checkout][usecase] duplicate settlement ignored transaction_id=%s payment_id=%s", tx.ID, p.ID)
		return current, nil
	}
	if err != nil {
		log.Printf("[checkout][usecase] complete failed transaction_id=%s err=%v", tx.ID, err)
		return entities.PaymentTransaction{}, err
	}
	log.Printf("[checkout][usecase] paid transaction_id=%s order_id=%s payment_id=%s", tx.ID, o.ID, p.ID)
	return tx, nil
}

// SyncTransaction polls the gateway for a transaction still waiting on
// payment. A failing gateway leaves the stored state as it is.
func (u *CheckoutUseCase) SyncTransaction(ctx context.Context, id string) (entities.PaymentTransaction, error) {
	tx, err := u.getTransaction(ctx, strings.TrimSpace(id))
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if tx.PaymentStatus != entities.PaymentStatusPending || u.gateway == nil {
		return tx, nil
	}

	p, found, err := u.gateway.FindPaymentByReference(ctx, tx.ID)
	if err != nil {
		log.Printf("[checkout][usecase] sync lookup failed transaction_id=%s err=%v", tx.ID, err)
		return tx, nil
	}
	if !found {
		return tx, nil
	}
	return u.ProcessPayment(ctx, p)
}

// ExpireStale closes checkouts that were never paid within the TTL.
func (u *CheckoutUseCase) ExpireStale(ctx context.Context) (int, error) {
	now := u.now()
	open, err := u.transactions.ListOpenCreatedBefore(ctx, now.Add(-u.ttl))
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, tx := range open {
		err := u.transactions.MarkExpired(ctx, tx.ID, now)
		if errors.Is(err, interfaces.ErrConditionFailed) {
			continue
		}
		if err != nil {
			log.Printf("[checkout][usecase] expire failed transaction_id=%s err=%v", tx.ID, err)
			continue
		}
		expired++
	}
	if expired > 0 {
		log.Printf("[checkout][usecase] expired stale checkouts count=%d", expired)
	}
	return expired, nil
}

func (u *CheckoutUseCase) getTransaction(ctx context.Context, id string) (entities.PaymentTransaction, error) {
	if id == "" {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	tx, err := u.transactions.GetByID(ctx, id)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if tx.ID == "" {
		return entities.PaymentTransaction{}, ErrTransactionNotFound
	}
	return tx, nil
}
