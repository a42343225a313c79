package interfaces

import (
	"context"

	"legacy_portal/internal/domain/entities"
)

// IPaymentGateway abstracts the hosted checkout provider (Mercado Pago).
//
// The transaction id travels as external_reference, so both the webhook and
// the polling fallback can resolve a payment back to its transaction.
type IPaymentGateway interface {
	CreateCheckout(ctx context.Context, req entities.CheckoutRequest) (entities.CheckoutSession, error)
	GetPayment(ctx context.Context, paymentID string) (entities.GatewayPayment, error)
	FindPaymentByReference(ctx context.Context, externalReference string) (entities.GatewayPayment, bool, error)
	VerifyWebhook(signature, requestID, dataID string) error
}
