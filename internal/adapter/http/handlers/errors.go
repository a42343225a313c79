package handlers

import (
	"errors"
	"legacy_portal/internal/usecase"
	"legacy_portal/pkg"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request payload", http.StatusBadRequest)
)

// mapUseCaseError turns a use case error into the response every handler
// writes. Unknown errors are logged by NewDomainError and answered as 500.
func mapUseCaseError(err error) *pkg.AppError {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Request validation failed", http.StatusBadRequest).WithDetails(verr.Violations)
	}
	var rej *usecase.CouponRejectedError
	if errors.As(err, &rej) {
		return pkg.NewDomainErrorSimple("COUPON_REJECTED", "Coupon cannot be applied", http.StatusUnprocessableEntity).
			WithDetails(map[string]string{"code": rej.Code, "reason": string(rej.Reason)})
	}

	switch {
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCouponNotFound):
		return pkg.NewDomainErrorSimple("COUPON_NOT_FOUND", "Coupon not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrTransactionNotFound):
		return pkg.NewDomainErrorSimple("TRANSACTION_NOT_FOUND", "Payment transaction not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCertificationNotFound):
		return pkg.NewDomainErrorSimple("CERTIFICATION_NOT_FOUND", "Certification not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidToken):
		return pkg.NewDomainErrorSimple("INVALID_TOKEN", "Assignment link is not valid", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCouponAlreadyExists):
		return pkg.NewDomainErrorSimple("COUPON_ALREADY_EXISTS", "Coupon code already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Status change not allowed", http.StatusConflict)
	case errors.Is(err, usecase.ErrTokenAlreadyUsed):
		return pkg.NewDomainErrorSimple("TOKEN_ALREADY_USED", "Assignment link was already used", http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrentUpdate):
		return pkg.NewDomainErrorSimple("CONCURRENT_UPDATE", "Order was modified concurrently, retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrQuoteAlreadyConverted):
		return pkg.NewDomainErrorSimple("QUOTE_ALREADY_CONVERTED", "Quote already has an order", http.StatusConflict)
	case errors.Is(err, usecase.ErrCertificationRevoked):
		return pkg.NewDomainErrorSimple("CERTIFICATION_REVOKED", "Certification already revoked", http.StatusConflict)
	case errors.Is(err, usecase.ErrInvalidServiceType):
		return pkg.NewDomainErrorSimple("INVALID_SERVICE_TYPE", "Unknown service type", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrOrderNotDelivered):
		return pkg.NewDomainErrorSimple("ORDER_NOT_DELIVERED", "Order has not been delivered", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrAmountMismatch):
		return pkg.NewDomainErrorSimple("AMOUNT_MISMATCH", "Paid amount does not match", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrInvalidSignature):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid webhook signature", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrExternalService):
		return pkg.NewDomainError("EXTERNAL_SERVICE_ERROR", "Upstream service unavailable", err, http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func writeError(c *gin.Context, err error) {
	appErr := mapUseCaseError(err)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func writeAppError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
