package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/orderflow"
	"legacy_portal/internal/domain/pricing"
	"legacy_portal/pkg/validation"
)

var (
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrCouponNotFound        = errors.New("coupon not found")
	ErrCouponAlreadyExists   = errors.New("coupon already exists")
	ErrTransactionNotFound   = errors.New("payment transaction not found")
	ErrCertificationNotFound = errors.New("certification not found")
	ErrCertificationRevoked  = errors.New("certification already revoked")
	ErrOrderNotDelivered     = errors.New("order not delivered")
	ErrConcurrentUpdate      = errors.New("concurrent update")
	ErrExternalService       = errors.New("external service error")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrAmountMismatch        = errors.New("paid amount does not match transaction")
	ErrQuoteAlreadyConverted = errors.New("quote already converted to an order")

	ErrInvalidTransition  = orderflow.ErrInvalidTransition
	ErrTokenAlreadyUsed   = orderflow.ErrTokenAlreadyUsed
	ErrInvalidToken       = orderflow.ErrInvalidToken
	ErrInvalidServiceType = pricing.ErrInvalidServiceType
)

// ValidationError carries field level violations of a request.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f, rule := range e.Violations {
		fields = append(fields, f+"="+rule)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func newValidationError(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// CouponRejectedError is returned when a coupon does not apply. Reason is
// the first check that failed.
type CouponRejectedError struct {
	Code   string
	Reason entities.RejectionReason
}

func (e *CouponRejectedError) Error() string {
	return fmt.Sprintf("coupon %s rejected: %s", e.Code, e.Reason)
}

func externalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrExternalService, op, err)
}
