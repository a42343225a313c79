package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/pricing"
	"legacy_portal/internal/usecase/interfaces"
	"legacy_portal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateQuoteInput struct {
	Reference     string
	ServiceType   string
	TranslateFrom string
	TranslateTo   string
	WordCount     int
	Urgency       string
	DiscountCode  string
	CustomerEmail string
	CustomerName  string
	PartnerID     string
	PhysicalCopy  bool
}

// IQuoteUseCase prices and stores quotes.
//
// A discount code on a quote is only previewed; it is redeemed when the quote
// goes to checkout.
type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, in CreateQuoteInput) (entities.Quote, error)
	GetQuote(ctx context.Context, id string) (entities.Quote, error)
}

type QuoteUseCase struct {
	repo            interfaces.IQuoteRepository
	coupons         ICouponUseCase
	physicalCopyFee decimal.Decimal
	now             func() time.Time
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository, coupons ICouponUseCase, physicalCopyFee decimal.Decimal) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, coupons: coupons, physicalCopyFee: physicalCopyFee, now: utcNow}
}

var urgencies = []string{string(entities.UrgencyNo), string(entities.UrgencyPriority), string(entities.UrgencyUrgent)}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, in CreateQuoteInput) (entities.Quote, error) {
	in.Reference = strings.TrimSpace(in.Reference)
	in.ServiceType = strings.ToLower(strings.TrimSpace(in.ServiceType))
	in.Urgency = strings.ToLower(strings.TrimSpace(in.Urgency))
	if in.Urgency == "" {
		in.Urgency = string(entities.UrgencyNo)
	}
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))

	v := validation.Violations{}
	validation.Required("reference", in.Reference, v)
	validation.Required("service_type", in.ServiceType, v)
	validation.Language("translate_from", in.TranslateFrom, v)
	validation.Language("translate_to", in.TranslateTo, v)
	validation.NonNegativeInt("word_count", in.WordCount, v)
	validation.OneOf("urgency", in.Urgency, urgencies, v)
	validation.Email("customer_email", in.CustomerEmail, v)
	if err := newValidationError(v); err != nil {
		return entities.Quote{}, err
	}
	// Unknown tiers get their own error code instead of a generic violation.
	if !pricing.IsSupported(entities.ServiceType(in.ServiceType)) {
		log.Printf("[quote][usecase] rejected service_type=%q", in.ServiceType)
		return entities.Quote{}, ErrInvalidServiceType
	}

	shipping := decimal.Zero
	if in.PhysicalCopy {
		shipping = u.physicalCopyFee
	}
	priceIn := pricing.Input{
		ServiceType: entities.ServiceType(in.ServiceType),
		WordCount:   in.WordCount,
		Urgency:     entities.Urgency(in.Urgency),
		ShippingFee: shipping,
	}
	breakdown, err := pricing.Calculate(priceIn)
	if err != nil {
		return entities.Quote{}, err
	}

	code := NormalizeCouponCode(in.DiscountCode)
	if code != "" {
		preview, err := u.coupons.Preview(ctx, CouponInput{
			Code:          code,
			Subtotal:      breakdown.Subtotal(),
			PartnerID:     in.PartnerID,
			CustomerEmail: in.CustomerEmail,
		})
		if err != nil {
			log.Printf("[quote][usecase] coupon preview failed code=%s err=%v", code, err)
			return entities.Quote{}, err
		}
		priceIn.Discount = &pricing.Discount{Type: preview.Coupon.DiscountType, Value: preview.Coupon.DiscountValue}
		if breakdown, err = pricing.Calculate(priceIn); err != nil {
			return entities.Quote{}, err
		}
	}

	q := entities.Quote{
		ID:             uuid.NewString(),
		Reference:      in.Reference,
		ServiceType:    priceIn.ServiceType,
		TranslateFrom:  strings.TrimSpace(in.TranslateFrom),
		TranslateTo:    strings.TrimSpace(in.TranslateTo),
		WordCount:      in.WordCount,
		Pages:          breakdown.Pages,
		Urgency:        priceIn.Urgency,
		PhysicalCopy:   in.PhysicalCopy,
		BasePrice:      breakdown.BasePrice,
		UrgencyFee:     breakdown.UrgencyFee,
		ShippingFee:    breakdown.ShippingFee,
		DiscountAmount: breakdown.DiscountAmount,
		DiscountCode:   code,
		TotalPrice:     breakdown.TotalPrice,
		CustomerEmail:  in.CustomerEmail,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		PartnerID:      strings.TrimSpace(in.PartnerID),
		CreatedAt:      u.now(),
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		return entities.Quote{}, fmt.Errorf("store quote: %w", err)
	}
	log.Printf("[quote][usecase] created quote_id=%s service_type=%s pages=%d total=%s", created.ID, created.ServiceType, created.Pages, created.TotalPrice.StringFixed(2))
	return created, nil
}

func (u *QuoteUseCase) GetQuote(ctx context.Context, id string) (entities.Quote, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}
