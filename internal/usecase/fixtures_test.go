package usecase

import (
	"context"
	"testing"
	"time"

	"legacy_portal/internal/adapter/persistence/memory"
	"legacy_portal/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time { return func() time.Time { return t } }

func seedCoupon(t *testing.T, s *memory.Store, c entities.Coupon) entities.Coupon {
	t.Helper()
	if c.DiscountType == "" {
		c.DiscountType = entities.DiscountTypePercentage
	}
	if c.DiscountValue.IsZero() {
		c.DiscountValue = decimal.NewFromInt(10)
	}
	if c.MaxUses == 0 {
		c.MaxUses = 10
	}
	if c.ValidFrom.IsZero() {
		c.ValidFrom = fixedNow.Add(-24 * time.Hour)
	}
	created, err := s.Coupons().Create(context.Background(), c)
	if err != nil {
		t.Fatalf("seed coupon: %v", err)
	}
	return created
}

func seedQuote(t *testing.T, s *memory.Store, q entities.Quote) entities.Quote {
	t.Helper()
	if q.ID == "" {
		q.ID = "quote-1"
	}
	if q.Reference == "" {
		q.Reference = "REF-1"
	}
	if q.ServiceType == "" {
		q.ServiceType = entities.ServiceTypeStandard
	}
	if q.Urgency == "" {
		q.Urgency = entities.UrgencyNo
	}
	if q.TotalPrice.IsZero() {
		q.BasePrice = decimal.RequireFromString("24.00")
		q.TotalPrice = q.BasePrice
	}
	q.TranslateFrom, q.TranslateTo, q.WordCount = "pt", "en", 300
	q.CreatedAt = fixedNow
	created, err := s.Quotes().Create(context.Background(), q)
	if err != nil {
		t.Fatalf("seed quote: %v", err)
	}
	return created
}
