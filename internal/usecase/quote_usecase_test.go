package usecase

import (
	"context"
	"errors"
	"testing"

	"legacy_portal/internal/adapter/persistence/memory"
	"legacy_portal/internal/domain/entities"
	mock_interfaces "legacy_portal/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func validQuoteInput() CreateQuoteInput {
	return CreateQuoteInput{
		Reference:     "REF-7",
		ServiceType:   "Standard",
		TranslateFrom: "pt",
		TranslateTo:   "en",
		WordCount:     300,
		Urgency:       "priority",
		CustomerEmail: "Client@Example.com",
	}
}

func TestQuoteUseCase_CreateQuote(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, decimal.Zero)
		in := validQuoteInput()
		in.Reference = " "
		in.Urgency = "yesterday"
		in.WordCount = -1
		_, err := uc.CreateQuote(context.Background(), in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, f := range []string{"reference", "urgency", "word_count"} {
			if _, ok := verr.Violations[f]; !ok {
				t.Fatalf("expected violation on %s, got %v", f, verr.Violations)
			}
		}
	})

	t.Run("unknown service type", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, decimal.Zero)
		in := validQuoteInput()
		in.ServiceType = "specialist"
		_, err := uc.CreateQuote(context.Background(), in)
		if !errors.Is(err, ErrInvalidServiceType) {
			t.Fatalf("expected ErrInvalidServiceType, got %v", err)
		}
	})

	t.Run("prices and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, decimal.RequireFromString("10"))
		uc.now = clock(fixedNow)

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Quote{})).DoAndReturn(
			func(_ context.Context, q entities.Quote) (entities.Quote, error) { return q, nil },
		)

		in := validQuoteInput()
		in.PhysicalCopy = true
		q, err := uc.CreateQuote(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID == "" || q.Pages != 2 || q.ServiceType != entities.ServiceTypeStandard {
			t.Fatalf("unexpected quote: %+v", q)
		}
		if !q.BasePrice.Equal(decimal.RequireFromString("24")) || !q.UrgencyFee.Equal(decimal.RequireFromString("6")) {
			t.Fatalf("unexpected base/urgency: %s/%s", q.BasePrice, q.UrgencyFee)
		}
		if !q.TotalPrice.Equal(decimal.RequireFromString("40")) {
			t.Fatalf("expected total 40, got %s", q.TotalPrice)
		}
		if q.CustomerEmail != "client@example.com" || !q.CreatedAt.Equal(fixedNow) {
			t.Fatalf("unexpected customer/timestamp: %+v", q)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, decimal.Zero)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, errors.New("db"))

		_, err := uc.CreateQuote(context.Background(), validQuoteInput())
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("coupon is previewed not redeemed", func(t *testing.T) {
		s := memory.NewStore()
		seedCoupon(t, s, entities.Coupon{Code: "SAVE10", IsActive: true})
		coupons := NewCouponUseCase(s.Coupons(), s.Orders())
		coupons.now = clock(fixedNow)
		uc := NewQuoteUseCase(s.Quotes(), coupons, decimal.Zero)

		in := validQuoteInput()
		in.DiscountCode = " save10 "
		q, err := uc.CreateQuote(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.DiscountCode != "SAVE10" || !q.DiscountAmount.Equal(decimal.RequireFromString("3")) || !q.TotalPrice.Equal(decimal.RequireFromString("27")) {
			t.Fatalf("unexpected discount: %+v", q)
		}
		c, _ := s.Coupons().GetByCode(context.Background(), "SAVE10")
		if c.TimesUsed != 0 {
			t.Fatalf("preview must not redeem, times_used=%d", c.TimesUsed)
		}
	})

	t.Run("coupon rejected", func(t *testing.T) {
		s := memory.NewStore()
		coupons := NewCouponUseCase(s.Coupons(), s.Orders())
		uc := NewQuoteUseCase(s.Quotes(), coupons, decimal.Zero)

		in := validQuoteInput()
		in.DiscountCode = "NOPE"
		_, err := uc.CreateQuote(context.Background(), in)
		var rej *CouponRejectedError
		if !errors.As(err, &rej) || rej.Reason != entities.RejectionNotFound {
			t.Fatalf("expected NOT_FOUND rejection, got %v", err)
		}
	})
}

func TestQuoteUseCase_GetQuote(t *testing.T) {
	s := memory.NewStore()
	uc := NewQuoteUseCase(s.Quotes(), nil, decimal.Zero)
	seedQuote(t, s, entities.Quote{ID: "q-1"})

	if _, err := uc.GetQuote(context.Background(), "missing"); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
	if _, err := uc.GetQuote(context.Background(), " "); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound for blank id, got %v", err)
	}
	q, err := uc.GetQuote(context.Background(), " q-1 ")
	if err != nil || q.ID != "q-1" {
		t.Fatalf("unexpected result: %+v %v", q, err)
	}
}
