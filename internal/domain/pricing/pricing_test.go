package pricing_test

import (
	"testing"

	"legacy_portal/internal/domain/entities"
	"legacy_portal/internal/domain/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func TestCalculate(t *testing.T) {
	type want struct {
		pages    int
		base     string
		urgency  string
		discount string
		total    string
	}

	tests := []struct {
		name string
		in   pricing.Input
		want want
	}{
		{
			name: "professional 200 words no urgency",
			in:   pricing.Input{ServiceType: entities.ServiceTypeProfessional, WordCount: 200, Urgency: entities.UrgencyNo},
			want: want{pages: 1, base: "15.00", urgency: "0.00", discount: "0.00", total: "15.00"},
		},
		{
			name: "professional 200 words priority",
			in:   pricing.Input{ServiceType: entities.ServiceTypeProfessional, WordCount: 200, Urgency: entities.UrgencyPriority},
			want: want{pages: 1, base: "15.00", urgency: "3.75", discount: "0.00", total: "18.75"},
		},
		{
			name: "professional 200 words urgent",
			in:   pricing.Input{ServiceType: entities.ServiceTypeProfessional, WordCount: 200, Urgency: entities.UrgencyUrgent},
			want: want{pages: 1, base: "15.00", urgency: "15.00", discount: "0.00", total: "30.00"},
		},
		{
			name: "standard below first page hits minimum",
			in:   pricing.Input{ServiceType: entities.ServiceTypeStandard, WordCount: 200, Urgency: entities.UrgencyNo},
			want: want{pages: 1, base: "18.00", urgency: "0.00", discount: "0.00", total: "18.00"},
		},
		{
			name: "standard rounds partial page up",
			in:   pricing.Input{ServiceType: entities.ServiceTypeStandard, WordCount: 501, Urgency: entities.UrgencyNo},
			want: want{pages: 3, base: "36.00", urgency: "0.00", discount: "0.00", total: "36.00"},
		},
		{
			name: "zero words still charges minimum",
			in:   pricing.Input{ServiceType: entities.ServiceTypeProfessional, WordCount: 0, Urgency: entities.UrgencyNo},
			want: want{pages: 0, base: "15.00", urgency: "0.00", discount: "0.00", total: "15.00"},
		},
		{
			name: "percentage discount applies after urgency and rounds half up",
			in: pricing.Input{
				ServiceType: entities.ServiceTypeProfessional, WordCount: 200, Urgency: entities.UrgencyPriority,
				Discount: &pricing.Discount{Type: entities.DiscountTypePercentage, Value: money("10")},
			},
			want: want{pages: 1, base: "15.00", urgency: "3.75", discount: "1.88", total: "16.87"},
		},
		{
			name: "fixed discount larger than subtotal is capped",
			in: pricing.Input{
				ServiceType: entities.ServiceTypeProfessional, WordCount: 200, Urgency: entities.UrgencyNo,
				Discount: &pricing.Discount{Type: entities.DiscountTypeFixed, Value: money("100")},
			},
			want: want{pages: 1, base: "15.00", urgency: "0.00", discount: "15.00", total: "0.00"},
		},
		{
			name: "shipping is added and not discounted",
			in: pricing.Input{
				ServiceType: entities.ServiceTypeStandard, WordCount: 250, Urgency: entities.UrgencyNo,
				ShippingFee: money("7.50"),
				Discount:    &pricing.Discount{Type: entities.DiscountTypeFixed, Value: money("50")},
			},
			want: want{pages: 1, base: "18.00", urgency: "0.00", discount: "18.00", total: "7.50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.Calculate(tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.want.pages, got.Pages)
			assertMoney(t, tt.want.base, got.BasePrice, "base_price")
			assertMoney(t, tt.want.urgency, got.UrgencyFee, "urgency_fee")
			assertMoney(t, tt.want.discount, got.DiscountAmount, "discount_amount")
			assertMoney(t, tt.want.total, got.TotalPrice, "total_price")
		})
	}
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      pricing.Input
		wantErr error
	}{
		{
			name:    "retired specialist tier",
			in:      pricing.Input{ServiceType: "specialist", WordCount: 100, Urgency: entities.UrgencyNo},
			wantErr: pricing.ErrInvalidServiceType,
		},
		{
			name:    "empty service type",
			in:      pricing.Input{WordCount: 100, Urgency: entities.UrgencyNo},
			wantErr: pricing.ErrInvalidServiceType,
		},
		{
			name:    "unknown urgency",
			in:      pricing.Input{ServiceType: entities.ServiceTypeStandard, WordCount: 100, Urgency: "yesterday"},
			wantErr: pricing.ErrInvalidUrgency,
		},
		{
			name:    "negative word count",
			in:      pricing.Input{ServiceType: entities.ServiceTypeStandard, WordCount: -1, Urgency: entities.UrgencyNo},
			wantErr: pricing.ErrNegativeWordCount,
		},
		{
			name:    "negative shipping",
			in:      pricing.Input{ServiceType: entities.ServiceTypeStandard, WordCount: 1, Urgency: entities.UrgencyNo, ShippingFee: money("-1")},
			wantErr: pricing.ErrNegativeShipping,
		},
		{
			name: "negative discount",
			in: pricing.Input{
				ServiceType: entities.ServiceTypeStandard, WordCount: 1, Urgency: entities.UrgencyNo,
				Discount: &pricing.Discount{Type: entities.DiscountTypeFixed, Value: money("-5")},
			},
			wantErr: pricing.ErrInvalidDiscount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pricing.Calculate(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_BaseNeverBelowMinimum(t *testing.T) {
	for serviceType, tier := range pricing.Tiers {
		for _, urgency := range []entities.Urgency{entities.UrgencyNo, entities.UrgencyPriority, entities.UrgencyUrgent} {
			for words := 0; words <= 5000; words += 37 {
				got, err := pricing.Calculate(pricing.Input{ServiceType: serviceType, WordCount: words, Urgency: urgency})
				require.NoError(t, err)
				assert.True(t, got.BasePrice.GreaterThanOrEqual(tier.Minimum), "%s %d words: base %s below minimum", serviceType, words, got.BasePrice)
				assert.False(t, got.TotalPrice.IsNegative())
			}
		}
	}
}

func TestCalculate_DiscountNeverDrivesTotalNegative(t *testing.T) {
	discounts := []pricing.Discount{
		{Type: entities.DiscountTypePercentage, Value: money("100")},
		{Type: entities.DiscountTypePercentage, Value: money("250")},
		{Type: entities.DiscountTypeFixed, Value: money("9999.99")},
	}
	for _, d := range discounts {
		d := d
		got, err := pricing.Calculate(pricing.Input{
			ServiceType: entities.ServiceTypeStandard, WordCount: 1000, Urgency: entities.UrgencyUrgent, Discount: &d,
		})
		require.NoError(t, err)
		assertMoney(t, "0.00", got.TotalPrice, string(d.Type))
	}
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, pricing.Pages(0))
	assert.Equal(t, 1, pricing.Pages(1))
	assert.Equal(t, 1, pricing.Pages(250))
	assert.Equal(t, 2, pricing.Pages(251))
}
