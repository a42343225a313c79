package validation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("reference", "  ", v)
	NonNegativeInt("word_count", -1, v)
	PositiveInt("max_uses", 0, v)
	PositiveDecimal("discount_value", decimal.Zero, v)
	NonNegativeDecimal("subtotal", decimal.NewFromInt(-3), v)
	Email("customer_email", "not-an-email", v)
	OneOf("urgency", "tomorrow", []string{"no", "priority", "urgent"}, v)
	Language("translate_to", "x", v)

	want := map[string]string{
		"reference":      "required",
		"word_count":     "must_not_be_negative",
		"max_uses":       "must_be_positive",
		"discount_value": "must_be_positive",
		"subtotal":       "must_not_be_negative",
		"customer_email": "invalid_email",
		"urgency":        "invalid_value",
		"translate_to":   "invalid_language",
	}
	for field, rule := range want {
		if v[field] != rule {
			t.Fatalf("expected %s=%s, got %q", field, rule, v[field])
		}
	}
}

func TestValidators_Pass(t *testing.T) {
	v := Violations{}
	Required("reference", "REF-1", v)
	NonNegativeInt("word_count", 0, v)
	Email("customer_email", "", v)
	Email("pm_email", "pm@example.com", v)
	OneOf("urgency", "no", []string{"no", "priority", "urgent"}, v)
	Language("translate_from", "pt-BR", v)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}
