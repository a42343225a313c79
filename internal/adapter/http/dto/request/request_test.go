package request

import (
	"encoding/json"
	"testing"
)

func TestPaymentNotification_DataID(t *testing.T) {
	cases := map[string]string{
		`{"type":"payment","data":{"id":"123"}}`: "123",
		`{"type":"payment","data":{"id":456}}`:   "456",
		`{"type":"payment","data":{}}`:           "",
		`{"type":"payment","data":{"id":null}}`:  "",
	}
	for body, want := range cases {
		var n PaymentNotification
		if err := json.Unmarshal([]byte(body), &n); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if got := n.DataID(); got != want {
			t.Fatalf("%s: expected %q, got %q", body, want, got)
		}
	}
}

func TestResolveWebhook(t *testing.T) {
	var body PaymentNotification
	_ = json.Unmarshal([]byte(`{"data":{"id":"from-body"}}`), &body)

	topic, id := ResolveWebhook(body, "", "payment", "from-query", "")
	if topic != "payment" || id != "from-query" {
		t.Fatalf("query data.id should win: %s %s", topic, id)
	}

	topic, id = ResolveWebhook(body, "payment", "", "", "")
	if topic != "payment" || id != "from-body" {
		t.Fatalf("expected body fallback: %s %s", topic, id)
	}

	_, id = ResolveWebhook(PaymentNotification{}, "payment", "", "", "legacy-id")
	if id != "legacy-id" {
		t.Fatalf("expected legacy id param, got %s", id)
	}
}

func TestOrderListQuery_ToFilter(t *testing.T) {
	f := OrderListQuery{TranslationStatus: "review", ClientEmail: " Foo@Bar.com "}.ToFilter()
	if f.TranslationStatus == nil || *f.TranslationStatus != "review" {
		t.Fatalf("expected translation status filter")
	}
	if f.PaymentStatus != nil || f.ClientEmail != "foo@bar.com" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}
