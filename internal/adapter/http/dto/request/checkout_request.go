package request

import (
	"encoding/json"
	"legacy_portal/internal/usecase"
	"strings"
)

type CreateCheckoutRequest struct {
	QuoteID       string `json:"quote_id"`
	OriginURL     string `json:"origin_url"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
}

func (r CreateCheckoutRequest) ToInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		QuoteID:       r.QuoteID,
		OriginURL:     r.OriginURL,
		CustomerEmail: r.CustomerEmail,
		CustomerName:  r.CustomerName,
	}
}

// PaymentNotification is the body Mercado Pago posts to the webhook.
//
// data.id arrives as a string for some topics and as a number for others.
type PaymentNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

func (n PaymentNotification) DataID() string {
	raw := strings.TrimSpace(string(n.Data.ID))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(n.Data.ID, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return raw
}

// ResolveWebhook merges the query string and the body. The signature is
// computed over the query data.id, so it wins when both are present.
func ResolveWebhook(body PaymentNotification, queryType, queryTopic, queryDataID, queryID string) (topic, dataID string) {
	topic = strings.TrimSpace(body.Type)
	if topic == "" {
		topic = strings.TrimSpace(queryType)
	}
	if topic == "" {
		topic = strings.TrimSpace(queryTopic)
	}

	dataID = strings.TrimSpace(queryDataID)
	if dataID == "" {
		dataID = body.DataID()
	}
	if dataID == "" {
		dataID = strings.TrimSpace(queryID)
	}
	return topic, dataID
}
