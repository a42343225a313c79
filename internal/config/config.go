package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

type Config struct {
	App struct {
		Name          string `envconfig:"APP_NAME" default:"legacy-portal"`
		Port          int    `envconfig:"PORT" default:"8080"`
		PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
		AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@localhost"`
	}

	AWS struct {
		Region           string `envconfig:"AWS_REGION" default:"us-east-1"`
		AccessKeyID      string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
		SecretAccessKey  string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
		DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"`
	}

	Tables struct {
		Quotes         string `envconfig:"QUOTES_TABLE" default:"quotes"`
		Orders         string `envconfig:"ORDERS_TABLE" default:"orders"`
		Coupons        string `envconfig:"COUPONS_TABLE" default:"coupons"`
		Transactions   string `envconfig:"TRANSACTIONS_TABLE" default:"payment_transactions"`
		Certifications string `envconfig:"CERTIFICATIONS_TABLE" default:"certifications"`
		Outbox         string `envconfig:"OUTBOX_TABLE" default:"outbox_events"`
	}

	Storage struct {
		Driver string `envconfig:"STORAGE_DRIVER" default:"dynamodb"`
	}

	MercadoPago struct {
		AccessToken     string `envconfig:"MERCADOPAGO_ACCESS_TOKEN"`
		WebhookSecret   string `envconfig:"MERCADOPAGO_WEBHOOK_SECRET"`
		NotificationURL string `envconfig:"MERCADOPAGO_NOTIFICATION_URL"`
		Currency        string `envconfig:"MERCADOPAGO_CURRENCY" default:"BRL"`
		Mock            bool   `envconfig:"PAYMENT_GATEWAY_MOCK" default:"false"`
	}

	Email struct {
		APIURL  string        `envconfig:"EMAIL_API_URL"`
		APIKey  string        `envconfig:"EMAIL_API_KEY"`
		From    string        `envconfig:"EMAIL_FROM" default:"no-reply@localhost"`
		Timeout time.Duration `envconfig:"EMAIL_TIMEOUT" default:"10s"`
	}

	TMS struct {
		BaseURL string        `envconfig:"TMS_BASE_URL"`
		APIKey  string        `envconfig:"TMS_API_KEY"`
		Timeout time.Duration `envconfig:"TMS_TIMEOUT" default:"15s"`
	}

	Retry struct {
		MaxAttempts     uint64        `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
		InitialInterval time.Duration `envconfig:"RETRY_INITIAL_INTERVAL" default:"500ms"`
		MaxInterval     time.Duration `envconfig:"RETRY_MAX_INTERVAL" default:"5s"`
		BreakerFailures uint32        `envconfig:"BREAKER_FAILURES" default:"5"`
		BreakerTimeout  time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	Pricing struct {
		PhysicalCopyFee decimal.Decimal `envconfig:"PHYSICAL_COPY_FEE" default:"10.00"`
		InvoiceDueDays  int             `envconfig:"INVOICE_DUE_DAYS" default:"30"`
	}

	Worker struct {
		Enabled         bool          `envconfig:"WORKER_ENABLED" default:"true"`
		OutboxInterval  time.Duration `envconfig:"OUTBOX_INTERVAL" default:"5s"`
		OutboxBatch     int           `envconfig:"OUTBOX_BATCH" default:"50"`
		OutboxMaxTries  int           `envconfig:"OUTBOX_MAX_TRIES" default:"10"`
		OverdueInterval time.Duration `envconfig:"OVERDUE_INTERVAL" default:"1h"`
		CheckoutTTL     time.Duration `envconfig:"CHECKOUT_TTL" default:"24h"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageDynamoDB, StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Pricing.PhysicalCopyFee.IsNegative() {
		return fmt.Errorf("PHYSICAL_COPY_FEE must not be negative")
	}
	if c.Pricing.InvoiceDueDays <= 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS must be positive")
	}
	return nil
}

// WebhookURL is where Mercado Pago posts payment notifications.
func (c *Config) WebhookURL() string {
	if c.MercadoPago.NotificationURL != "" {
		return c.MercadoPago.NotificationURL
	}
	return strings.TrimRight(c.App.PublicBaseURL, "/") + "/v1/webhooks/payments"
}

// AssignmentResponseURL builds the accept or decline link sent to translators.
func (c *Config) AssignmentResponseURL(token, action string) string {
	return fmt.Sprintf("%s/v1/assignments/respond?token=%s&action=%s", strings.TrimRight(c.App.PublicBaseURL, "/"), token, action)
}
